package apperrors

import (
	"database/sql"
	"database/sql/driver"

	"folio_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the wire envelope for every failed request.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError translates any error into the {"error": <kind>} envelope.
// Errors that are not AppErrors become DbError, matching the convention
// that every unclassified failure is an internal one.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = DbError(err)
	}
	if appErr.Code == CodeDbError && isConnFailure(appErr.Err) {
		appErr = DbConnAcquire(appErr.Err)
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxWithError(c.Request.Context(), "request failed", appErr,
			"path", c.Request.URL.Path,
			"kind", string(appErr.Code),
		)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// isConnFailure spots pool-level failures hiding inside a generic database
// error so they travel as DbConnAcquire (503) rather than DbError (500).
func isConnFailure(err error) bool {
	return Is(err, sql.ErrConnDone) || Is(err, driver.ErrBadConn)
}
