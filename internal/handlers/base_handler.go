package handlers

import (
	"fmt"
	"net/http"

	"folio_backend/internal/logger"
	"folio_backend/internal/models"
	"folio_backend/internal/validator"
	"folio_backend/pkg/apperrors"
	"folio_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// GetDB pulls the pool (or a test transaction) that DBMiddleware placed in
// the context.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		logger.CtxError(c.Request.Context(), "db key not found in context", "key", dbKey)
		panic("DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "db in context has wrong type", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("db in context has incorrect type")
	}

	return db
}

// BindAndValidateJSON parses and bounds-checks the request body. Failures
// end the request with a plain 400; the enumerated error kinds are
// reserved for domain errors.
func (h *BaseHandler) BindAndValidateJSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(ctx, "failed to bind JSON body", err, "path", c.Request.URL.Path)
		c.String(http.StatusBadRequest, "Invalid request body: %v", err)
		c.Abort()
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			c.String(http.StatusBadRequest, "Invalid request body: %v", vErr)
			c.Abort()
			return false
		}
		logger.CtxWithError(ctx, "validator failed", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.DbError(err))
		return false
	}

	return true
}

// Session returns the session placed in the context by RequireSession.
func (h *BaseHandler) Session(c *gin.Context) *models.Session {
	val, ok := c.Get(string(contextkeys.SessionContextKey))
	if !ok {
		panic("handler requires RequireSession to run first")
	}
	return val.(*models.Session)
}

// OptionalUserID returns the caller's user id, or nil for an anonymous
// request behind OptionalSession.
func (h *BaseHandler) OptionalUserID(c *gin.Context) *int32 {
	val, ok := c.Get(string(contextkeys.SessionContextKey))
	if !ok {
		return nil
	}
	session := val.(*models.Session)
	return &session.UserID
}
