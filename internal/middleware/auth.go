package middleware

import (
	"strings"

	"folio_backend/internal/logger"
	"folio_backend/internal/models"
	"folio_backend/internal/services"
	"folio_backend/pkg/apperrors"
	"folio_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// uuidTokenLen is the length of a canonical v4 UUID string.
const uuidTokenLen = 36

// BearerTokens extracts every plausible session token from the request's
// Authorization headers. Values without a Bearer prefix or with a
// wrong-length token are skipped.
func BearerTokens(headerValues []string) []string {
	var tokens []string
	for _, value := range headerValues {
		token, found := strings.CutPrefix(value, "Bearer ")
		if !found {
			continue
		}
		if len(token) != uuidTokenLen {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// RequireSession authenticates the request. No usable Bearer value at all
// is MissingSession; a usable value that fails to resolve is
// InvalidSession. The first token that resolves wins.
func RequireSession(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, sawBearer := resolveFirst(c, authService)
		if session == nil {
			if sawBearer {
				apperrors.HandleError(c, apperrors.InvalidSession())
			} else {
				apperrors.HandleError(c, apperrors.MissingSession())
			}
			return
		}

		ctx := logger.WithUserID(c.Request.Context(), session.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(contextkeys.SessionContextKey), session)
		c.Next()
	}
}

// OptionalSession resolves a session when one is presented but lets
// anonymous requests through. Unresolvable tokens count as anonymous, the
// visibility predicate then only shows published content.
func OptionalSession(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, _ := resolveFirst(c, authService)
		if session != nil {
			ctx := logger.WithUserID(c.Request.Context(), session.UserID)
			c.Request = c.Request.WithContext(ctx)
			c.Set(string(contextkeys.SessionContextKey), session)
		}
		c.Next()
	}
}

func resolveFirst(c *gin.Context, authService services.AuthService) (session *models.Session, sawBearer bool) {
	tokens := BearerTokens(c.Request.Header.Values("Authorization"))
	if len(tokens) == 0 {
		return nil, false
	}

	db := mustDB(c)
	for _, token := range tokens {
		resolved, err := authService.ResolveSession(c.Request.Context(), db, token)
		if err != nil {
			continue
		}
		return resolved, true
	}
	return nil, true
}

func mustDB(c *gin.Context) *gorm.DB {
	val, ok := c.Get(string(contextkeys.DBContextKey))
	if !ok {
		panic("auth middleware requires DBMiddleware to run first")
	}
	return val.(*gorm.DB)
}
