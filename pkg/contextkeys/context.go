package contextkeys

// Custom type so our keys cannot collide with other packages'.
type contextKey string

// DBContextKey is the gin context key under which the request's *gorm.DB
// (the shared pool handle) is stored by middleware.DBMiddleware.
const DBContextKey = contextKey("db")

// SessionContextKey is the gin context key for the resolved session, set by
// the authentication middleware.
const SessionContextKey = contextKey("session")
