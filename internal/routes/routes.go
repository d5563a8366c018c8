package routes

import (
	"net/http"

	"folio_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Handlers aggregates every route handler the router mounts.
type Handlers struct {
	Health    *handlers.HealthHandler
	User      *handlers.UserHandler
	Portfolio *handlers.PortfolioHandler
	Work      *handlers.WorkHandler
	File      *handlers.FileHandler
}

// RegisterRoutes mounts all handlers under the configured base path.
func RegisterRoutes(router *gin.Engine, basePath string, appHandlers *Handlers) {
	api := router.Group(basePath)
	{
		appHandlers.Health.RegisterRoutes(api)
		appHandlers.User.RegisterRoutes(api)
		appHandlers.Portfolio.RegisterRoutes(api)
		appHandlers.Work.RegisterRoutes(api)
		appHandlers.File.RegisterRoutes(api)
	}

	router.NoRoute(notFound)
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound,
		"404 Not Found\r\n\r\nYou've reached the backend API, but there's no resource at this path.")
}
