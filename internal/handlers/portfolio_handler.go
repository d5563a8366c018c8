package handlers

import (
	"net/http"

	"folio_backend/internal/middleware"
	"folio_backend/internal/services"
	"folio_backend/internal/services/dto"
	"folio_backend/internal/validator"
	"folio_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	*BaseHandler
	authService      services.AuthService
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(base *BaseHandler, authService services.AuthService, portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		BaseHandler:      base,
		authService:      authService,
		portfolioService: portfolioService,
	}
}

func (h *PortfolioHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/portfolio")
	public.Use(middleware.OptionalSession(h.authService))
	{
		public.GET("/:slug", h.GetBySlug)
	}

	owned := r.Group("/portfolio")
	owned.Use(middleware.RequireSession(h.authService))
	{
		owned.GET("", h.List)
		owned.POST("/:slug", h.Create)
		owned.PUT("/:slug", h.Update)
	}
}

func (h *PortfolioHandler) List(c *gin.Context) {
	session := h.Session(c)
	resp, err := h.portfolioService.ListOwned(c.Request.Context(), h.GetDB(c), session.UserID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortfolioHandler) GetBySlug(c *gin.Context) {
	resp, err := h.portfolioService.GetBySlug(c.Request.Context(), h.GetDB(c), h.OptionalUserID(c), c.Param("slug"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	slug := c.Param("slug")
	if !validator.IsSlug(slug) {
		c.String(http.StatusBadRequest, "Invalid slug: %q", slug)
		return
	}

	var req dto.SavePortfolioRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	session := h.Session(c)
	resp, err := h.portfolioService.Create(c.Request.Context(), h.GetDB(c), session.UserID, slug, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	slug := c.Param("slug")
	if !validator.IsSlug(slug) {
		c.String(http.StatusBadRequest, "Invalid slug: %q", slug)
		return
	}

	var req dto.SavePortfolioRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	session := h.Session(c)
	resp, err := h.portfolioService.Update(c.Request.Context(), h.GetDB(c), session.UserID, slug, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
