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

type WorkHandler struct {
	*BaseHandler
	authService services.AuthService
	workService services.WorkService
}

func NewWorkHandler(base *BaseHandler, authService services.AuthService, workService services.WorkService) *WorkHandler {
	return &WorkHandler{
		BaseHandler: base,
		authService: authService,
		workService: workService,
	}
}

func (h *WorkHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/work")
	public.Use(middleware.OptionalSession(h.authService))
	{
		public.GET("/:slug", h.GetBySlug)
	}

	owned := r.Group("/work")
	owned.Use(middleware.RequireSession(h.authService))
	{
		owned.GET("", h.List)
		owned.POST("/:slug", h.Create)
		owned.PUT("/:slug", h.Update)
	}
}

func (h *WorkHandler) List(c *gin.Context) {
	session := h.Session(c)
	resp, err := h.workService.ListOwned(c.Request.Context(), h.GetDB(c), session.UserID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WorkHandler) GetBySlug(c *gin.Context) {
	resp, err := h.workService.GetBySlug(c.Request.Context(), h.GetDB(c), h.OptionalUserID(c), c.Param("slug"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WorkHandler) Create(c *gin.Context) {
	slug := c.Param("slug")
	if !validator.IsSlug(slug) {
		c.String(http.StatusBadRequest, "Invalid slug: %q", slug)
		return
	}

	var req dto.SaveWorkRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	session := h.Session(c)
	resp, err := h.workService.Create(c.Request.Context(), h.GetDB(c), session.UserID, slug, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WorkHandler) Update(c *gin.Context) {
	slug := c.Param("slug")
	if !validator.IsSlug(slug) {
		c.String(http.StatusBadRequest, "Invalid slug: %q", slug)
		return
	}

	var req dto.SaveWorkRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	session := h.Session(c)
	resp, err := h.workService.Update(c.Request.Context(), h.GetDB(c), session.UserID, slug, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
