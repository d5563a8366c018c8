package handlers

import (
	"net/http"

	"folio_backend/internal/middleware"
	"folio_backend/internal/services"
	"folio_backend/internal/services/dto"
	"folio_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	authService services.AuthService
}

func NewUserHandler(base *BaseHandler, authService services.AuthService) *UserHandler {
	return &UserHandler{BaseHandler: base, authService: authService}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/user")
	{
		public.POST("/register", h.Register)
		public.POST("/login", h.Login)
	}

	authed := r.Group("/user")
	authed.Use(middleware.RequireSession(h.authService))
	{
		authed.GET("/me", h.Me)
	}
}

// Register creates an account and immediately logs it in.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me echoes the caller's own session token, confirming it is still valid.
func (h *UserHandler) Me(c *gin.Context) {
	session := h.Session(c)
	c.JSON(http.StatusOK, dto.SessionResponse{SessionID: session.UUID})
}
