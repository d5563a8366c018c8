package handlers

import (
	"context"
	"fmt"
	"net/http"

	"folio_backend/internal/middleware"
	"folio_backend/internal/services"
	"folio_backend/internal/services/dto"
	"folio_backend/internal/streaming"
	"folio_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FileHandler struct {
	*BaseHandler
	authService services.AuthService
	fileService services.FileService
}

func NewFileHandler(base *BaseHandler, authService services.AuthService, fileService services.FileService) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		authService: authService,
		fileService: fileService,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	public := r.Group("/work/file")
	public.Use(middleware.OptionalSession(h.authService))
	{
		public.GET("/:uuid", h.Stream)
		public.HEAD("/:uuid", h.Stream)
	}

	owned := r.Group("/work/file")
	owned.Use(middleware.RequireSession(h.authService))
	{
		owned.POST("", h.AppendPart)
	}
}

func (h *FileHandler) AppendPart(c *gin.Context) {
	var req dto.AppendFilePartRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	session := h.Session(c)
	resp, err := h.fileService.AppendPart(c.Request.Context(), h.GetDB(c), session.UserID, &req)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stream sends a whole big-file chain as one download. The head part is
// fetched before the response commits; the rest of the chain is fetched by
// a detached goroutine while the client drains.
func (h *FileHandler) Stream(c *gin.Context) {
	userID := h.OptionalUserID(c)
	db := h.GetDB(c)

	head, err := h.fileService.GetPart(c.Request.Context(), db, userID, c.Param("uuid"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	stream := streaming.New(streaming.DefaultSendTimeout)
	// The channel has room for one frame, so this never blocks.
	if err := stream.Send(head.Bytes); err != nil {
		apperrors.HandleError(c, apperrors.DbError(err))
		return
	}

	if c.Request.Method == http.MethodHead || head.NextUUID == nil {
		stream.Close()
	} else {
		// The walker outlives the handler's return, so it gets a context
		// that keeps the request's log fields but not its cancellation.
		walkCtx := context.WithoutCancel(c.Request.Context())
		go streaming.Walk(walkCtx, stream, *head.NextUUID, h.fetchFunc(walkCtx, db, userID))
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", asciiSanitize(head.Filename)))
	c.Header("Content-Type", head.ContentType)
	c.Status(http.StatusOK)

	for {
		select {
		case frame, ok := <-stream.Frames():
			if !ok {
				return
			}
			if _, err := c.Writer.Write(frame); err != nil {
				return
			}
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			// Client gone; the producer's next send times out on its own.
			return
		}
	}
}

func (h *FileHandler) fetchFunc(ctx context.Context, db *gorm.DB, userID *int32) streaming.FetchFunc {
	return func(partUUID string) ([]byte, *string, error) {
		part, err := h.fileService.GetPart(ctx, db, userID, partUUID)
		if err != nil {
			return nil, nil, err
		}
		return part.Bytes, part.NextUUID, nil
	}
}

// asciiSanitize replaces every character outside the printable ASCII range
// with an underscore, keeping the Content-Disposition header legal.
func asciiSanitize(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r < '!' || r > '~' {
			out[i] = '_'
		}
	}
	return string(out)
}
