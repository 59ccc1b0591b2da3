package flashcards

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lammah-backend/internal/shared/server/middleware"
	"lammah-backend/internal/shared/server/respond"
)

// Handler wires flashcard routes to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/flashcards", h.list)
	rg.DELETE("/flashcards/:id", h.remove)
}

type batchResponse struct {
	ID        string    `json:"id"`
	FileID    string    `json:"fileId"`
	Cards     []Card    `json:"cards"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	batches, err := h.Svc.List(c.Request.Context(), userID, c.Query("fileId"), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "فشل جلب البطاقات", nil)
		return
	}

	resp := make([]batchResponse, 0, len(batches))
	for _, batch := range batches {
		resp = append(resp, batchResponse{
			ID:        batch.ID,
			FileID:    batch.FileID,
			Cards:     batch.Cards,
			CreatedAt: batch.CreatedAt,
		})
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "محتوى الطلب غير صالح", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "البطاقات غير موجودة", nil)
		case errors.Is(err, ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "لا تملك صلاحية الوصول لهذه البطاقات", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "حدث خطأ غير متوقع", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}
