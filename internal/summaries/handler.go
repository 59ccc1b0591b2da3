package summaries

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lammah-backend/internal/shared/server/middleware"
	"lammah-backend/internal/shared/server/respond"
)

// Handler wires summary routes to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/summaries", h.list)
}

type summaryResponse struct {
	ID        string    `json:"id"`
	FileID    string    `json:"fileId"`
	Content   string    `json:"content"`
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

	list, err := h.Svc.List(c.Request.Context(), userID, c.Query("fileId"), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "فشل جلب الملخصات", nil)
		return
	}

	resp := make([]summaryResponse, 0, len(list))
	for _, s := range list {
		resp = append(resp, summaryResponse{
			ID:        s.ID,
			FileID:    s.FileID,
			Content:   s.Content,
			CreatedAt: s.CreatedAt,
		})
	}
	respond.JSON(c, http.StatusOK, resp)
}
