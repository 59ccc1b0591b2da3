package chat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"lammah-backend/internal/llm"
	"lammah-backend/internal/shared/server/respond"
)

// Handler exposes the chat endpoint over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the chat route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/chat", h.post)
}

type chatRequest struct {
	Message     string        `json:"message"`
	ChatHistory []historyItem `json:"chatHistory"`
}

type historyItem struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func (h *Handler) post(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "محتوى الطلب غير صالح", nil)
		return
	}

	history := make([]HistoryEntry, 0, len(req.ChatHistory))
	for _, item := range req.ChatHistory {
		history = append(history, HistoryEntry{Sender: item.Sender, Text: item.Text})
	}

	reply, err := h.Svc.Respond(c.Request.Context(), req.Message, history)
	if err != nil {
		respondChatError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"response": reply})
}

func respondChatError(c *gin.Context, err error) {
	var upstream *llm.UpstreamError

	switch {
	case errors.Is(err, ErrEmptyMessage):
		respond.Error(c, http.StatusBadRequest, "validation_error", "يجب توفير رسالة", nil)
	case errors.Is(err, llm.ErrAuthFailed):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "فشل في التحقق من مفتاح API", nil)
	case errors.Is(err, llm.ErrRateLimited):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "خدمة المساعد مشغولة حالياً، حاول مرة أخرى لاحقاً", nil)
	case errors.As(err, &upstream):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "فشل في توليد الرد", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "حدث خطأ غير متوقع", nil)
	}
}
