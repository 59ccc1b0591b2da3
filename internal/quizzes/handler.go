package quizzes

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lammah-backend/internal/shared/server/middleware"
	"lammah-backend/internal/shared/server/respond"
)

// Handler wires quiz CRUD routes to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quizzes", h.list)
	rg.GET("/quizzes/:id", h.get)
	rg.PUT("/quizzes/:id", h.update)
	rg.DELETE("/quizzes/:id", h.remove)
}

type questionPayload struct {
	Text          string   `json:"text"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correctAnswer"`
}

type quizResponse struct {
	QuizID     string            `json:"quizId"`
	FileID     string            `json:"fileId"`
	Title      string            `json:"title"`
	Difficulty string            `json:"difficulty"`
	CreatedAt  time.Time         `json:"createdAt"`
	Questions  []questionPayload `json:"questions,omitempty"`
}

func toResponse(quiz Quiz) quizResponse {
	resp := quizResponse{
		QuizID:     quiz.ID,
		FileID:     quiz.FileID,
		Title:      quiz.Title,
		Difficulty: quiz.Difficulty,
		CreatedAt:  quiz.CreatedAt,
	}
	for _, q := range quiz.Questions {
		resp.Questions = append(resp.Questions, questionPayload{
			Text:          q.Text,
			Choices:       q.Choices,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return resp
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

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "فشل جلب الاختبارات", nil)
		return
	}

	resp := make([]quizResponse, 0, len(list))
	for _, quiz := range list {
		resp = append(resp, toResponse(quiz))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	quiz, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondQuizError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(quiz))
}

type updateRequest struct {
	Title      string             `json:"title"`
	Difficulty string             `json:"difficulty"`
	Questions  []*questionPayload `json:"questions"`
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "محتوى الطلب غير صالح", nil)
		return
	}

	in := UpdateInput{Title: req.Title, Difficulty: req.Difficulty}
	if req.Questions != nil {
		in.Questions = make([]GeneratedQuestion, 0, len(req.Questions))
		for _, q := range req.Questions {
			if q == nil {
				continue
			}
			in.Questions = append(in.Questions, GeneratedQuestion{
				Text:          q.Text,
				Choices:       q.Choices,
				CorrectAnswer: q.CorrectAnswer,
			})
		}
	}

	quiz, err := h.Svc.Update(c.Request.Context(), userID, c.Param("id"), in)
	if err != nil {
		respondQuizError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(quiz))
}

func (h *Handler) remove(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondQuizError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}

func respondQuizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "محتوى الطلب غير صالح", map[string]any{"reason": err.Error()})
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "الاختبار غير موجود", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "لا تملك صلاحية الوصول لهذا الاختبار", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "حدث خطأ غير متوقع", nil)
	}
}
