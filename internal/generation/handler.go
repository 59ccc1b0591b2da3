package generation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lammah-backend/internal/documents"
	"lammah-backend/internal/extract"
	"lammah-backend/internal/llm"
	"lammah-backend/internal/shared/server/middleware"
	"lammah-backend/internal/shared/server/respond"
)

// Handler exposes the generation orchestrator over HTTP.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the process route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/process", h.process)
}

type processRequest struct {
	FileID      string `json:"fileId"`
	Action      string `json:"action"`
	FileContent string `json:"fileContent"`
	FileURL     string `json:"fileUrl"`
	Difficulty  string `json:"difficulty"`
}

func (h *Handler) process(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "محتوى الطلب غير صالح", nil)
		return
	}

	if req.FileID == "" || req.Action == "" || (req.FileContent == "" && req.FileURL == "") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "يجب توفير معرف الملف ونوع المعالجة ومحتوى الملف أو رابط الملف", nil)
		return
	}

	action, err := llm.ParseAction(req.Action)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "نوع المعالجة غير صالح", nil)
		return
	}
	difficulty, err := llm.ParseDifficulty(req.Difficulty)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "مستوى الصعوبة غير صالح", nil)
		return
	}

	result, err := h.Svc.Generate(c.Request.Context(), userID, Input{
		FileID:     req.FileID,
		Action:     action,
		Content:    req.FileContent,
		FileURL:    req.FileURL,
		Difficulty: difficulty,
		RequestID:  c.GetString("requestId"),
	})
	if err != nil {
		respondGenerationError(c, err)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"result": toResultResponse(action, result)})
}

func toResultResponse(action llm.Action, result Result) gin.H {
	switch action {
	case llm.ActionQuiz:
		return gin.H{
			"quizId":         result.QuizID,
			"title":          result.Title,
			"totalQuestions": result.TotalQuestions,
			"questions":      result.Questions,
		}
	case llm.ActionSummary:
		return gin.H{"summary": result.Summary}
	default:
		return gin.H{"flashcards": result.Flashcards}
	}
}

// validationMessage unwraps the user-facing text that the service wraps
// around ErrValidation, falling back to the missing-fields message.
func validationMessage(err error) string {
	if msg, ok := strings.CutPrefix(err.Error(), ErrValidation.Error()+": "); ok && msg != "" {
		return msg
	}
	return "يجب توفير معرف الملف ونوع المعالجة ومحتوى الملف أو رابط الملف"
}

func respondGenerationError(c *gin.Context, err error) {
	var upstream *llm.UpstreamError

	switch {
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusBadRequest, "validation_error", validationMessage(err), nil)
	case errors.Is(err, extract.ErrNotArabicContent):
		respond.Error(c, http.StatusBadRequest, "validation_error", "المحتوى يجب أن يكون باللغة العربية", nil)
	case errors.Is(err, documents.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "الملف غير موجود", nil)
	case errors.Is(err, documents.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "لا تملك صلاحية الوصول لهذا الملف", nil)
	case errors.Is(err, extract.ErrFetchFailed),
		errors.Is(err, extract.ErrUnsupportedType),
		errors.Is(err, extract.ErrNoTextFound),
		errors.Is(err, extract.ErrOCRTimeout):
		respond.Error(c, http.StatusInternalServerError, "extraction_error", "فشل في استخراج محتوى الملف", nil)
	case errors.Is(err, llm.ErrAuthFailed):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "فشل في التحقق من مفتاح API", nil)
	case errors.Is(err, llm.ErrRateLimited):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "خدمة التوليد مشغولة حالياً، حاول مرة أخرى لاحقاً", nil)
	case errors.As(err, &upstream):
		respond.Error(c, http.StatusBadGateway, "upstream_error", "فشل في توليد المحتوى", nil)
	case errors.Is(err, ErrInvalidFormat):
		respond.Error(c, http.StatusInternalServerError, "parse_error", "فشل في تحليل المحتوى المولد", nil)
	case errors.Is(err, ErrPersistence):
		respond.Error(c, http.StatusInternalServerError, "persistence_error", "فشل في حفظ النتائج في قاعدة البيانات", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "حدث خطأ غير متوقع", nil)
	}
}
