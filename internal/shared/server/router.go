package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "lammah-backend/internal/auth"
	"lammah-backend/internal/chat"
	"lammah-backend/internal/documents"
	"lammah-backend/internal/flashcards"
	"lammah-backend/internal/generation"
	"lammah-backend/internal/quizzes"
	"lammah-backend/internal/shared/config"
	"lammah-backend/internal/shared/metrics"
	"lammah-backend/internal/shared/server/middleware"
	"lammah-backend/internal/shared/server/respond"
	"lammah-backend/internal/summaries"
	"lammah-backend/internal/users"
)

// RouterDeps carries everything the router needs. Bootstrap builds the
// services; the router only attaches them to routes.
type RouterDeps struct {
	Cfg        config.Config
	GoogleAuth *googleauth.GoogleService
	Users      *users.Handler
	Documents  *documents.Handler
	Generation *generation.Handler
	Chat       *chat.Handler
	Quizzes    *quizzes.Handler
	Flashcards *flashcards.Handler
	Summaries  *summaries.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Cfg.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(rateLimitConfig()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.Users != nil {
		deps.Users.RegisterRoutes(api)
	}
	if deps.Documents != nil {
		deps.Documents.RegisterRoutes(api)
	}
	if deps.Generation != nil {
		deps.Generation.RegisterRoutes(api)
	}
	if deps.Chat != nil {
		deps.Chat.RegisterRoutes(api)
	}
	if deps.Quizzes != nil {
		deps.Quizzes.RegisterRoutes(api)
	}
	if deps.Flashcards != nil {
		deps.Flashcards.RegisterRoutes(api)
	}
	if deps.Summaries != nil {
		deps.Summaries.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig throttles the LLM-backed endpoints harder than ordinary
// CRUD traffic. Limits are per authenticated user (per client IP before
// auth).
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			middleware.GenerationGroup: {Rate: 0.5, Burst: 3},
			"DEFAULT":                  {Rate: 20, Burst: 40},
		},
		GroupFor: func(c *gin.Context) string {
			path := c.Request.URL.Path
			if strings.HasSuffix(path, "/process") || strings.HasSuffix(path, "/chat") {
				return middleware.GenerationGroup
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
