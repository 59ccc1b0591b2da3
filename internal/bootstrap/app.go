package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "lammah-backend/internal/auth"
	"lammah-backend/internal/chat"
	"lammah-backend/internal/documents"
	"lammah-backend/internal/extract"
	"lammah-backend/internal/flashcards"
	"lammah-backend/internal/generation"
	"lammah-backend/internal/llm"
	"lammah-backend/internal/llm/openrouter"
	"lammah-backend/internal/ocr"
	"lammah-backend/internal/quizzes"
	"lammah-backend/internal/shared/config"
	"lammah-backend/internal/shared/server"
	"lammah-backend/internal/shared/storage/db"
	"lammah-backend/internal/shared/storage/object"
	localstore "lammah-backend/internal/shared/storage/object/local"
	s3store "lammah-backend/internal/shared/storage/object/s3"
	"lammah-backend/internal/summaries"
	"lammah-backend/internal/users"
)

// App holds the wired dependency graph. Tests can Build one against
// in-memory repositories by leaving DATABASE_URL empty in a dev env.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	OCR    ocr.Client

	DocumentsRepo  documents.DocumentsRepo
	QuizzesRepo    quizzes.QuizzesRepo
	FlashcardsRepo flashcards.FlashcardsRepo
	SummariesRepo  summaries.SummariesRepo
	UsersRepo      users.Repo

	DocumentsService  *documents.Service
	GenerationService *generation.Service
	ChatService       *chat.Service
	QuizzesService    *quizzes.Service
	FlashcardsService *flashcards.Service
	SummariesService  *summaries.Service
	UsersService      *users.Service

	DocumentsHandler  *documents.Handler
	GenerationHandler *generation.Handler
	ChatHandler       *chat.Handler
	QuizzesHandler    *quizzes.Handler
	FlashcardsHandler *flashcards.Handler
	SummariesHandler  *summaries.Handler
	UsersHandler      *users.Handler
	GoogleAuth        *googleauth.GoogleService
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ocrClient, err := buildOCR(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		OCR:    ocrClient,
	}

	if err := buildServices(app, llmClient); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Cfg:        app.Config,
		GoogleAuth: app.GoogleAuth,
		Users:      app.UsersHandler,
		Documents:  app.DocumentsHandler,
		Generation: app.GenerationHandler,
		Chat:       app.ChatHandler,
		Quizzes:    app.QuizzesHandler,
		Flashcards: app.FlashcardsHandler,
		Summaries:  app.SummariesHandler,
	})

	return app, nil
}

// Close releases external clients. Safe on a partially built App.
func (a *App) Close() error {
	var firstErr error
	if a.OCR != nil {
		if err := a.OCR.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildOCR(ctx context.Context, cfg config.Config) (ocr.Client, error) {
	switch cfg.OCRProvider {
	case "vision":
		client, err := ocr.NewGoogleVision(ctx, cfg.OCRTimeout)
		if err != nil {
			if isDevLike(cfg.Env) {
				log.Printf("bootstrap: vision client init failed; OCR disabled: %v", err)
				return ocr.Disabled{}, nil
			}
			return nil, err
		}
		return client, nil
	default:
		return ocr.Disabled{}, nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: LLM_API_KEY empty; generation requests will fail upstream auth")
			return llm.PlaceholderClient{}, nil
		}
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}
	return openrouter.NewClient(cfg.LLMAPIKey, openrouter.Options{
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
		AppURL:  cfg.AppURL,
		Timeout: cfg.LLMTimeout,
	})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App, llmClient llm.Client) error {
	var docRepo documents.DocumentsRepo
	var quizRepo quizzes.QuizzesRepo
	var cardRepo flashcards.FlashcardsRepo
	var summaryRepo summaries.SummariesRepo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		quizRepo = &quizzes.PGRepo{DB: app.DB}
		cardRepo = &flashcards.PGRepo{DB: app.DB}
		summaryRepo = &summaries.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		quizRepo = quizzes.NewMemoryRepo()
		cardRepo = flashcards.NewMemoryRepo()
		summaryRepo = summaries.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	quizSvc := &quizzes.Service{Repo: quizRepo}
	cardSvc := &flashcards.Service{Repo: cardRepo}
	summarySvc := &summaries.Service{Repo: summaryRepo}

	docSvc := &documents.Service{
		Repo:            docRepo,
		Store:           app.Store,
		StorageProvider: app.Config.ObjectStoreType,
		Purgers: []documents.ArtifactPurger{
			quizSvc,
			cardSvc,
			summarySvc,
		},
	}

	genSvc := &generation.Service{
		Docs:       docSvc,
		Extractor:  extract.NewExtractor(app.OCR),
		LLM:        llmClient,
		Quizzes:    quizStoreAdapter{svc: quizSvc},
		Flashcards: flashcardStoreAdapter{svc: cardSvc},
		Summaries:  summarySvc,
	}

	chatSvc := chat.NewService(llmClient)

	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.DocumentsRepo = docRepo
	app.QuizzesRepo = quizRepo
	app.FlashcardsRepo = cardRepo
	app.SummariesRepo = summaryRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.GenerationService = genSvc
	app.ChatService = chatSvc
	app.QuizzesService = quizSvc
	app.FlashcardsService = cardSvc
	app.SummariesService = summarySvc
	app.UsersService = userSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.GenerationHandler = generation.NewHandler(genSvc)
	app.ChatHandler = chat.NewHandler(chatSvc)
	app.QuizzesHandler = quizzes.NewHandler(quizSvc)
	app.FlashcardsHandler = flashcards.NewHandler(cardSvc)
	app.SummariesHandler = summaries.NewHandler(summarySvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc

	if app.DocumentsHandler == nil || app.GenerationHandler == nil {
		return errors.New("failed to initialize handlers")
	}

	return nil
}

// quizStoreAdapter bridges generation output to the quizzes service without
// a cross-feature import in either direction.
type quizStoreAdapter struct {
	svc *quizzes.Service
}

func (a quizStoreAdapter) CreateGenerated(ctx context.Context, userID, fileID, title string, difficulty string, questions []generation.Question) (string, error) {
	converted := make([]quizzes.GeneratedQuestion, 0, len(questions))
	for _, q := range questions {
		converted = append(converted, quizzes.GeneratedQuestion{
			Text:          q.Text,
			Choices:       append([]string(nil), q.Choices...),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return a.svc.CreateGenerated(ctx, userID, fileID, title, difficulty, converted)
}

type flashcardStoreAdapter struct {
	svc *flashcards.Service
}

func (a flashcardStoreAdapter) CreateBatch(ctx context.Context, userID, fileID string, cards []generation.Flashcard) (string, error) {
	converted := make([]flashcards.Card, 0, len(cards))
	for _, card := range cards {
		converted = append(converted, flashcards.Card{
			Question: card.Question,
			Answer:   card.Answer,
		})
	}
	return a.svc.CreateBatch(ctx, userID, fileID, converted)
}

var (
	_ generation.QuizStore      = quizStoreAdapter{}
	_ generation.FlashcardStore = flashcardStoreAdapter{}
	_ generation.SummaryStore   = (*summaries.Service)(nil)
	_ generation.DocumentGetter = (*documents.Service)(nil)
)
