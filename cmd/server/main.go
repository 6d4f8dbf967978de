package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"roomy/internal/config"
	"roomy/internal/handler"
	"roomy/internal/repository"
	"roomy/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Roomy matching service")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	roommateRubric, dormRubric, err := config.LoadRubrics(cfg.Matching.RubricFile, service.RoommateRubric(), service.DormRubric())
	if err != nil {
		log.Fatalf("Failed to load rubric overrides: %v", err)
	}
	if cfg.Matching.RubricFile != "" {
		log.Printf("✅ Rubric overrides loaded from %s", cfg.Matching.RubricFile)
	}

	sessionTTL := time.Duration(cfg.Session.TTLMinutes) * time.Minute

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
		sessionTTL,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	log.Println("✅ Connected to PostgreSQL database")

	if cfg.PostgreSQL.AutoMigrate {
		if err := repo.Migrate(context.Background()); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		log.Println("✅ Database schema is up to date")
	}

	// Session and preference stores
	var sessions service.SessionStore = repo
	var prefs service.PreferenceStore = repo
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		redisStore, err := repository.NewRedisSessionStore(context.Background(), cfg.Redis, sessionTTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisStore.Close()
		sessions = redisStore
		log.Printf("✅ Chat sessions stored in Redis at %s (TTL %s)", cfg.Redis.Addr, sessionTTL)
	case config.SessionStoreMemory:
		memStore := repository.NewMemoryStore(sessionTTL)
		sessions, prefs = memStore, memStore
		log.Println("⚠️  Chat sessions and preferences are kept in memory and lost on restart")
	default:
		log.Printf("✅ Chat sessions stored in PostgreSQL (TTL %s)", sessionTTL)
	}

	// Initialize OpenAI client
	var openaiClient *service.OpenAIClient
	if cfg.OpenAI.Enabled {
		openaiClient = service.NewOpenAIClient(&cfg.OpenAI)
		log.Printf("✅ OpenAI client initialized")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
		log.Printf("   - Chat Temperature: %.2f", cfg.OpenAI.ChatTemperature)
		log.Printf("   - Chat TopP: %.2f", cfg.OpenAI.ChatTopP)
		log.Printf("   - Chat MaxTokens: %d", cfg.OpenAI.ChatMaxTokens)
		log.Printf("   - Chat ExtraBody: %s", cfg.OpenAI.ChatExtraBody)
		log.Printf("   - Embedding model: %s (%d dims)", cfg.OpenAI.EmbeddingModel, cfg.OpenAI.EmbeddingDimensions)
	} else {
		log.Println("⚠️  OpenAI is disabled - chat replies are composed from dorm suggestions only")
		log.Println("   Set OPENAI_API_KEY environment variable to enable AI replies")
	}

	// Initialize services
	roommateRanker := service.NewRanker(roommateRubric, cfg.Matching.RoommateTopN)
	dormRanker := service.NewRanker(dormRubric, cfg.Matching.DormTopN)
	matchService := service.NewMatchService(
		repo,
		repo,
		roommateRanker,
		dormRanker,
		cfg.Matching.MaxTopN,
		cfg.Matching.PoolLimit,
	)
	chatService := service.NewChatService(sessions, prefs, repo, openaiClient, dormRanker, service.ChatOptions{
		HistoryLimit:     cfg.Session.HistoryLimit,
		MaxMessageLength: cfg.Chat.MaxMessageLength,
		CandidateLimit:   cfg.Matching.ChatCandidateLimit,
	})
	if openaiClient.IsEnabled() {
		matchService.UseEmbedder(openaiClient)
		chatService.UseEmbedder(openaiClient)
		log.Println("✅ Dorm listings ordered by description similarity")
	}

	log.Println("✅ Services initialized")

	// Initialize handlers
	auditor := handler.NewAuditor(repo)
	healthHandler := handler.NewHealthHandler(handler.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}, repo)
	matchHandler := handler.NewMatchHandler(matchService, auditor)
	chatHandler := handler.NewChatHandler(chatService, auditor)
	memoryHandler := handler.NewMemoryHandler(chatService, auditor)
	var textEmbedder handler.TextEmbedder
	if openaiClient.IsEnabled() {
		textEmbedder = openaiClient
	}
	embeddingHandler := handler.NewEmbeddingHandler(repo, textEmbedder, cfg.OpenAI.EmbeddingDimensions)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger(), handler.Recovery(auditor), handler.RequestID())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthHandler.Health)
	router.GET("/version", healthHandler.Version)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		// Ranking endpoints
		apiV1.POST("/matches/roommates", matchHandler.Roommates)
		apiV1.POST("/matches/dorms", matchHandler.Dorms)

		// Chat endpoints
		apiV1.POST("/chat", chatHandler.Chat)
		apiV1.POST("/chat/stream", chatHandler.ChatStream) // Streaming chat
		apiV1.GET("/users/:id/memory", memoryHandler.Get)
		apiV1.DELETE("/users/:id/memory", memoryHandler.Delete)

		// Embedding endpoints
		apiV1.POST("/embeddings/batch", embeddingHandler.BatchUpdate)
	}

	router.NoRoute(handler.NotFound)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Session.Store == config.SessionStorePostgres {
		go purgeSessions(ctx, repo, time.Hour)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}
	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API: http://localhost:%d/api/v1", cfg.Server.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-ctx.Done()

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: Graceful shutdown failed: %v", err)
	}
	log.Println("✅ Server stopped")
}

// purgeSessions deletes expired chat sessions until ctx is done
func purgeSessions(ctx context.Context, repo *repository.PostgresRepository, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpiredSessions(ctx)
			if err != nil {
				log.Printf("Warning: Session purge failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("🧹 Purged %d expired chat sessions", n)
			}
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
