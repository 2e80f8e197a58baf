package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ednsy/leadrosetta/internal/entity"
	"github.com/ednsy/leadrosetta/internal/infra/cache"
	"github.com/ednsy/leadrosetta/internal/infra/database"
	"github.com/ednsy/leadrosetta/internal/infra/http/handlers"
	"github.com/ednsy/leadrosetta/internal/infra/http/middleware"
	"github.com/ednsy/leadrosetta/internal/infra/integration/gohighlevel"
	"github.com/ednsy/leadrosetta/internal/infra/integration/hubspot"
	"github.com/ednsy/leadrosetta/internal/infra/integration/notion"
	"github.com/ednsy/leadrosetta/internal/infra/integration/pipedrive"
	"github.com/ednsy/leadrosetta/internal/infra/mail"
	"github.com/ednsy/leadrosetta/internal/infra/queue"
	"github.com/ednsy/leadrosetta/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalf("❌ database: %v", err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("RABBITMQ_USER", "guest"),
		envOr("RABBITMQ_PASS", "guest"),
		envOr("RABBITMQ_HOST", "localhost"),
		envOr("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		log.Fatalf("❌ rabbitmq: %v", err)
	}
	defer rabbitMQ.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer redisClient.Close()

	// Repositories
	prospectRepo := database.NewProspectRepository(db)
	funnelRepo := database.NewFunnelRepository(db)
	credentialRepo := database.NewCredentialRepository(db)
	planRepo := database.NewPlanRepository(db)

	// CRM adapters
	adapters := map[entity.Provider]usecase.CRMAdapter{
		entity.ProviderHubSpot:     hubspot.NewClient(),
		entity.ProviderGoHighLevel: gohighlevel.NewClient(),
		entity.ProviderPipedrive:   pipedrive.NewClient(),
		entity.ProviderNotion:      notion.NewClient(),
	}
	refreshers := map[entity.Provider]usecase.OAuthRefresher{
		entity.ProviderGoHighLevel: gohighlevel.NewOAuth(
			os.Getenv("GHL_CLIENT_ID"),
			os.Getenv("GHL_CLIENT_SECRET"),
		),
	}
	appDefaults := map[entity.Provider]string{}
	if token := os.Getenv("NOTION_DEFAULT_CREDENTIAL"); token != "" {
		appDefaults[entity.ProviderNotion] = token
	}

	// Queue producer and mail worker
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"),
		envOrInt("MAIL_PORT", 587),
		os.Getenv("MAIL_USER"),
		os.Getenv("MAIL_PASS"),
		envOr("MAIL_FROM", "no-reply@leadrosetta.com"),
	)
	worker := queue.NewWorker(rabbitMQ.Ch, mailSender)
	go worker.Start(queue.QueueName)

	// Use cases
	tokens := usecase.NewTokenManager(credentialRepo, refreshers, appDefaults)
	quota := usecase.NewQuotaGate(funnelRepo, planRepo)
	freeGate := usecase.NewFreeDemoGate(cache.NewFreeDemoCounter(redisClient))

	syncUC := usecase.NewSyncProviderUseCase(prospectRepo, tokens, adapters)
	manualUC := usecase.NewCreateManualProspectUseCase(prospectRepo)
	createDemoUC := usecase.NewCreateDemoUseCase(prospectRepo, funnelRepo, quota)
	approveUC := usecase.NewApproveDemoUseCase(funnelRepo)
	sendUC := usecase.NewSendDemoUseCase(funnelRepo, prospectRepo, producer)
	trackUC := usecase.NewTrackEngagementUseCase(funnelRepo)

	// Handlers
	prospectHandler := handlers.NewProspectHandler(syncUC, manualUC, prospectRepo)
	demoHandler := handlers.NewDemoHandler(createDemoUC, approveUC, sendUC, trackUC, freeGate)
	trackHandler := handlers.NewTrackHandler(trackUC)
	connectionHandler := handlers.NewConnectionHandler(tokens)
	webhookHandler := handlers.NewWebhookHandler(planRepo, os.Getenv("BILLING_WEBHOOK_SECRET"))
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, redisClient)

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{envOr("FRONTEND_ORIGIN", "http://localhost:5173"), "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
	}))
	r.Use(middleware.Metrics)

	r.Post("/sync/{provider}", prospectHandler.Sync)
	r.Get("/prospects", prospectHandler.List)
	r.Post("/prospects", prospectHandler.Create)

	r.Post("/demos", demoHandler.Create)
	r.Post("/demos/batch", demoHandler.CreateBatch)
	r.Get("/demos", demoHandler.List)
	r.Get("/demos/{prospectId}", demoHandler.Get)
	r.Post("/demos/{prospectId}/approve", demoHandler.ApproveDemo)
	r.Post("/demos/{prospectId}/send", demoHandler.SendDemo)
	r.Post("/demos/{prospectId}/replied", demoHandler.MarkReplied)

	r.Get("/connections", connectionHandler.List)
	r.Post("/connections/{provider}", connectionHandler.Connect)
	r.Delete("/connections/{provider}", connectionHandler.Disconnect)

	// Public, unauthenticated
	r.Get("/api/demo/open", trackHandler.Open)
	r.Get("/api/demo/click", trackHandler.Click)
	r.Post("/api/demo/track", trackHandler.Event)
	r.Post("/api/free-demo", demoHandler.TakeFreeDemo)

	r.Post("/webhook/billing", webhookHandler.Handle)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":" + envOr("PORT", "8080")
	log.Printf("🔥 Lead Rosetta engine listening on %s", port)
	if err := http.ListenAndServe(port, r); err != nil {
		log.Fatalf("❌ server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
