package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	config "github.com/maheshrc27/propertyhub-api/configs"
	"github.com/maheshrc27/propertyhub-api/internal/api/handlers"
	"github.com/maheshrc27/propertyhub-api/internal/api/middleware"
	"github.com/maheshrc27/propertyhub-api/internal/database"
	job "github.com/maheshrc27/propertyhub-api/internal/jobs"
	"github.com/maheshrc27/propertyhub-api/internal/notify"
	"github.com/maheshrc27/propertyhub-api/internal/queue"
	"github.com/maheshrc27/propertyhub-api/internal/repository"
	"github.com/maheshrc27/propertyhub-api/internal/service"
	"github.com/maheshrc27/propertyhub-api/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.LoadConfig()

	slog.SetDefault(utils.NewLogger(os.Stdout, cfg.LogFormat, cfg.LogLevel))
	if envErr != nil {
		slog.Warn("failed to load .env file", "error", envErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, cfg.PostgresURI)
	if err != nil {
		fatal("failed to connect to database", err)
	}
	defer closeDB(db)

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			fatal("failed to apply schema", err)
		}
		slog.Info("schema applied")
	}

	storage, err := service.NewStorageService(ctx, cfg.Storage)
	if err != nil {
		fatal("failed to configure object storage", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	txManager := repository.NewTxManager(db)
	listingRepo := repository.NewListingRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	historyRepo := repository.NewStatusHistoryRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	dispatcher := notify.NewDispatcher(cfg.Notifications, &http.Client{Timeout: 10 * time.Second})
	queueW := queue.NewQueue(client, dispatcher)

	var orders service.OrderCreator
	if cfg.PaymentsEnabled() {
		orders = service.NewRazorpayOrderCreator(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
	} else {
		slog.Warn("razorpay keys missing, payments are disabled")
	}

	accessService := service.NewAccessService(profileRepo, cfg.SupabaseJWTSecret)
	moderationService := service.NewModerationService(txManager, listingRepo, mediaRepo, historyRepo, storage)
	listingService := service.NewListingService(txManager, listingRepo, mediaRepo, historyRepo, storage)
	mediaService := service.NewMediaService(txManager, listingRepo, mediaRepo, moderationService, storage)
	leadService := service.NewLeadService(listingRepo, leadRepo, queueW)
	paymentService := service.NewPaymentService(orders, membershipRepo, cfg.Razorpay.KeyID, cfg.Razorpay.WebhookSecret)

	app := fiber.New(fiber.Config{
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("unhandled error", "path", c.Path(), "error", err)
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Idempotence",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(accessService)
	idempotence := middleware.Idempotence(rdb)

	listing := handlers.NewListingHandler(listingService)
	media := handlers.NewMediaHandler(mediaService)
	review := handlers.NewReviewHandler(moderationService)
	lead := handlers.NewLeadHandler(leadService, cfg.FrontendURL)
	payment := handlers.NewPaymentHandler(paymentService)

	api := app.Group("/api")
	api.Get("/health", handlers.Health(db))

	// public routes
	api.Get("/listings", middleware.RateLimiter(120, time.Minute), listing.ListPublic)
	api.Get("/listings/public/:id", listing.GetPublic)
	api.Post("/leads", middleware.RateLimiter(10, time.Minute), idempotence, lead.Submit)
	api.Post("/payments/webhook", payment.PaymentWebhook)

	admin := api.Group("/admin", authMiddleware.RequireAdmin())
	admin.Get("/me", review.Me)
	admin.Get("/review", review.Queue)
	admin.Post("/review", review.Decide)
	admin.Get("/leads", lead.List)
	admin.Get("/leads/export", lead.Export)
	admin.Get("/listings/suggest", listing.SuggestTitles)

	user := authMiddleware.RequireUser()
	api.Post("/payments/create-order", user, idempotence, payment.CreateOrder)

	listings := api.Group("/listings", user)
	listings.Post("/", listing.Submit)
	listings.Get("/mine", listing.ListMine)
	listings.Get("/:id", listing.GetMine)
	listings.Patch("/:id", listing.Resubmit)
	listings.Delete("/:id", listing.Delete)
	listings.Get("/:id/timeline", listing.Timeline)
	listings.Get("/:id/media", media.List)
	listings.Patch("/:id/media/order", media.Reorder)
	listings.Get("/:id/media/:mediaId", media.Get)
	listings.Patch("/:id/media/:mediaId", media.UpdateCaption)
	listings.Delete("/:id/media/:mediaId", media.Remove)

	// cron jobs
	reconcileJob := job.NewReconcileJob(listingRepo, moderationService)

	c := cron.New()
	if err := c.AddFunc(cfg.ReconcileSchedule, func() { reconcileJob.Run() }); err != nil {
		fatal("invalid reconcile schedule", err)
	}
	c.Start()
	defer c.Stop()

	server := asynq.NewServer(redisConn, asynq.Config{
		Concurrency: 10,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TaskTypeLeadNotification, queueW.HandleLeadNotificationTask)

	slog.Info("starting the asynq server")
	if err := server.Start(mux); err != nil {
		fatal("could not start asynq server", err)
	}

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			fatal("failed to start server", err)
		}
	}()
	slog.Info("server is running", "port", cfg.Port)

	gracefulShutdown(app, server)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func closeDB(db *sql.DB) {
	if err := db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
		return
	}
	slog.Info("database connection closed")
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	slog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		slog.Error("failed to shut down server", "error", err)
	}
	server.Shutdown()

	slog.Info("server shutdown complete")
}
