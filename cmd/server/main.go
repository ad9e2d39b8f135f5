package main

import (
	"alcyxob/sportlink/internal/ai"
	"alcyxob/sportlink/internal/api"
	"alcyxob/sportlink/internal/config"
	"alcyxob/sportlink/internal/logging"
	"alcyxob/sportlink/internal/realtime"
	"alcyxob/sportlink/internal/repository/mongo"
	"alcyxob/sportlink/internal/service"
	"alcyxob/sportlink/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title SportLink API
// @version 1.0
// @description Players log workouts, coaches manage rosters, everyone gets AI feedback.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logging.Must("info", logging.FormatJSON).Fatal("could not load config", zap.Error(err))
	}
	logger := logging.Must(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}
	logger.Info("starting SportLink server", zap.String("address", cfg.Server.Address))

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		for coll, err := range mongo.EnsureIndexes(ctx, appDB) {
			logger.Warn("index creation failed", zap.String("collection", coll), zap.Error(err))
		}
		logger.Info("index creation finished")
	}()

	// --- Realtime broker ---
	var broker realtime.Broker
	if cfg.Redis.Addr != "" {
		broker = realtime.NewRedisBroker(realtime.NewRedisClient(cfg.Redis), cfg.Redis.ChannelPrefix, logger)
		logger.Info("using redis broker", zap.String("addr", cfg.Redis.Addr))
	} else {
		broker = realtime.NewMemoryBroker()
		logger.Info("using in-process broker")
	}
	defer func() { _ = broker.Close() }()

	// --- Initialize Storage ---
	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	fileStorage, err := storage.NewS3Storage(initCtx, cfg.S3, logger)
	if err != nil {
		cancelInit()
		logger.Fatal("failed to initialize S3 storage", zap.Error(err))
	}

	// --- AI ---
	var generator ai.Generator = ai.DisabledGenerator{}
	if cfg.AI.APIKey != "" {
		gen, err := ai.NewGenAIGenerator(initCtx, cfg.AI, logger)
		if err != nil {
			cancelInit()
			logger.Fatal("failed to initialize AI client", zap.Error(err))
		}
		generator = gen
	} else {
		logger.Warn("ai.api_key is not set; AI endpoints will answer 503")
	}
	cancelInit()
	flows, err := ai.NewFlows(generator, nil, cfg.AI.Temperature)
	if err != nil {
		logger.Fatal("failed to load AI prompts", zap.Error(err))
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	uploadRepo := mongo.NewMongoUploadRepository(appDB)
	inviteRepo := mongo.NewMongoInviteRepository(appDB)
	convRepo := mongo.NewMongoConversationRepository(appDB)
	postRepo := mongo.NewMongoPostRepository(appDB)
	physiqueRepo := mongo.NewMongoPhysiqueRepository(appDB)
	insightRepo := mongo.NewMongoInsightRepository(appDB)
	tx := mongo.NewTxRunner(dbClient)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration, logger)
	profileService := service.NewProfileService(userRepo, uploadRepo, fileStorage, logger)
	coachService := service.NewCoachService(userRepo, inviteRepo, workoutRepo, tx, broker, logger)
	workoutService := service.NewWorkoutService(userRepo, workoutRepo, uploadRepo, fileStorage, flows, logger)
	insightService := service.NewInsightService(userRepo, workoutRepo, physiqueRepo, insightRepo, flows, logger)
	physiqueService := service.NewPhysiqueService(userRepo, physiqueRepo, uploadRepo, fileStorage, flows, logger)
	messagingService := service.NewMessagingService(userRepo, convRepo, broker, logger)
	feedService := service.NewFeedService(userRepo, postRepo, uploadRepo, fileStorage, broker, logger)

	hub := realtime.NewHub(broker, messagingService.IsParticipant, logger)

	// --- Initialize Gin Engine ---
	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logging.GinRecovery(logger), logging.GinLogger(logger))

	api.SetupRoutes(router, authService, api.Handlers{
		Auth:      api.NewAuthHandler(authService),
		Profile:   api.NewProfileHandler(profileService),
		Coach:     api.NewCoachHandler(coachService, insightService),
		Workout:   api.NewWorkoutHandler(workoutService),
		AI:        api.NewAIHandler(insightService),
		Physique:  api.NewPhysiqueHandler(physiqueService),
		Messaging: api.NewMessagingHandler(messagingService),
		Feed:      api.NewFeedHandler(feedService),
		WS:        api.NewWSHandler(hub, logger),
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	// Hijacked websocket connections are not tracked by Shutdown.
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exiting")
}
