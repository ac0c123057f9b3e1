package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studybuddy/config"
	"studybuddy/cron"
	"studybuddy/database"
	"studybuddy/database/repository"
	"studybuddy/handlers"
	"studybuddy/routes"
	"studybuddy/services/booking"
	"studybuddy/services/tutor"
	"studybuddy/services/user"
	"studybuddy/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	utils.InitMetrics(config.AppConfig.MetricsPrefix)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// storage.
	var (
		mongoClient *mongo.Client
		repos       *repository.Repositories
		err         error
	)
	switch config.AppConfig.DBDriver {
	case repository.DriverMongo:
		if err := database.InitDB(); err != nil {
			logger.Fatal("main: database init failed", zap.Error(err))
		}
		mongoClient = database.MongoClient
		repos, err = repository.Open(repository.DriverMongo, database.DB())
	default:
		repos, err = repository.Open(config.AppConfig.DBDriver, nil)
	}
	if err != nil {
		logger.Fatal("main: repositories unavailable", zap.Error(err))
	}
	logger.Info("Storage ready", zap.String("driver", config.AppConfig.DBDriver))

	// cache.
	var redisClients []*redis.Client
	var listingCache utils.Cache
	if config.AppConfig.CacheEnabled {
		if err := utils.InitCache(); err != nil {
			logger.Warn("main: redis cache unavailable, serving tutors uncached", zap.Error(err))
		} else {
			listingCache = utils.NewRedisCache(utils.GetCacheClient())
			redisClients = append(redisClients, utils.GetCacheClient())
		}
	}

	// services.
	loc := config.Location()
	tutorService := &tutor.DefaultTutorService{
		Repo:     repos.Tutors,
		Cache:    listingCache,
		CacheTTL: time.Duration(config.AppConfig.TutorCacheTTLSeconds) * time.Second,
		Location: loc,
	}
	bookingService := &booking.DefaultBookingService{
		Scheduler: repos.Scheduler,
		Tutors:    repos.Tutors,
		Listings:  tutorService,
		Location:  loc,
	}
	userService := &user.DefaultUserService{
		Repo:     repos.Users,
		TokenTTL: config.TokenTTL(),
	}

	// background jobs.
	var (
		queueClient *asynq.Client
		worker      *asynq.Server
	)
	if config.AppConfig.CompletionPolicy == "time" {
		queueClient = asynq.NewClient(cron.QueueRedisOpt())
		bookingService.Completion = booking.NewAsynqCompletionScheduler(queueClient, config.SessionLength())
		worker = cron.InitCompletionWorker(rootCtx, bookingService)
		logger.Info("Bookings complete automatically", zap.Duration("sessionLength", config.SessionLength()))
	}
	cron.StartSlotPruner(rootCtx, tutorService, time.Duration(config.AppConfig.PruneIntervalMinutes)*time.Minute)
	utils.StartHealthMonitor(rootCtx, redisClients, mongoClient)

	// handlers and routes.
	requireAuth := config.AppConfig.RequireAuth
	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewUserHandler(userService),
		handlers.NewTutorHandler(tutorService, requireAuth),
		handlers.NewBookingHandler(bookingService, requireAuth),
		requireAuth,
	)
	router := routes.NewRouter(handlerBundle, config.AppConfig.MaxRequestsPerMin)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "5000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		if err := queueClient.Close(); err != nil {
			logger.Warn("main: closing queue client", zap.Error(err))
		}
	}
	if client := utils.GetCacheClient(); client != nil {
		_ = client.Close()
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: closing database", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
