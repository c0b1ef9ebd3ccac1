package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bikereviews/internal/app/reviews/config"
	"bikereviews/internal/app/reviews/handler"
	"bikereviews/internal/app/reviews/infrastructure"
	"bikereviews/internal/app/reviews/infrastructure/imaging"
	"bikereviews/internal/app/reviews/infrastructure/messaging"
	"bikereviews/internal/app/reviews/infrastructure/realtime"
	"bikereviews/internal/app/reviews/infrastructure/storage"
	"bikereviews/internal/app/reviews/repository"
	"bikereviews/internal/app/reviews/service"
	"bikereviews/internal/app/reviews/util"
	"bikereviews/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("bike-reviews", logLevel)

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	imageStore, err := storage.NewImageStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize image storage")
	}
	logger.Info().
		Str("type", cfg.Storage.Type).
		Msg("Initialized image storage")

	// Статику раздаем только в local-варианте хранилища
	uploadsDir := ""
	if localStore, ok := imageStore.(*storage.LocalStore); ok {
		uploadsDir = localStore.BasePath()
	}

	// Kafka опциональна: без брокеров события REVIEW_CREATED не отправляются
	var kafkaProducer *messaging.KafkaProducer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer = messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaProducer.Close()
		logger.Info().
			Str("topic", cfg.Kafka.Topic).
			Msg("Initialized Kafka producer")
	}

	// Redis опционален: без него списки читаются напрямую из MongoDB
	var cache *util.RedisClient
	if cfg.Redis.Addr != "" {
		cache, err = util.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer cache.Close()
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	}

	hub := realtime.NewHub()
	go hub.Run()

	reviewRepo := repository.NewReviewRepository(db)
	normalizer := imaging.NewProcessor(imaging.DefaultQuality)

	reviewService := service.NewReviewService(
		reviewRepo,
		imageStore,
		normalizer,
		hub,
		publisherOrNil(kafkaProducer),
		cacheOrNil(cache),
	)

	reviewHandler := handler.NewReviewHandler(reviewService)
	router := handler.SetupRoutes(reviewHandler, hub, uploadsDir)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  60 * time.Second, // Загрузка до пяти изображений может быть долгой
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Bike Reviews Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Bike Reviews Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Bike Reviews Service stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err = mongo.Connect(ctx, clientOptions)
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer pingCancel()

			if err = client.Ping(pingCtx, nil); err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

// Типизированный nil в интерфейсном поле не равен nil,
// поэтому отсутствие зависимости передаем явно

func publisherOrNil(p *messaging.KafkaProducer) infrastructure.MessagePublisher {
	if p == nil {
		return nil
	}
	return p
}

func cacheOrNil(c *util.RedisClient) service.ReviewCache {
	if c == nil {
		return nil
	}
	return c
}
