package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"health_chat_service/internal/chat/app"
	"health_chat_service/internal/chat/repository"
	"health_chat_service/internal/chat/router"
	"health_chat_service/pkg/config"
	"health_chat_service/pkg/database"
	"health_chat_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	logger.Log.SetDebugMode(config.IsLocal())
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	// Mongo holds the messages
	ctx := context.Background()
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.MongoSQL.User, cfg.MongoSQL.Password, cfg.MongoSQL.Host, cfg.MongoSQL.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    uri,
			RetryCount:    cfg.MongoSQL.RetryCount,
			RetryInterval: time.Duration(cfg.MongoSQL.RetryInterval),
		},
		cfg.MongoSQL.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", uri)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// Redis carries pub/sub, read markers and the roster-count cache
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// PostgreSQL holds the conversation roster
	pgConn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgConn,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect postgres err : %v", err))
	}
	defer pool.Close()

	// MinIO stages attachments before the message is appended
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      cfg.MinIO.Endpoint,
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect minio err : %v", err))
	}

	// Kafka feeds the activity stream; chat still works if it is down
	var activity repository.ActivityPublisher
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
	})
	if err != nil {
		logger.Log.Warn("kafka unavailable, activity feed disabled", zap.Error(err))
	} else {
		activity = repository.NewKafkaActivityRepository(kafkaWriter)
		defer kafkaWriter.Close()
	}

	msgRepo := repository.NewMongoMessageRepository(mongo.Database)
	participantRepo := repository.NewParticipantRepository(pool)
	readRepo := repository.NewRedisReadRepository(redisClient)
	pubsub := repository.NewRedisPubSub(redisClient)
	mediaRepo := repository.NewMinIOMediaRepository(minioClient, 0)
	countCache := database.NewRedisRepository[int](redisClient)

	emitter := app.NewUpdateEmitter()
	messageUC := app.NewMessageUseCase(msgRepo, participantRepo, readRepo, pubsub, activity, emitter, countCache)
	attachmentUC := app.NewAttachmentUseCase(mediaRepo)

	r := fiber.New(fiber.Config{
		BodyLimit:             app.MaxAttachmentSize + 1<<20,
		DisableStartupMessage: config.IsProduction(),
	})
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r,
		app.NewWSHandler(messageUC, attachmentUC, pubsub, emitter),
		app.NewRestHandler(messageUC, attachmentUC),
	)

	port := cfg.Port
	if port == "" {
		port = config.EnvConfig.ChatServicePort
	}
	port = ":" + port
	log.Printf("Chat Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
