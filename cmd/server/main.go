package main

import (
	"log"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/qs-lzh/concert-booking/config"
	"github.com/qs-lzh/concert-booking/internal/app"
	"github.com/qs-lzh/concert-booking/internal/cache"
	"github.com/qs-lzh/concert-booking/internal/handler"
	"github.com/qs-lzh/concert-booking/internal/mq"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	redisCache, err := cache.NewRedisCache(cfg.CacheURL, logger)
	if err != nil {
		logger.Fatal("failed to connect to cache", zap.Error(err))
	}

	// the broker is optional, bookings work without event publication
	var mqConn *amqp.Connection
	if cfg.MQURL != "" {
		mqConn, err = mq.NewMQConn(cfg.MQURL)
		if err != nil {
			logger.Warn("mq unavailable, booking events disabled", zap.Error(err))
			mqConn = nil
		}
	}

	application := app.New(cfg, db, redisCache, logger, mqConn)
	if err := application.Init(); err != nil {
		logger.Fatal("failed to init app", zap.Error(err))
	}
	defer application.Close()

	r := gin.Default()
	handler.RegisterRoutes(r, application)

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
