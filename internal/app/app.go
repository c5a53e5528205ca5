package app

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qs-lzh/concert-booking/config"
	"github.com/qs-lzh/concert-booking/internal/cache"
	"github.com/qs-lzh/concert-booking/internal/model"
	"github.com/qs-lzh/concert-booking/internal/mq"
	"github.com/qs-lzh/concert-booking/internal/repository"
	"github.com/qs-lzh/concert-booking/internal/service/domain"
	"github.com/qs-lzh/concert-booking/internal/service/workflow"
)

type App struct {
	Config *config.Config

	DB     *gorm.DB
	Cache  cache.Cache
	Logger *zap.Logger
	MQConn *amqp.Connection

	ConcertRepo     repository.ConcertRepo
	ReservationRepo repository.ReservationRepo
	HistoryRepo     repository.HistoryRepo

	ConcertService domain.ConcertService
	BookingService domain.BookingService
	HistoryService domain.HistoryService

	BookingWorkflow *workflow.BookingWorkflow
}

func New(config *config.Config, db *gorm.DB, cache cache.Cache, logger *zap.Logger, mqConn *amqp.Connection) *App {
	concertRepo := repository.NewConcertRepoGorm(db)
	reservationRepo := repository.NewReservationRepoGorm(db)
	historyRepo := repository.NewHistoryRepoGorm(db)

	concertService := domain.NewConcertService(db, concertRepo, reservationRepo, cache)
	bookingService := domain.NewBookingService(db, concertRepo, reservationRepo, historyRepo)
	historyService := domain.NewHistoryService(concertRepo, reservationRepo, historyRepo, cache)

	bookingWorkflow := workflow.NewBookingWorkflow(bookingService, cache, mqConn, logger)

	return &App{
		Config:          config,
		DB:              db,
		Cache:           cache,
		Logger:          logger,
		MQConn:          mqConn,
		ConcertRepo:     concertRepo,
		ReservationRepo: reservationRepo,
		HistoryRepo:     historyRepo,
		ConcertService:  concertService,
		BookingService:  bookingService,
		HistoryService:  historyService,
		BookingWorkflow: bookingWorkflow,
	}
}

func (app *App) Init() error {
	if err := app.DB.AutoMigrate(
		&model.Concert{},
		&model.Reservation{},
		&model.HistoryRecord{},
	); err != nil {
		return err
	}

	if app.MQConn != nil {
		if err := mq.InitQueues(app.MQConn); err != nil {
			return err
		}
	}

	return nil
}

func (app *App) Close() error {
	if err := app.Cache.Close(); err != nil {
		app.Logger.Warn("closing cache failed", zap.Error(err))
	}
	if app.MQConn != nil {
		if err := app.MQConn.Close(); err != nil {
			app.Logger.Warn("closing mq connection failed", zap.Error(err))
		}
	}
	sqlDB, err := app.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
