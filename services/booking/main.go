package main

import (
	"context"
	"embed"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/appetiteclub/backoffice/pkg"
	"github.com/appetiteclub/backoffice/services/booking/internal/booking"
	"github.com/appetiteclub/backoffice/services/booking/internal/mongo"
)

//go:embed seed.json
var seedFS embed.FS

const (
	appNamespace = "BOOKING"
	appName      = "booking"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup with error: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	lifecycle := []interface{}{}

	reservationRepo := mongo.NewReservationRepo(config, logger)
	err = reservationRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start reservation repository: %v", appName, appVersion, err)
	}

	db := reservationRepo.GetDatabase()
	if db == nil {
		err := errors.New("cannot get reservation repo database")
		log.Fatalf("%s(%s) cannot initialize database: %v", appName, appVersion, err)
	}

	tableRepo := mongo.NewTableRepo(db)
	if err := tableRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("%s(%s) cannot ensure table indexes: %v", appName, appVersion, err)
	}

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	publisher, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	}
	lifecycle = append(lifecycle, publisherLifecycle)

	repos := booking.Repos{
		ReservationRepo: reservationRepo,
		TableRepo:       tableRepo,
	}

	hd := booking.HandlerDeps{
		Repos:     repos,
		Publisher: publisher,
	}

	handler := booking.NewHandler(
		hd,
		config,
		logger,
	)

	seedHooks := apt.LifecycleHooks{
		OnStart: booking.SeedingFunc(seedCtx, tableRepo, seedFS, logger),
		OnStop:  booking.StopFunc(cancelSeeds),
	}
	lifecycle = append(lifecycle, seedHooks)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})
	stack = append(stack, middleware.InternalOnly())

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycle...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		_ = reservationRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
