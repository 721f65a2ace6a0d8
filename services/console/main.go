package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/middleware"

	"github.com/appetiteclub/backoffice/pkg"
	"github.com/appetiteclub/backoffice/services/console/internal/console"
)

const (
	appNamespace = "CONSOLE"
	appName      = "console"
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

	bookingURL := config.GetStringOrDef("services.booking.url", "http://localhost:8087")
	bookingClient := apt.NewServiceClient(bookingURL)

	bookingData := console.NewBookingDataAccess(bookingClient)
	tableData := console.NewTableDataAccess(bookingClient)

	codes := console.NewTableCodeCache(tableData, logger)
	alerts := console.NewAlertCenter()

	controller := console.NewBookingListController(console.ControllerDeps{
		API:    bookingData,
		Codes:  codes,
		Alerts: alerts,
	}, logger)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")
	dial := func() (events.Subscriber, func() error, error) {
		subscriber, err := pkg.NewNATSSubscriber(natsURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return subscriber, subscriber.Close, nil
	}

	relay := console.NewNotificationRelay(dial, alerts, controller, logger)

	relayLifecycle := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			if err := relay.EnsureConnected(ctx); err != nil {
				// Advisory channel only. The console works without it.
				logger.Error("notification relay unavailable", "error", err)
			}
			if err := controller.Refresh(ctx); err != nil {
				logger.Error("initial booking refresh failed", "error", err)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return relay.Close()
		},
	}

	handler := console.NewHandler(controller, alerts, relay, config, logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: logger,
	})

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(relayLifecycle),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		log.Fatalf("%s(%s) stopped with error: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
