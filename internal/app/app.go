package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vendra/escrow-svc/internal/auth"
	"github.com/vendra/escrow-svc/internal/dal/postgres"
	"github.com/vendra/escrow-svc/internal/dal/rabbitmq"
	outboxrepo "github.com/vendra/escrow-svc/internal/dal/repositories/outbox/postgres"
	userrepo "github.com/vendra/escrow-svc/internal/dal/repositories/user/postgres"
	"github.com/vendra/escrow-svc/internal/jaeger"
	"github.com/vendra/escrow-svc/internal/mailer"
	"github.com/vendra/escrow-svc/internal/service/services/companysvc"
	"github.com/vendra/escrow-svc/internal/service/services/notificationsvc"
	"github.com/vendra/escrow-svc/internal/service/services/ordersvc"
	"github.com/vendra/escrow-svc/internal/service/services/walletsvc"
	httptransport "github.com/vendra/escrow-svc/internal/transport/http"
	"github.com/vendra/escrow-svc/internal/worker/mailoutbox"
)

// App represents the application.
type App struct {
	transport      *httptransport.HTTPTransport
	mailWorker     *mailoutbox.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	tracerProvider *sdktrace.TracerProvider
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(jaeger.MustNewJaeger()),
	)
	otel.SetTracerProvider(tracerProvider)

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	outboxRepo := outboxrepo.NewOutboxRepository(postgresClient.Pool())
	outboxMailer := mailer.NewOutboxMailer(outboxRepo)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithMailer(outboxMailer),
	)
	walletSvc := walletsvc.MustNewWalletService(
		walletsvc.WithPostgresClient(postgresClient),
	)
	notificationSvc := notificationsvc.MustNewNotificationService(
		notificationsvc.WithPostgresClient(postgresClient),
	)
	companySvc := companysvc.MustNewCompanyService(
		companysvc.WithPostgresClient(postgresClient),
	)

	authMiddleware := auth.NewMiddleware(
		[]byte(os.Getenv("ESCROW_JWT_SECRET")),
		userrepo.NewPostgresUserRepository(postgresClient.Pool()),
	)

	transport := httptransport.NewHTTPTransport(
		orderSvc,
		walletSvc,
		notificationSvc,
		companySvc,
		authMiddleware,
	)
	transport.RegisterRoutes()

	mailWorker := mailoutbox.NewWorker(outboxRepo, rabbitClient)

	return &App{
		transport:      transport,
		mailWorker:     mailWorker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		tracerProvider: tracerProvider,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go func() {
		slog.Info("Starting mail outbox worker")
		a.mailWorker.Start(workerCtx)
	}()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	cancelWorker()
	a.mailWorker.Stop()
	slog.Info("Mail outbox worker stopped")

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.tracerProvider.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
