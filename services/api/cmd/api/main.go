package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/app"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/clock"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/config"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/notify"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/payment/stripe"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/storage/postgres"
	transporthttp "github.com/StefanMarcoPfaff/skult-pwa/services/api/internal/transport/http"
	"github.com/StefanMarcoPfaff/skult-pwa/services/api/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := log.Default()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if cfg.StripeSecretKey == "" {
		logger.Printf("WARN: STRIPE_SECRET_KEY not set, checkout will fail")
	}
	if cfg.StripeWebhookSecret == "" {
		logger.Printf("WARN: STRIPE_WEBHOOK_SECRET not set, webhooks will be rejected")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to db: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	clk := clock.NewSystem()
	provider := stripe.New(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	reservationSvc := app.NewReservationService(
		postgres.NewBookingRepository(pool),
		clk,
		app.WithNotifier(notify.NewLogNotifier(logger)),
		app.WithReservationSiteURL(cfg.SiteURL),
		app.WithReservationLogger(logger),
	)
	paymentSvc := app.NewPaymentService(
		postgres.NewPaymentRepository(pool),
		provider,
		clk,
		app.WithPaymentSiteURL(cfg.SiteURL),
	)
	ticketSvc := app.NewTicketService(postgres.NewTicketRepository(pool), clk)
	catalogSvc := app.NewCatalogService(postgres.NewCatalogRepository(pool), clk)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/reservations", transporthttp.HandleReservations(reservationSvc, cfg.SiteURL))
	mux.Handle("/checkout", transporthttp.HandleCheckout(paymentSvc))
	mux.Handle("/webhooks/stripe", transporthttp.HandlePaymentWebhook(provider, paymentSvc, logger))
	mux.Handle("/bookings/by-session", transporthttp.HandleBookingBySession(paymentSvc))
	mux.Handle("/tickets/", transporthttp.HandleTickets(ticketSvc, cfg.SiteURL))
	mux.Handle("/admin/courses", transporthttp.HandleAdminCourses(catalogSvc))
	mux.Handle("/admin/courses/", transporthttp.HandleAdminCourse(catalogSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	log.Printf("api listening on :%s", cfg.Port)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server error: %v", err)
		}
	case <-stopCtx.Done():
		log.Printf("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("server shutdown error: %v", err)
	}
	log.Printf("server stopped")
}
