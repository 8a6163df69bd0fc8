package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/renjith-irohub/petronix-api/internal/config"
	"github.com/renjith-irohub/petronix-api/internal/domain/admin"
	"github.com/renjith-irohub/petronix-api/internal/domain/auth"
	"github.com/renjith-irohub/petronix-api/internal/domain/credit"
	"github.com/renjith-irohub/petronix-api/internal/domain/customer"
	"github.com/renjith-irohub/petronix-api/internal/domain/fueling"
	"github.com/renjith-irohub/petronix-api/internal/domain/notification"
	"github.com/renjith-irohub/petronix-api/internal/domain/pump"
	"github.com/renjith-irohub/petronix-api/internal/domain/user"
	"github.com/renjith-irohub/petronix-api/internal/middleware"
	"github.com/renjith-irohub/petronix-api/internal/pkg/database"
	"github.com/renjith-irohub/petronix-api/internal/pkg/email"
	"github.com/renjith-irohub/petronix-api/internal/pkg/jwt"
	"github.com/renjith-irohub/petronix-api/internal/pkg/logger"
	"github.com/renjith-irohub/petronix-api/internal/pkg/money"
	"github.com/renjith-irohub/petronix-api/internal/pkg/stripe"
)

const overdueSweepInterval = time.Hour

func main() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Petronix API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTTTL)

	stripeClient := stripe.NewClient(stripe.Config{
		SecretKey: cfg.StripeSecretKey,
		BaseURL:   cfg.StripeBaseURL,
	})

	emailClient := email.NewSendGridClient(email.Config{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	})

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	customerRepo := customer.NewRepository(db)
	creditRepo := credit.NewRepository(db)
	fuelingRepo := fueling.NewRepository(db)
	pumpRepo := pump.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// ---------- Services ----------
	notificationService := notification.NewService(notificationRepo, redisClient)
	notifier := &platformNotifier{notifications: notificationService}

	authService := auth.NewService(userRepo, jwtService)
	customerService := customer.NewService(customerRepo, userRepo)
	creditService := credit.NewService(creditRepo, customerRepo, notifier, stripeClient)
	fuelingService := fueling.NewService(fuelingRepo, userRepo, customerRepo, pumpRepo)
	pumpService := pump.NewService(pumpRepo, userRepo, notifier, stripeClient)
	adminService := admin.NewService(adminRepo, emailClient, notifier)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	customerHandler := customer.NewHandler(customerService)
	creditHandler := credit.NewHandler(creditService)
	fuelingHandler := fueling.NewHandler(fuelingService)
	pumpHandler := pump.NewHandler(pumpService)
	notificationHandler := notification.NewHandler(notificationService)
	adminHandler := admin.NewHandler(adminService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Mount("/auth", authHandler.Routes())
	r.Mount("/customer", customerHandler.Routes(authMiddleware))
	r.Mount("/customer-credit-transaction", credit.Routes(creditHandler, authMiddleware))
	r.Mount("/transcation", fueling.Routes(fuelingHandler, authMiddleware))
	r.Mount("/pump", pump.Routes(pumpHandler, authMiddleware))
	r.Mount("/pump-owner", pump.OwnerRoutes(pumpHandler))
	r.Mount("/pump-subscription", pump.SubscriptionRoutes(pumpHandler, authMiddleware))
	r.Mount("/salesRep", pump.SalesRepRoutes(pumpHandler, authMiddleware))
	r.Mount("/notification", notification.Routes(notificationHandler, authMiddleware))
	r.Mount("/admin", admin.Routes(adminHandler, authMiddleware))

	// ---------- Background jobs ----------
	jobCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	overdueJob := credit.NewOverdueJob(creditService, cfg.SuspendAfterOverdueDays)
	go overdueJob.Start(jobCtx, overdueSweepInterval)

	// ---------- HTTP server ----------
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

// platformNotifier bridges domain events to stored notifications.
// It implements credit.Notifier, pump.Notifier and admin.Reminded.
type platformNotifier struct {
	notifications *notification.Service
}

func (p *platformNotifier) CreditApproved(ctx context.Context, customerID uuid.UUID, amount int64) {
	p.notifications.Create(ctx, customerID, "customer", notification.TypeSuccess,
		"Your credit request of Rs "+money.Format(amount)+" has been approved")
}

func (p *platformNotifier) CreditRejected(ctx context.Context, customerID uuid.UUID, amount int64, reason string) {
	p.notifications.Create(ctx, customerID, "customer", notification.TypeWarning,
		"Your credit request of Rs "+money.Format(amount)+" was rejected: "+reason)
}

func (p *platformNotifier) PaybackOverdue(ctx context.Context, customerID uuid.UUID, amount int64, daysOverdue int) {
	p.notifications.Create(ctx, customerID, "customer", notification.TypeWarning,
		"Your credit repayment of Rs "+money.Format(amount)+" is "+strconv.Itoa(daysOverdue)+" day(s) overdue")
}

func (p *platformNotifier) PumpApproved(ctx context.Context, ownerID uuid.UUID, pumpName string) {
	p.notifications.Create(ctx, ownerID, "owner", notification.TypeSuccess,
		"Your pump \""+pumpName+"\" has been approved")
}

func (p *platformNotifier) PumpRejected(ctx context.Context, ownerID uuid.UUID, pumpName, reason string) {
	p.notifications.Create(ctx, ownerID, "owner", notification.TypeWarning,
		"Your pump \""+pumpName+"\" was rejected: "+reason)
}

func (p *platformNotifier) PaymentReminderSent(ctx context.Context, customerID uuid.UUID, amount int64, daysOverdue int) {
	msg := "Payment reminder: Rs " + money.Format(amount) + " outstanding"
	if daysOverdue > 0 {
		msg += ", " + strconv.Itoa(daysOverdue) + " day(s) overdue"
	}
	p.notifications.Create(ctx, customerID, "customer", notification.TypeInfo, msg)
}
