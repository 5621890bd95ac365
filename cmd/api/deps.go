package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"horizon/internal/domain/banklink"
	"horizon/internal/domain/dashboard"
	"horizon/internal/domain/identity"
	"horizon/internal/domain/linking"
	"horizon/internal/domain/notification"
	"horizon/internal/domain/onboarding"
	"horizon/internal/domain/payments"
	"horizon/internal/domain/transfer"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/dwolla"
	"horizon/internal/infrastructure/firebase"
	"horizon/internal/infrastructure/plaid"
	"horizon/internal/infrastructure/postgres"
	"horizon/internal/infrastructure/redis"
	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/auth"
	"horizon/internal/shared/config"
	"horizon/internal/shared/messages"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB    *postgres.DB
	Redis *redis.Client

	// Sessions
	Identity *identity.Gateway

	// Handlers
	AuthHandler         *httphandlers.AuthHandler
	UserHandler         *httphandlers.UserHandler
	BankHandler         *httphandlers.BankHandler
	AccountHandler      *httphandlers.AccountHandler
	TransferHandler     *httphandlers.TransferHandler
	NotificationHandler *httphandlers.NotificationHandler
	HealthHandler       *httphandlers.HealthHandler
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Info().Str("host", cfg.Database.Host).Msg("connected to database")

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		db.Close()
		return nil, err
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		db.Close()
		return nil, err
	}

	texts, err := messages.Load(cfg.Messages.Path)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Repositories
	identityRepo := postgres.NewIdentityRepository(db)
	userRepo := postgres.NewUserRepository(db)
	bankLinkRepo := postgres.NewBankLinkRepository(db, encryptor)
	transferRepo := postgres.NewTransferRepository(db)
	deviceRepo := postgres.NewDeviceTokenRepository(db)

	// Sessions live in Redis when it is configured so logout is seen by
	// every instance; a single instance can keep them in memory.
	var (
		sessions  identity.SessionStore
		publisher notification.Publisher
	)
	if rdb != nil {
		sessions = redis.NewSessionStore(rdb.Client)
		publisher = redis.NewPublisher(rdb.Client)
		log.Info().Msg("using redis session store")
	} else {
		sessions = identity.NewInMemorySessionStore()
		log.Warn().Msg("REDIS_URL not set, sessions are kept in memory")
	}

	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcm, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, deviceRepo.DeactivateToken)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize push notifications: %w", err)
		}
		messenger = fcm
	} else {
		log.Warn().Msg("FIREBASE_CREDENTIALS_FILE not set, push notifications disabled")
	}

	// Providers
	plaidClient := plaid.NewClient(cfg.Plaid)
	paymentsService := payments.NewService(dwolla.NewClient(cfg.Dwolla))

	// Domain services
	tokens := auth.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL)
	gateway := identity.NewGateway(identityRepo, sessions, tokens)
	userService := user.NewService(userRepo)
	bankLinkService := banklink.NewService(bankLinkRepo)
	notificationService := notification.NewService(deviceRepo, messenger, publisher, texts)
	transferService := transfer.NewService(paymentsService, bankLinkService, transferRepo, notificationService)
	linkingService := linking.NewService(plaidClient, paymentsService, bankLinkService, notificationService)
	dashboardService := dashboard.NewService(bankLinkService, plaidClient, transferService)
	onboardingService := onboarding.NewService(gateway, paymentsService, userService)

	cookie := httphandlers.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Server.IsProduction()}

	checks := map[string]httphandlers.HealthCheck{"postgres": db.PingContext}
	if rdb != nil {
		checks["redis"] = rdb.Health
	}

	return &Dependencies{
		DB:                  db,
		Redis:               rdb,
		Identity:            gateway,
		AuthHandler:         httphandlers.NewAuthHandler(onboardingService, gateway, cookie),
		UserHandler:         httphandlers.NewUserHandler(userService),
		BankHandler:         httphandlers.NewBankHandler(userService, linkingService, bankLinkService),
		AccountHandler:      httphandlers.NewAccountHandler(userService, dashboardService),
		TransferHandler:     httphandlers.NewTransferHandler(userService, transferService),
		NotificationHandler: httphandlers.NewNotificationHandler(userService, notificationService),
		HealthHandler:       httphandlers.NewHealthHandler(checks),
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close redis")
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}
