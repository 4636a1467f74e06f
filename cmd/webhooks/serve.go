package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"restaurant-webhooks/internal/cache"
	"restaurant-webhooks/internal/client"
	"restaurant-webhooks/internal/config"
	"restaurant-webhooks/internal/email"
	"restaurant-webhooks/internal/extract"
	"restaurant-webhooks/internal/lang"
	"restaurant-webhooks/internal/notify"
	"restaurant-webhooks/internal/repository"
	"restaurant-webhooks/internal/server"
	"restaurant-webhooks/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig("webhooks")
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the database schema before serving")
	return cmd
}

func serve(parent context.Context, cfg *config.Config, migrate bool) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := client.InitDatabase(cfg.Database)
	if err != nil {
		return err
	}
	if migrate {
		if err := client.Migrate(db); err != nil {
			return err
		}
	}

	menuCache, closeCache := newMenuCache(ctx, cfg.Cache)
	defer closeCache()

	defaultLanguage, ok := lang.Parse(cfg.Telephony.DefaultLanguage)
	if !ok {
		log.Warn().Str("language", cfg.Telephony.DefaultLanguage).Msg("unsupported default language, using German")
		defaultLanguage = lang.German
	}

	if cfg.Stripe.WebhookSecret == "" {
		log.Warn().Msg("STRIPE_WEBHOOK_SECRET not set, stripe webhooks will be refused")
	}
	if cfg.EnforceTwilioSignature() && cfg.Twilio.AuthToken == "" {
		log.Warn().Msg("twilio signature enforcement on but TWILIO_AUTH_TOKEN not set, twilio webhooks will be refused")
	}

	webhookEventRepo := repository.NewWebhookEventRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	menuRepo := repository.NewCachedMenuRepository(repository.NewMenuRepository(db), menuCache, cfg.Cache.MenuTTL)

	twilioClient := client.NewTwilioClient(&cfg.Twilio)
	mailer := notify.NewMailer(email.NewSender(cfg.Email.PostmarkToken), cfg.Email.From, defaultLanguage)
	dispatcher := notify.NewDispatcher(twilioClient, cfg.Twilio.WhatsAppContentSID)

	ledger := service.NewEventLedger(db, webhookEventRepo, cfg.Environment.Name)

	paymentService := service.NewPaymentService(
		ledger,
		orderRepo,
		repository.NewPaymentRepository(db),
		repository.NewSubscriptionRepository(db),
		repository.NewInvoiceRepository(db),
		tenantRepo,
		customerRepo,
		mailer,
	)

	detector := lang.NewDetector(service.CustomerLanguages(customerRepo), cfg.Telephony.AreaCodeLanguages, defaultLanguage)
	telephonyService := service.NewTelephonyService(
		ledger,
		tenantRepo,
		menuRepo,
		orderRepo,
		customerRepo,
		detector,
		extract.NewKeywordClassifier(),
		dispatcher,
		cfg.BaseURL,
	)

	srv := server.NewServer(cfg, paymentService, telephonyService)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("address", cfg.Address()).Str("environment", cfg.Environment.Name).Msg("starting HTTP server")
		if err := srv.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newMenuCache prefers redis and falls back to process memory when no
// address is configured or redis is unreachable.
func newMenuCache(ctx context.Context, cfg config.Cache) (cache.Cache, func()) {
	rdb, err := client.InitRedisClient(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unavailable, caching menus in memory")
		return cache.NewMemory(), func() {}
	}
	if rdb == nil {
		return cache.NewMemory(), func() {}
	}

	log.Info().Str("addr", cfg.Addr).Msg("caching menus in redis")
	return cache.NewRedisCache(rdb), func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis client")
		}
	}
}
