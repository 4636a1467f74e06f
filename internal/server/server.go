package server

import (
	"context"
	"net/http"

	"restaurant-webhooks/internal/config"
	"restaurant-webhooks/internal/handler"
	"restaurant-webhooks/internal/ivr"
	"restaurant-webhooks/internal/lang"
	webhookmw "restaurant-webhooks/internal/middleware"
	"restaurant-webhooks/internal/service"
	"restaurant-webhooks/internal/verify"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const stripeBodyLimit = "1M"

type Server struct {
	echo           *echo.Echo
	cfg            *config.Config
	stripeHandler  *handler.StripeHandler
	twilioHandler  *handler.TwilioHandler
	healthHandler  *handler.HealthHandler
	twilioVerifier *verify.TwilioVerifier
}

type formValidator struct {
	validate *validator.Validate
}

func (v *formValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(cfg *config.Config, paymentService service.PaymentService, telephonyService service.TelephonyService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &formValidator{validate: validator.New()}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.Info()
			if v.Error != nil {
				entry = log.Error().Err(v.Error)
			}
			entry.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())

	defaultLanguage, ok := lang.Parse(cfg.Telephony.DefaultLanguage)
	if !ok {
		defaultLanguage = lang.German
	}

	s := &Server{
		echo:           e,
		cfg:            cfg,
		stripeHandler:  handler.NewStripeHandler(verify.NewStripeVerifier(cfg.Stripe.WebhookSecret), paymentService),
		twilioHandler:  handler.NewTwilioHandler(telephonyService, defaultLanguage),
		healthHandler:  handler.NewHealthHandler(),
		twilioVerifier: verify.NewTwilioVerifier(cfg.Twilio.AuthToken, cfg.EnforceTwilioSignature()),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthHandler.Health)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// -------- stripe --------
	s.echo.POST("/webhooks/stripe", s.stripeHandler.Webhook, middleware.BodyLimit(stripeBodyLimit))

	// -------- twilio messages --------
	signed := webhookmw.TwilioSignature(s.twilioVerifier, s.cfg.BaseURL)
	s.echo.POST("/webhooks/twilio/sms", s.twilioHandler.SMS, signed)
	s.echo.POST("/webhooks/twilio/whatsapp", s.twilioHandler.WhatsApp, signed)

	// -------- twilio voice turns --------
	s.echo.POST(ivr.PathVoice, s.twilioHandler.Voice, signed)
	s.echo.POST(ivr.PathMenu, s.twilioHandler.VoiceMenu, signed)
	s.echo.POST(ivr.PathOrderStatus, s.twilioHandler.VoiceOrderStatus, signed)
	s.echo.POST(ivr.PathRecorded, s.twilioHandler.VoiceRecorded, signed)
	s.echo.POST(ivr.PathTranscription, s.twilioHandler.VoiceTranscription, signed)
	s.echo.POST(ivr.PathStatus, s.twilioHandler.VoiceStatus, signed)
}

func (s *Server) Start(address string) error {
	s.echo.Server.ReadTimeout = s.cfg.HTTP.ReadTimeout
	s.echo.Server.WriteTimeout = s.cfg.HTTP.WriteTimeout
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
