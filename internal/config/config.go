package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

const EnvironmentProduction = "production"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"` // public URL Twilio signs against, e.g. https://hooks.example.ch

	Database  Database  `envPrefix:"DATABASE_"`
	Stripe    Stripe    `envPrefix:"STRIPE_"`
	Twilio    Twilio    `envPrefix:"TWILIO_"`
	Email     Email     `envPrefix:"EMAIL_"`
	Cache     Cache     `envPrefix:"CACHE_"`
	Telephony Telephony `envPrefix:"TELEPHONY_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host         string        `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port         string        `env:"HTTP_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"15s"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"mysql"` // mysql, sqlite
	URL    string `env:"URL"`
}

type Stripe struct {
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Twilio struct {
	AccountSID         string `env:"ACCOUNT_SID"`
	AuthToken          string `env:"AUTH_TOKEN"`
	FromNumber         string `env:"FROM_NUMBER"`
	WhatsAppFrom       string `env:"WHATSAPP_FROM"`
	WhatsAppContentSID string `env:"WHATSAPP_CONTENT_SID"` // quick-reply content template
	VerifySignature    bool   `env:"VERIFY_SIGNATURE" envDefault:"false"`
}

type Email struct {
	PostmarkToken string `env:"POSTMARK_TOKEN"`
	From          string `env:"FROM" envDefault:"orders@example.ch"`
}

type Cache struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	MenuTTL  time.Duration `env:"MENU_TTL" envDefault:"5m"`
}

type Telephony struct {
	DefaultLanguage   string            `env:"DEFAULT_LANGUAGE" envDefault:"de"`
	AreaCodeLanguages map[string]string `env:"AREA_CODE_LANGUAGES" envSeparator:"," envKeyValSeparator:":" envDefault:"+4122:fr,+4121:fr,+4124:fr,+4126:fr,+4127:fr,+4132:fr,+4191:it,+33:fr,+39:it,+49:de,+43:de,+44:en,+1:en"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment.Name == EnvironmentProduction
}

// EnforceTwilioSignature is always true in production.
func (c *Config) EnforceTwilioSignature() bool {
	return c.IsProduction() || c.Twilio.VerifySignature
}

func (c *Config) Address() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}
