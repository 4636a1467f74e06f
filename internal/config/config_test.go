package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment.Name)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "de", cfg.Telephony.DefaultLanguage)
	assert.Equal(t, "fr", cfg.Telephony.AreaCodeLanguages["+4122"])
	assert.Equal(t, "fr", cfg.Telephony.AreaCodeLanguages["+4121"])
	assert.Equal(t, "it", cfg.Telephony.AreaCodeLanguages["+4191"])
	assert.Equal(t, 5*time.Minute, cfg.Cache.MenuTTL)
	assert.False(t, cfg.EnforceTwilioSignature())
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("TWILIO_AUTH_TOKEN", "token")
	t.Setenv("TELEPHONY_AREA_CODE_LANGUAGES", "+4131:de,+4122:fr")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.EnforceTwilioSignature())
	assert.Equal(t, "whsec_test", cfg.Stripe.WebhookSecret)
	assert.Equal(t, "token", cfg.Twilio.AuthToken)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, map[string]string{"+4131": "de", "+4122": "fr"}, cfg.Telephony.AreaCodeLanguages)
}

func TestVerifySignatureOutsideProduction(t *testing.T) {
	t.Setenv("TWILIO_VERIFY_SIGNATURE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.EnforceTwilioSignature())
}
