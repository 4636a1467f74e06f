// Package verify authenticates inbound provider callbacks before any business
// logic or database access.
package verify

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	twclient "github.com/twilio/twilio-go/client"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrMissingSignature = errors.New("missing signature")
	ErrNotConfigured    = errors.New("signature secret not configured")
)

type StripeVerifier struct {
	secret string
}

func NewStripeVerifier(secret string) *StripeVerifier {
	return &StripeVerifier{secret: secret}
}

// Verify checks the Stripe-Signature header against the exact raw body and
// returns the decoded event envelope.
func (v *StripeVerifier) Verify(payload []byte, signature string) (stripe.Event, error) {
	if v.secret == "" {
		return stripe.Event{}, ErrNotConfigured
	}
	if signature == "" {
		return stripe.Event{}, ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

type TwilioVerifier struct {
	authToken string
	enforce   bool
	validator twclient.RequestValidator
}

// NewTwilioVerifier validates X-Twilio-Signature when enforce is set.
func NewTwilioVerifier(authToken string, enforce bool) *TwilioVerifier {
	return &TwilioVerifier{
		authToken: authToken,
		enforce:   enforce,
		validator: twclient.NewRequestValidator(authToken),
	}
}

func (v *TwilioVerifier) Enforced() bool {
	return v.enforce
}

// Verify checks the signature Twilio computed over the public URL and the
// POST form parameters.
func (v *TwilioVerifier) Verify(fullURL string, form url.Values, signature string) error {
	if !v.enforce {
		return nil
	}
	if v.authToken == "" {
		return ErrNotConfigured
	}
	if signature == "" {
		return ErrMissingSignature
	}

	params := make(map[string]string, len(form))
	for key := range form {
		params[key] = form.Get(key)
	}

	if !v.validator.Validate(fullURL, params, signature) {
		return ErrInvalidSignature
	}
	return nil
}
