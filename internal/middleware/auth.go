package middleware

import (
	"errors"
	"net/http"
	"strings"

	"restaurant-webhooks/internal/metrics"
	"restaurant-webhooks/internal/model"
	"restaurant-webhooks/internal/verify"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const twilioSignatureHeader = "X-Twilio-Signature"

// TwilioSignature rejects callbacks whose X-Twilio-Signature does not match
// the public URL and POST form. baseURL is the externally visible origin;
// when empty the request's own scheme and host are used.
func TwilioSignature(verifier *verify.TwilioVerifier, baseURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !verifier.Enforced() {
				return next(c)
			}

			req := c.Request()
			if err := req.ParseForm(); err != nil {
				return c.String(http.StatusBadRequest, "invalid form body")
			}

			fullURL := PublicURL(c, baseURL)
			err := verifier.Verify(fullURL, req.PostForm, req.Header.Get(twilioSignatureHeader))
			switch {
			case err == nil:
				return next(c)
			case errors.Is(err, verify.ErrNotConfigured):
				log.Error().Str("path", req.URL.Path).Msg("twilio auth token missing while signature enforcement is on")
				metrics.WebhookRequestsTotal.WithLabelValues(model.ProviderTwilio, "unverified", "503").Inc()
				return c.String(http.StatusServiceUnavailable, "signature verification unavailable")
			default:
				log.Warn().Err(err).Str("path", req.URL.Path).Str("url", fullURL).Msg("twilio signature rejected")
				metrics.WebhookRequestsTotal.WithLabelValues(model.ProviderTwilio, "unverified", "403").Inc()
				return c.String(http.StatusForbidden, "invalid signature")
			}
		}
	}
}

func PublicURL(c echo.Context, baseURL string) string {
	req := c.Request()
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/") + req.RequestURI
	}
	return c.Scheme() + "://" + req.Host + req.RequestURI
}
