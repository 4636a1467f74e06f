package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"restaurant-webhooks/internal/dto"
	"restaurant-webhooks/internal/event"
	"restaurant-webhooks/internal/metrics"
	"restaurant-webhooks/internal/model"
	"restaurant-webhooks/internal/service"
	"restaurant-webhooks/internal/verify"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const stripeSignatureHeader = "Stripe-Signature"

type StripeHandler struct {
	verifier       *verify.StripeVerifier
	paymentService service.PaymentService
}

func NewStripeHandler(verifier *verify.StripeVerifier, paymentService service.PaymentService) *StripeHandler {
	return &StripeHandler{
		verifier:       verifier,
		paymentService: paymentService,
	}
}

// Webhook verifies the raw body before anything is parsed or stored.
func (h *StripeHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return stripeError(c, "unknown", http.StatusBadRequest, "unreadable body")
	}

	ev, err := h.verifier.Verify(body, c.Request().Header.Get(stripeSignatureHeader))
	if err != nil {
		if errors.Is(err, verify.ErrNotConfigured) {
			log.Error().Msg("stripe webhook secret missing, rejecting webhook")
			return stripeError(c, "unverified", http.StatusServiceUnavailable, "signature verification unavailable")
		}
		log.Warn().Err(err).Msg("stripe signature rejected")
		return stripeError(c, "unverified", http.StatusBadRequest, "invalid signature")
	}
	if ev.ID == "" {
		return stripeError(c, string(ev.Type), http.StatusBadRequest, "missing event id")
	}

	rec := service.StripeRecord(ev, body)
	var outcome service.Outcome
	decoded, err := event.DecodeStripe(ev)
	if err != nil {
		outcome, err = h.paymentService.Reject(ctx, rec, fmt.Errorf("%w: %w", service.ErrPermanent, err))
	} else {
		outcome, err = h.paymentService.HandleEvent(ctx, rec, decoded)
	}
	metrics.WebhookDuration.WithLabelValues(model.ProviderStripe, string(ev.Type)).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Error().Err(err).Str("event_id", ev.ID).Str("type", string(ev.Type)).Msg("process stripe event")
		return stripeError(c, string(ev.Type), http.StatusInternalServerError, "processing failed")
	}

	metrics.WebhookRequestsTotal.WithLabelValues(model.ProviderStripe, string(ev.Type), strconv.Itoa(http.StatusOK)).Inc()
	return c.JSON(http.StatusOK, dto.WebhookAck{Received: true, Status: string(outcome)})
}

func stripeError(c echo.Context, eventType string, status int, msg string) error {
	metrics.WebhookRequestsTotal.WithLabelValues(model.ProviderStripe, eventType, strconv.Itoa(status)).Inc()
	return c.JSON(status, dto.ErrorResponse{Error: msg})
}
