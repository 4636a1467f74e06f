package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-webhooks/internal/metrics"
	"restaurant-webhooks/internal/model"
	"restaurant-webhooks/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

var (
	// ErrPermanent marks an event that can never be processed; it is recorded
	// as rejected and acknowledged so the provider stops retrying.
	ErrPermanent = errors.New("permanent event failure")

	// ErrUnhandledVariant means a decoded event reached a dispatcher with no case for it.
	ErrUnhandledVariant = errors.New("unhandled event variant")
)

type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeRejected  Outcome = "rejected"
)

// Effects collects side effects during a transition. They run only after the
// transaction committed.
type Effects struct {
	fns []func(ctx context.Context)
}

func (e *Effects) Defer(fn func(ctx context.Context)) {
	e.fns = append(e.fns, fn)
}

func (e *Effects) run(ctx context.Context) {
	for _, fn := range e.fns {
		fn(ctx)
	}
}

// Transition applies one event inside the recording transaction. Every
// repository call must use tx.
type Transition func(ctx context.Context, tx *gorm.DB, effects *Effects) error

type EventLedger interface {
	// Apply records the event and runs fn in one transaction. A redelivered
	// event is reported as a duplicate and fn is not called.
	Apply(ctx context.Context, rec *model.WebhookEvent, fn Transition) (Outcome, error)
	// Record stores an event that needs no state transition.
	Record(ctx context.Context, rec *model.WebhookEvent) (Outcome, error)
	// Reject stores an event that will never be processed together with the cause.
	Reject(ctx context.Context, rec *model.WebhookEvent, cause error) (Outcome, error)
}

type eventLedgerImpl struct {
	db          *gorm.DB
	events      repository.WebhookEventRepository
	environment string
}

func NewEventLedger(db *gorm.DB, events repository.WebhookEventRepository, environment string) EventLedger {
	return &eventLedgerImpl{
		db:          db,
		events:      events,
		environment: environment,
	}
}

func (l *eventLedgerImpl) Apply(ctx context.Context, rec *model.WebhookEvent, fn Transition) (Outcome, error) {
	l.stamp(rec)
	now := time.Now().UTC()
	rec.ProcessedAt = &now

	effects := &Effects{}
	created := false
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = l.events.CreateIfNotExists(ctx, tx, rec)
		if err != nil {
			return fmt.Errorf("record webhook event: %w", err)
		}
		if !created || fn == nil {
			return nil
		}
		return fn(ctx, tx, effects)
	})
	if err != nil {
		if errors.Is(err, ErrPermanent) {
			return l.Reject(ctx, rec, err)
		}
		return "", err
	}

	if !created {
		l.duplicate(rec)
		return OutcomeDuplicate, nil
	}

	// the request context may end once the provider got its response
	effects.run(context.WithoutCancel(ctx))
	return OutcomeProcessed, nil
}

func (l *eventLedgerImpl) Record(ctx context.Context, rec *model.WebhookEvent) (Outcome, error) {
	return l.Apply(ctx, rec, nil)
}

func (l *eventLedgerImpl) Reject(ctx context.Context, rec *model.WebhookEvent, cause error) (Outcome, error) {
	l.stamp(rec)
	// clear what a rolled back insert may have assigned
	rec.ID = 0
	rec.ProcessedAt = nil
	rec.ProcessingError = cause.Error()

	created, err := l.events.CreateIfNotExists(ctx, nil, rec)
	if err != nil {
		return "", fmt.Errorf("record rejected webhook event: %w", err)
	}
	if !created {
		l.duplicate(rec)
		return OutcomeDuplicate, nil
	}

	log.Warn().
		Err(cause).
		Str("provider", rec.Provider).
		Str("event_id", rec.EventID).
		Str("type", rec.EventType).
		Msg("webhook event rejected")
	return OutcomeRejected, nil
}

func (l *eventLedgerImpl) stamp(rec *model.WebhookEvent) {
	if rec.ReceivedAt.IsZero() {
		rec.ReceivedAt = time.Now().UTC()
	}
	if rec.Environment == "" {
		rec.Environment = l.environment
	}
}

func (l *eventLedgerImpl) duplicate(rec *model.WebhookEvent) {
	metrics.WebhookDuplicatesTotal.WithLabelValues(rec.Provider).Inc()
	log.Info().
		Str("provider", rec.Provider).
		Str("event_id", rec.EventID).
		Str("type", rec.EventType).
		Msg("duplicate webhook event skipped")
}

// StripeRecord builds the audit record of a verified Stripe event.
func StripeRecord(ev stripe.Event, payload []byte) *model.WebhookEvent {
	return &model.WebhookEvent{
		Provider:   model.ProviderStripe,
		EventID:    ev.ID,
		EventType:  string(ev.Type),
		Livemode:   ev.Livemode,
		ReceivedAt: time.Now().UTC(),
		RawPayload: string(payload),
	}
}
