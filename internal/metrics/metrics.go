package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookRequestsTotal counts inbound webhook requests by provider, event type and HTTP status.
	WebhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Subsystem: "webhooks",
		Name:      "requests_total",
		Help:      "Total webhook requests by provider, event type and HTTP status.",
	}, []string{"provider", "event_type", "status"})

	// WebhookDuration tracks webhook processing latency.
	WebhookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "restaurant",
		Subsystem: "webhooks",
		Name:      "duration_seconds",
		Help:      "Webhook processing duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "event_type"})

	WebhookDuplicatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Subsystem: "webhooks",
		Name:      "duplicates_total",
		Help:      "Redelivered webhook events skipped by the idempotency check.",
	}, []string{"provider"})

	OrdersCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Orders created by source channel.",
	}, []string{"source"})

	// NotificationsTotal counts outbound confirmations and emails by channel and outcome.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Subsystem: "notifications",
		Name:      "sent_total",
		Help:      "Outbound notifications by channel and outcome (sent/failed/skipped).",
	}, []string{"channel", "outcome"})

	IVRTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "restaurant",
		Subsystem: "ivr",
		Name:      "turns_total",
		Help:      "Voice turns served by resulting call state.",
	}, []string{"state"})
)
