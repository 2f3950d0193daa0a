package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// IntentCreateTotal counts payment intent creation outcomes.
	IntentCreateTotal *prometheus.CounterVec
	// CheckoutCreateTotal counts hosted checkout session creation outcomes.
	CheckoutCreateTotal *prometheus.CounterVec
	// WebhookEventTotal counts processed webhook events by type and outcome.
	WebhookEventTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		IntentCreateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_intent_create_total",
			Help:      "Count of payment intent creation outcomes.",
		}, []string{"result"})
		CheckoutCreateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_session_create_total",
			Help:      "Count of hosted checkout session creation outcomes.",
		}, []string{"result"})
		WebhookEventTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_event_total",
			Help:      "Count of processed webhook events by type and outcome.",
		}, []string{"event_type", "result"})

		mustRegisterCollector(reg, IntentCreateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				IntentCreateTotal = v
			}
		})
		mustRegisterCollector(reg, CheckoutCreateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CheckoutCreateTotal = v
			}
		})
		mustRegisterCollector(reg, WebhookEventTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				WebhookEventTotal = v
			}
		})
	})
}

// ObserveIntentCreate records a payment-intent creation outcome. Safe to call
// before metrics registration; it becomes a no-op.
func ObserveIntentCreate(result string) {
	if IntentCreateTotal != nil {
		IntentCreateTotal.WithLabelValues(result).Inc()
	}
}

// ObserveCheckoutCreate records a checkout-session creation outcome.
func ObserveCheckoutCreate(result string) {
	if CheckoutCreateTotal != nil {
		CheckoutCreateTotal.WithLabelValues(result).Inc()
	}
}

// ObserveWebhookEvent records a webhook processing outcome.
func ObserveWebhookEvent(eventType, result string) {
	if WebhookEventTotal != nil {
		WebhookEventTotal.WithLabelValues(eventType, result).Inc()
	}
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
