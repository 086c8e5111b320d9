package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AuthMetrics groups the Prometheus collectors for the authentication flow.
type AuthMetrics struct {
	SMSDuration   prometheus.Histogram
	AuthAttempts  *prometheus.CounterVec
	Registrations *prometheus.CounterVec
}

// NewAuthMetrics constructs and registers the collectors with the provided
// registerer (prometheus.DefaultRegisterer when nil).
func NewAuthMetrics(reg prometheus.Registerer) (*AuthMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	smsDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "phoneauth",
		Name:      "sms_delivery_duration_seconds",
		Help:      "Latency of SMS delivery attempts in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	authAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "phoneauth",
		Name:      "auth_attempts_total",
		Help:      "Challenge issuance attempts partitioned by result.",
	}, []string{"result"})

	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "phoneauth",
		Name:      "registrations_total",
		Help:      "Registration operations partitioned by operation and result.",
	}, []string{"operation", "result"})

	for _, c := range []prometheus.Collector{smsDuration, authAttempts, registrations} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, fmt.Errorf("register collector: %w", err)
			}
		}
	}

	return &AuthMetrics{
		SMSDuration:   smsDuration,
		AuthAttempts:  authAttempts,
		Registrations: registrations,
	}, nil
}

// ObserveSMSDuration records the latency of one SMS delivery attempt.
func (m *AuthMetrics) ObserveSMSDuration(d time.Duration) {
	if m == nil || m.SMSDuration == nil {
		return
	}
	m.SMSDuration.Observe(d.Seconds())
}

// RecordAuthAttempt counts one challenge issuance by outcome.
func (m *AuthMetrics) RecordAuthAttempt(success bool) {
	if m == nil || m.AuthAttempts == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(resultLabel(success)).Inc()
}

// RecordRegistration counts one registration operation by outcome.
func (m *AuthMetrics) RecordRegistration(operation string, success bool) {
	if m == nil || m.Registrations == nil {
		return
	}
	m.Registrations.WithLabelValues(operation, resultLabel(success)).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
