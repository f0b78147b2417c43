package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirementis_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// OTPDeliveries counts one-time codes sent by purpose (signup|reset) and result.
	OTPDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hirementis_otp_deliveries_total",
			Help: "Total number of OTP emails sent",
		},
		[]string{"purpose", "result"},
	)

	// TokenDebits counts interview token debits charged against user balances.
	TokenDebits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hirementis_token_debits_total",
			Help: "Total number of interview tokens debited",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hirementis_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
