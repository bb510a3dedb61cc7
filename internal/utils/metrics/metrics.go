package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nln_auth_requests_total",
		Help: "The total number of HTTP requests",
	})

	ResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nln_auth_responses_total",
		Help: "The total number of HTTP responses by status code",
	}, []string{"status"})

	RequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nln_auth_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// LoginAttemptsTotal counts login outcomes: success, failure_credentials,
	// failure_account_locked, failure_must_reset, failure_validation, ...
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nln_auth_login_attempts_total",
		Help: "The total number of login attempts by outcome",
	}, []string{"status"})

	LockoutsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nln_auth_lockouts_total",
		Help: "The total number of account lockouts by kind",
	}, []string{"kind"})

	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nln_auth_registrations_total",
		Help: "The total number of signup attempts",
	}, []string{"status"})

	PasswordResetRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nln_auth_password_reset_requests_total",
		Help: "The total number of password reset requests",
	}, []string{"status"})

	TokensIssuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nln_auth_tokens_issued_total",
		Help: "The total number of session tokens issued",
	})

	TokenVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nln_auth_token_verifications_total",
		Help: "The total number of session token verifications by result",
	}, []string{"result"})

	RateLimitExceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nln_auth_rate_limit_exceeded_total",
		Help: "The total number of rate limit exceeded events",
	})
)
