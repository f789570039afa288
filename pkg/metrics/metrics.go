package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DocumentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "coedit", Name: "documents_created_total", Help: "Number of documents created."},
	)
	DocumentsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "coedit", Name: "documents_deleted_total", Help: "Number of documents deleted (with cascade)."},
	)
	EditsApplied = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "coedit", Name: "edits_applied_total", Help: "Number of content updates committed."},
	)
	PresenceHeartbeats = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "coedit", Name: "presence_heartbeats_total", Help: "Number of presence heartbeats accepted."},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "coedit", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "coedit", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(DocumentsCreated)
	reg.MustRegister(DocumentsDeleted)
	reg.MustRegister(EditsApplied)
	reg.MustRegister(PresenceHeartbeats)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
