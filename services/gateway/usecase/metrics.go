package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// outcome labels
const (
	outcomeApplied     = "applied"
	outcomeNotFound    = "not_found"
	outcomeRejected    = "rejected"
	outcomeConflict    = "conflict_exhausted"
	outcomeUpstream    = "upstream_unavailable"
	outcomeError       = "error"
	outcomeSucceeded   = "succeeded"
	outcomeFailed      = "failed"
	outcomeUnpersisted = "unpersisted"
)

var (
	ipnNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coingate",
			Name:      "ipn_notifications_total",
			Help:      "IPN notifications handled, by status bucket and outcome.",
		},
		[]string{"bucket", "outcome"},
	)

	conversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coingate",
			Name:      "conversions_total",
			Help:      "Conversion legs started after a completed deposit, by outcome.",
		},
		[]string{"outcome"},
	)
)
