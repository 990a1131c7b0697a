// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitledger"

var (
	// ExpensesCreated counts committed expenses by split type.
	ExpensesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Expenses committed, by split type.",
	}, []string{"split_type"})

	// SplitRejections counts CreateExpense requests refused before commit.
	SplitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "split_rejections_total",
		Help:      "Expense requests rejected before commit, by reason.",
	}, []string{"reason"})

	// SettlementsPerView observes how many settlements a balance view produced.
	SettlementsPerView = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "settlements_per_view",
		Help:      "Settlement transactions returned per balance view.",
		Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
	}, []string{"view"})

	// MalformedBalances counts balance views that failed the zero-sum check.
	MalformedBalances = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "malformed_balances_total",
		Help:      "Balance views whose net balances did not sum to zero.",
	}, []string{"view"})

	// RPCDuration observes handler latency by procedure and Connect code.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Connect RPC handler latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})
)

// Rejection reasons used with SplitRejections.
const (
	ReasonValidation         = "validation"
	ReasonInvalidSplit       = "invalid_split"
	ReasonInvalidParticipant = "invalid_participant"
)

// Balance views used with SettlementsPerView and MalformedBalances.
const (
	ViewUser  = "user"
	ViewAll   = "all"
	ViewGroup = "group"
)
