package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InvocationsTotal tracks invocations per detected source
	InvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logship_invocations_total",
			Help: "Total number of invocations by detected source",
		},
		[]string{"source"},
	)

	// EntriesExtracted tracks log entries produced from batches
	EntriesExtracted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logship_entries_extracted_total",
			Help: "Total number of log entries extracted from batches",
		},
		[]string{"source"},
	)

	// AttemptsTotal tracks delivery attempts by classified outcome
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logship_delivery_attempts_total",
			Help: "Total number of delivery attempts by outcome",
		},
		[]string{"outcome"},
	)

	// DeliveriesTotal tracks terminal delivery results
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logship_deliveries_total",
			Help: "Total number of entries by terminal delivery result",
		},
		[]string{"result"},
	)

	// DeliveryLatency tracks the time from first attempt to terminal result
	DeliveryLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "logship_delivery_latency_seconds",
			Help:    "Time spent delivering one entry, including backoff",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	// CredentialFailures tracks license key resolution failures
	CredentialFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "logship_credential_failures_total",
			Help: "Total number of license key resolution failures",
		},
	)
)
