package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	retrieverLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "advisor_retriever_latency_ms",
		Help:    "Latency of vector retriever calls in milliseconds",
		Buckets: []float64{10, 25, 50, 75, 100, 150, 200, 300, 500, 800, 1200},
	}, []string{"type"})

	retrieverResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "advisor_retriever_results",
		Help:    "Number of candidates returned by a retriever",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	}, []string{"type"})

	retrieverRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "advisor_retriever_retries_total",
		Help: "Vector backend calls that needed a retry",
	})

	cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_cache_lookups_total",
		Help: "Cache lookups by tier and outcome",
	}, []string{"tier", "outcome"})

	queryCategories = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_query_category_total",
		Help: "Classified query categories",
	}, []string{"category"})

	generationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_generation_latency_ms",
		Help:    "Latency of generation calls in milliseconds",
		Buckets: []float64{100, 250, 500, 1000, 2000, 4000, 8000, 16000},
	})

	conversationStates = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_conversation_state_total",
		Help: "Conversation state transitions",
	}, []string{"state"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(retrieverLatency, retrieverResults, retrieverRetries,
			cacheLookups, queryCategories, generationLatency, conversationStates)
	})
}

// ObserveRetriever records latency and result size for a retriever type.
func ObserveRetriever(typ string, start time.Time, results int) {
	ensureRegistered()
	dur := time.Since(start).Milliseconds()
	retrieverLatency.WithLabelValues(typ).Observe(float64(dur))
	retrieverResults.WithLabelValues(typ).Observe(float64(results))
}

// CountRetry marks one retried vector backend call.
func CountRetry() {
	ensureRegistered()
	retrieverRetries.Inc()
}

// CountCache records a cache lookup outcome for one tier ("context" or
// "response").
func CountCache(tier string, hit bool) {
	ensureRegistered()
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	cacheLookups.WithLabelValues(tier, outcome).Inc()
}

// CountCategory records the classified category of one query.
func CountCategory(category string) {
	ensureRegistered()
	if category == "" {
		category = "none"
	}
	queryCategories.WithLabelValues(category).Inc()
}

// ObserveGeneration records the latency of one generation call.
func ObserveGeneration(start time.Time) {
	ensureRegistered()
	generationLatency.Observe(float64(time.Since(start).Milliseconds()))
}

// CountState records entering a conversation state.
func CountState(state string) {
	ensureRegistered()
	conversationStates.WithLabelValues(state).Inc()
}
