package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments exposed on /metrics.
type Metrics struct {
	IngestRequests *prometheus.CounterVec
	ChatRequests   *prometheus.CounterVec
	ChunksCreated  prometheus.Counter
	FilesProcessed prometheus.Counter
	ChatLatency    prometheus.Histogram
}

// NewMetrics registers the service metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		IngestRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "codebase_rag_ingest_requests_total",
			Help: "Ingestion requests by source and outcome.",
		}, []string{"source", "status"}),
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "codebase_rag_chat_requests_total",
			Help: "Chat requests by model and outcome.",
		}, []string{"model", "status"}),
		ChunksCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "codebase_rag_chunks_created_total",
			Help: "Chunks written to the index across all ingestions.",
		}),
		FilesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "codebase_rag_files_processed_total",
			Help: "Source files processed across all ingestions.",
		}),
		ChatLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "codebase_rag_chat_duration_seconds",
			Help:    "End to end chat request latency including generation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
