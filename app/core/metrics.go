package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/explainium/explainium/pkg/metrics"
)

type Metrics struct {
	apiResponseTime *prometheus.HistogramVec
	apiErrorCounter *prometheus.CounterVec
	stageTime       *prometheus.HistogramVec
	extractionError *prometheus.CounterVec
	documentsTotal  *prometheus.CounterVec
	queueDepth      *prometheus.GaugeVec
}

func NewMetrics(ns, system string) *Metrics {
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime: metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter: metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		stageTime:       metrics.NewHistogramVec("pipeline_stage_time", []string{"stage", "kind"}),
		extractionError: metrics.NewCounterVec("extraction_error", []string{"kind", "reason"}),
		documentsTotal:  metrics.NewCounterVec("documents_processed", []string{"kind", "status"}),
		queueDepth:      metrics.NewGaugeVec("process_queue_depth", nil),
	}

	return m
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) StageTimer(stage, kind string) *prometheus.Timer {
	return prometheus.NewTimer(m.stageTime.WithLabelValues(stage, kind))
}

func (m *Metrics) ExtractionErrorInc(kind, reason string) {
	m.extractionError.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) DocumentProcessedInc(kind, status string) {
	m.documentsTotal.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) SetQueueDepth(n int) {
	m.queueDepth.WithLabelValues().Set(float64(n))
}
