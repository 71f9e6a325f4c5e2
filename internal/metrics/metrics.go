package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"

	OutcomeOK               = "ok"
	OutcomeInvalid          = "invalid"
	OutcomeGenerationFailed = "generation_failed"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gentwin_build_info",
			Help: "Build information of the GenTwin telemetry relay",
		},
		[]string{"version"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gentwin_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gentwin_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	IngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gentwin_ingest_total",
			Help: "Telemetry ingests by source and outcome",
		},
		[]string{"source", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gentwin_generation_duration_seconds",
			Help:    "Duration of diagnostic generation calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"provider", "result"},
	)

	AssetIntensity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gentwin_asset_intensity",
			Help: "Displacement intensity (AU) of the latest stored reading",
		},
	)

	AssetFrequency = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gentwin_asset_frequency_hz",
			Help: "Sway frequency of the latest stored reading",
		},
	)

	AssetCritical = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gentwin_asset_critical",
			Help: "1 when the latest stored reading is classified CRITICAL",
		},
	)
)

func RecordIngest(source, outcome string) {
	IngestTotal.WithLabelValues(source, outcome).Inc()
}

func RecordGeneration(provider string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	GenerationDuration.WithLabelValues(provider, result).Observe(seconds)
}

func RecordAsset(frequency, intensity float64, critical bool) {
	AssetFrequency.Set(frequency)
	AssetIntensity.Set(intensity)
	if critical {
		AssetCritical.Set(1)
	} else {
		AssetCritical.Set(0)
	}
}
