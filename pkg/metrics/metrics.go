package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gonewx/watershed/pkg/track"
	"github.com/gonewx/watershed/pkg/types"
)

// Metrics holds Prometheus collectors for the track streaming pipeline.
// It implements the streaming system's observer hook.
type Metrics struct {
	registry *prometheus.Registry

	segmentsGenerated prometheus.Counter
	segmentsEvicted   prometheus.Counter
	activeSegments    prometheus.Gauge
	lastSegmentID     prometheus.Gauge
	generationSeconds prometheus.Histogram
	placementsTotal   *prometheus.CounterVec
	verticesTotal     *prometheus.CounterVec
	biomeChanges      *prometheus.CounterVec

	requestsTotal prometheus.Counter
	errorsTotal   prometheus.Counter
}

// New creates and registers Prometheus metrics for the track generator.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		segmentsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "track_segments_generated_total",
			Help: "Total number of segments generated by the streaming system",
		}),
		segmentsEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "track_segments_evicted_total",
			Help: "Total number of segments evicted from the active window",
		}),
		activeSegments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "track_active_segments",
			Help: "Number of segments in the active window",
		}),
		lastSegmentID: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "track_last_segment_id",
			Help: "Id of the most recently generated segment",
		}),
		generationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "track_generation_seconds",
			Help:    "Time spent generating, sampling and synthesizing one segment",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		placementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "track_placements_total",
			Help: "Total number of decorations placed, by category",
		}, []string{"category"}),
		verticesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "track_mesh_vertices_total",
			Help: "Total number of mesh vertices synthesized, by mesh",
		}, []string{"mesh"}),
		biomeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "track_biome_changes_total",
			Help: "Total number of biome change notifications, by new biome",
		}, []string{"biome"}),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "track_inspect_requests_total",
			Help: "Total number of inspector HTTP requests received",
		}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "track_inspect_errors_total",
			Help: "Total number of inspector HTTP responses with error status (4xx or 5xx)",
		}),
	}

	registry.MustRegister(
		m.segmentsGenerated,
		m.segmentsEvicted,
		m.activeSegments,
		m.lastSegmentID,
		m.generationSeconds,
		m.placementsTotal,
		m.verticesTotal,
		m.biomeChanges,
		m.requestsTotal,
		m.errorsTotal,
	)
	return m
}

// Registry returns the underlying registry (used by tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// OnSegmentGenerated records a generated segment.
func (m *Metrics) OnSegmentGenerated(seg *track.Segment, placements track.Placements, geometry track.SegmentGeometry, elapsed time.Duration) {
	m.segmentsGenerated.Inc()
	m.lastSegmentID.Set(float64(seg.ID))
	m.generationSeconds.Observe(elapsed.Seconds())

	for _, c := range types.AllPlacementCategories() {
		if n := len(placements[c]); n > 0 {
			m.placementsTotal.WithLabelValues(string(c)).Add(float64(n))
		}
	}

	for name, mesh := range map[string]*track.Mesh{"floor": geometry.Floor, "wall": geometry.Wall, "water": geometry.Water} {
		if mesh != nil {
			m.verticesTotal.WithLabelValues(name).Add(float64(mesh.VertexCount()))
		}
	}
}

// OnSegmentEvicted records an evicted segment.
func (m *Metrics) OnSegmentEvicted(*track.Segment) {
	m.segmentsEvicted.Inc()
}

// OnBiomeChanged records a biome change notification.
func (m *Metrics) OnBiomeChanged(_, to types.Biome) {
	m.biomeChanges.WithLabelValues(string(to)).Inc()
}

// SetActiveSegments sets the active segments gauge.
func (m *Metrics) SetActiveSegments(n int) {
	m.activeSegments.Set(float64(n))
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. active segments).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
