// Package telemetry collects render metrics and writes them as a Prometheus
// textfile for node_exporter style collection.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the set of collectors for one render job.
type Metrics struct {
	registry *prometheus.Registry

	FramesRendered prometheus.Counter
	FrameSeconds   prometheus.Histogram
	EncodeSeconds  prometheus.Histogram
	RenderSeconds  prometheus.Gauge
	TotalFrames    prometheus.Gauge
}

// New registers the collectors on a private registry labelled with the job.
func New(job string) *Metrics {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"job_id": job}

	m := &Metrics{
		registry: reg,
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "wrapped",
			Name:        "frames_rendered_total",
			Help:        "Frames composed and rasterized.",
			ConstLabels: labels,
		}),
		FrameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "wrapped",
			Name:        "frame_render_seconds",
			Help:        "Time to compose and rasterize one frame.",
			Buckets:     prometheus.ExponentialBuckets(0.001, 2, 12),
			ConstLabels: labels,
		}),
		EncodeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "wrapped",
			Name:        "frame_encode_seconds",
			Help:        "Time to hand one frame to the sink.",
			Buckets:     prometheus.ExponentialBuckets(0.0005, 2, 12),
			ConstLabels: labels,
		}),
		RenderSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "wrapped",
			Name:        "render_duration_seconds",
			Help:        "Wall time of the whole render.",
			ConstLabels: labels,
		}),
		TotalFrames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "wrapped",
			Name:        "timeline_frames",
			Help:        "Frames in the timeline.",
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(m.FramesRendered, m.FrameSeconds, m.EncodeSeconds, m.RenderSeconds, m.TotalFrames)
	return m
}

// ObserveFrame records one rendered frame.
func (m *Metrics) ObserveFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.FramesRendered.Inc()
	m.FrameSeconds.Observe(d.Seconds())
}

// ObserveEncode records one frame written to the sink.
func (m *Metrics) ObserveEncode(d time.Duration) {
	if m == nil {
		return
	}
	m.EncodeSeconds.Observe(d.Seconds())
}

// Registry exposes the collectors, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
