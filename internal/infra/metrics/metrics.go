// Package metrics provides in-process playback statistics backed by
// prometheus collectors.
package metrics

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19queue/internal/domain/playlist"
)

// Queue generation modes used as label values.
const (
	ModeOrdered  = "ordered"
	ModeShuffled = "shuffled"
)

// Recorder collects playlist engine events.
// It implements playlist.Observer.
type Recorder struct {
	registry *prometheus.Registry

	QueueGenerations *prometheus.CounterVec
	ItemsPlayed      prometheus.Counter
	ItemsLooped      prometheus.Counter
	QueueExhausted   prometheus.Counter
	QueueLength      prometheus.Gauge
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		QueueGenerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "playlist_queue_generations_total",
				Help: "Total number of play queue generations",
			},
			[]string{"mode"},
		),
		ItemsPlayed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playlist_items_played_total",
				Help: "Total number of items returned by play operations",
			},
		),
		ItemsLooped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playlist_items_looped_total",
				Help: "Total number of items pushed to the front of the queue",
			},
		),
		QueueExhausted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "playlist_queue_exhausted_total",
				Help: "Total number of play-next calls that found nothing to play",
			},
		),
		QueueLength: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "playlist_queue_length",
				Help: "Number of items in the play queue",
			},
		),
	}
}

// Observe records an engine event.
func (r *Recorder) Observe(e playlist.Event) {
	switch e.Type {
	case playlist.EventQueueGenerated:
		mode := ModeOrdered
		if e.Shuffled {
			mode = ModeShuffled
		}
		r.QueueGenerations.WithLabelValues(mode).Inc()
	case playlist.EventItemPlayed:
		r.ItemsPlayed.Inc()
	case playlist.EventItemLooped:
		r.ItemsLooped.Inc()
	case playlist.EventQueueExhausted:
		r.QueueExhausted.Inc()
	}
	r.QueueLength.Set(float64(e.QueueLen))

	zlog.Debug().Msgf("metrics: event=%s queue_len=%d", e.Type, e.QueueLen)
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteText writes all collected metrics in the text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "failed to write metrics")
		}
	}
	return nil
}
