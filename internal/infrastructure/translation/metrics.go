package translation

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	modelRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lahjatuna_translation_model_requests_total",
			Help: "Total number of translation model requests",
		},
		[]string{"provider", "status"},
	)

	modelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lahjatuna_translation_model_request_duration_seconds",
			Help:    "Duration of translation model requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
		[]string{"provider"},
	)

	modelTextLength = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lahjatuna_translation_model_text_length_chars",
			Help:    "Length of source text sent to the translation model",
			Buckets: prometheus.ExponentialBuckets(16, 2, 10),
		},
		[]string{"provider"},
	)
)

type instrumentedModel struct {
	Model
}

// WithMetrics records request counts, latency and text length for every call.
func WithMetrics(m Model) Model {
	if m == nil {
		return nil
	}
	if _, ok := m.(instrumentedModel); ok {
		return m
	}
	return instrumentedModel{Model: m}
}

func (m instrumentedModel) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	provider := m.Model.Name()
	start := time.Now()
	out, err := m.Model.Translate(ctx, text, sourceLang, targetLang)
	modelRequestDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
	modelTextLength.WithLabelValues(provider).Observe(float64(len([]rune(text))))

	status := "success"
	if err != nil {
		status = "error"
	}
	modelRequestsTotal.WithLabelValues(provider, status).Inc()
	return out, err
}
