// Package metrics holds the Prometheus instruments for theme resolution and
// partial rendering. Collectors are registered with the registerer passed
// to New so hosts decide where they are exposed.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-cms-theming/internal/themes"
	"github.com/goliatone/go-cms-theming/internal/views"
)

// Recorder implements themes.Observer and views.ErrorObserver.
type Recorder struct {
	Resolutions         *prometheus.CounterVec
	PartialRenderErrors prometheus.Counter
}

var (
	_ themes.Observer     = (*Recorder)(nil)
	_ views.ErrorObserver = (*Recorder)(nil)
)

// New builds the collectors under namespace and registers them with reg.
// A nil reg leaves them unregistered.
func New(namespace string, reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Theme path resolutions by category and outcome.",
			}, []string{"category", "outcome"}),
		PartialRenderErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "partial_render_errors_total",
				Help:      "Partials replaced by an inline error fragment.",
			}),
	}
	if reg == nil {
		return r, nil
	}
	for _, c := range []prometheus.Collector{r.Resolutions, r.PartialRenderErrors} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Recorder) ObserveResolution(category themes.PathCategory, outcome themes.Outcome) {
	r.Resolutions.WithLabelValues(category.String(), string(outcome)).Inc()
}

func (r *Recorder) ObservePartialError(string) {
	r.PartialRenderErrors.Inc()
}
