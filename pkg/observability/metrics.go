package observability

import (
	"context"

	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts changes in Prometheus.
type Metrics struct {
	changes *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syncvar_changes_total",
				Help: "Total number of applied changes per variable and change type",
			},
			[]string{"variable", "type"},
		),
	}
	if reg != nil {
		if err := reg.Register(m.changes); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Record increments the counter for the change.
func (m *Metrics) Record(ctx context.Context, variable string, change domain.Change) error {
	m.changes.WithLabelValues(variable, change.Type.String()).Inc()
	return nil
}

// Changes exposes the counter vector, mostly for tests.
func (m *Metrics) Changes() *prometheus.CounterVec {
	return m.changes
}
