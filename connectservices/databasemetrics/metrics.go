// Package databasemetrics samples statement counts and durations of a
// database.Service into Prometheus.
package databasemetrics

import (
	"context"
	"strings"

	"github.com/lunagic/connect/connectservices/database"
	"github.com/prometheus/client_golang/prometheus"
)

type Builder struct {
	Namespace string
	Subsystem string
	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// Build registers the collectors and returns the hook that samples every
// statement run by the service. Building twice against the same registerer
// fails with the registration error.
func (builder Builder) Build() database.ServiceConfigFunc {
	statementCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: builder.Namespace,
			Subsystem: builder.Subsystem,
			Name:      "statements_total",
			Help:      "Total of statements run, by verb and status",
		},
		[]string{"verb", "status"},
	)
	statementDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: builder.Namespace,
			Subsystem: builder.Subsystem,
			Name:      "statement_duration_seconds",
			Help:      "Duration of statements, by verb",
			Buckets: []float64{
				.0005, .001, .0025, .005, .01, .025, .05,
				.1, .25, .5, 1, 2.5, 5, 10,
			},
		},
		[]string{"verb"},
	)

	return func(service *database.Service) error {
		registerer := builder.Registerer
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}

		for _, collector := range []prometheus.Collector{statementCounter, statementDuration} {
			if err := registerer.Register(collector); err != nil {
				return err
			}
		}

		return database.WithPostRunFunc(func(ctx context.Context, run database.Run) error {
			status := "ok"
			if run.Err != nil {
				status = "error"
			}

			verb := Verb(run.Statement)
			statementCounter.WithLabelValues(verb, status).Inc()
			statementDuration.WithLabelValues(verb).Observe(run.Duration.Seconds())

			return nil
		})(service)
	}
}

// Verb is the upper cased first keyword of a statement.
func Verb(statement string) string {
	fields := strings.Fields(statement)
	if len(fields) == 0 {
		return "UNKNOWN"
	}

	return strings.ToUpper(fields[0])
}
