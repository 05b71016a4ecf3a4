package grammar

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("prune.grammar")
	meter  = otel.Meter("prune.grammar")
)

var (
	analysisLatency    metric.Float64Histogram
	analysisTotal      metric.Int64Counter
	uselessProductionN metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		analysisLatency, err = meter.Float64Histogram(
			"grammar_analysis_duration_seconds",
			metric.WithDescription("Duration of productivity analyses"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analysisTotal, err = meter.Int64Counter(
			"grammar_analysis_total",
			metric.WithDescription("Total number of productivity analyses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		uselessProductionN, err = meter.Int64Histogram(
			"grammar_useless_productions",
			metric.WithDescription("Number of useless productions found per analysis"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordAnalysisMetrics(ctx context.Context, duration time.Duration, productionCount, uselessCount int) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("clean", uselessCount == 0))

	analysisLatency.Record(ctx, duration.Seconds(), attrs)
	analysisTotal.Add(ctx, 1, attrs)
	uselessProductionN.Record(ctx, int64(uselessCount), metric.WithAttributes(attribute.Int("productions", productionCount)))
}
