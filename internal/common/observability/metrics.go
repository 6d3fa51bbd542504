package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records wizard session metrics through OpenTelemetry, exported to Prometheus.
type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	stepCounter    otelmetric.Int64Counter
	submitDuration otelmetric.Float64Histogram
}

// New creates the meter provider. When the exporter cannot be built the returned value
// records nothing.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	stepCounter, err := meter.Int64Counter(
		"wizard.steps",
		otelmetric.WithDescription("Number of wizard steps completed"),
	)
	if err != nil {
		return &Observability{}, err
	}

	submitDuration, err := meter.Float64Histogram(
		"wizard.submit.duration",
		otelmetric.WithDescription("Registration submit duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return &Observability{}, err
	}

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		stepCounter:    stepCounter,
		submitDuration: submitDuration,
	}, nil
}

// RecordStep counts a step outcome ("advanced", "rejected", "back").
func (o *Observability) RecordStep(ctx context.Context, step string, status string) {
	if o.stepCounter != nil {
		o.stepCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("step", step),
			attribute.String("status", status),
		))
	}
}

// RecordSubmit records how long a registration submit took.
func (o *Observability) RecordSubmit(ctx context.Context, duration time.Duration, status string) {
	if o.submitDuration != nil {
		o.submitDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
