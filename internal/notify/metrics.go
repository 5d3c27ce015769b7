package notify

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Shergy82/broad-oak-group-ltd-sub002/internal/notify"

// DeliveryMetrics holds metrics for push delivery attempts, labelled by
// push service host so vendor outages are visible independently.
type DeliveryMetrics struct {
	attemptDuration metric.Float64Histogram
	attemptTotal    metric.Int64Counter
	prunedTotal     metric.Int64Counter
}

// NewDeliveryMetrics creates metrics for monitoring push deliveries.
func NewDeliveryMetrics() (*DeliveryMetrics, error) {
	meter := otel.Meter(meterName)

	attemptDuration, err := meter.Float64Histogram(
		"push.delivery.duration",
		metric.WithDescription("Duration of push delivery attempts in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	attemptTotal, err := meter.Int64Counter(
		"push.delivery.total",
		metric.WithDescription("Total number of push delivery attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	prunedTotal, err := meter.Int64Counter(
		"push.delivery.pruned",
		metric.WithDescription("Number of dead subscriptions pruned after permanent push service rejections"),
		metric.WithUnit("{subscription}"),
	)
	if err != nil {
		return nil, err
	}

	return &DeliveryMetrics{
		attemptDuration: attemptDuration,
		attemptTotal:    attemptTotal,
		prunedTotal:     prunedTotal,
	}, nil
}

// RecordAttempt records one delivery attempt against a push service host.
// A zero status means the attempt never produced a response.
func (m *DeliveryMetrics) RecordAttempt(ctx context.Context, host string, statusCode int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("push.service.host", host),
		attribute.String("push.status_code", strconv.Itoa(statusCode)),
	}
	if err != nil || statusCode >= 400 {
		attrs = append(attrs, attribute.Bool("error", true))
	}

	m.attemptDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.attemptTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPrune records the removal of a subscription the push service
// confirmed gone.
func (m *DeliveryMetrics) RecordPrune(ctx context.Context, host string) {
	m.prunedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("push.service.host", host),
	))
}
