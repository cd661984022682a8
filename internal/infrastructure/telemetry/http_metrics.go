package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics tracks request counts and latency per route.
type HTTPMetrics struct {
	requests *Counter
	duration *Histogram
}

// NewHTTPMetrics registers the HTTP instruments on the meter.
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	requests, err := NewCounter(meter, "http_server_requests_total", "Total number of HTTP requests", "{requests}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request duration",
		Unit:        "s",
		Boundaries:  HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration}, nil
}

// RecordRequest records one finished request.
func (m *HTTPMetrics) RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	attrs := []attribute.KeyValue{
		AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(route),
		AttrHTTPStatusCode.String(strconv.Itoa(status)),
	}
	m.requests.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, elapsed, attrs...)
}
