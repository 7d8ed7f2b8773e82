package ports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type portsMetricsCollection struct {
	requestCount     metric.Int64Counter
	requestDuration  metric.Float64Histogram
	rejectedRequests metric.Int64Counter
}

var metrics portsMetricsCollection

func newPortsMetrics(meter metric.Meter) (portsMetricsCollection, error) {
	requestCount, err := meter.Int64Counter(
		"ports/request_count",
		metric.WithDescription("Requests received from the host runtime and public readers"),
	)
	if err != nil {
		return portsMetricsCollection{}, fmt.Errorf("request count: %w", err)
	}

	requestDuration, err := meter.Float64Histogram(
		"ports/request_duration_seconds",
		metric.WithDescription("Time spent handling a request"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return portsMetricsCollection{}, fmt.Errorf("request duration: %w", err)
	}

	rejectedRequests, err := meter.Int64Counter(
		"ports/rejected_requests",
		metric.WithDescription("Requests answered with a client error, by cause"),
	)
	if err != nil {
		return portsMetricsCollection{}, fmt.Errorf("rejected requests: %w", err)
	}

	return portsMetricsCollection{
		requestCount:     requestCount,
		requestDuration:  requestDuration,
		rejectedRequests: rejectedRequests,
	}, nil
}

func init() {
	var err error
	metrics, err = newPortsMetrics(otel.Meter("awardtracker/ports"))
	if err != nil {
		panic(fmt.Errorf("failed to create ports metrics: %w", err))
	}
}

// recordRejection counts a request refused because of the caller, e.g. an unloaded player
func recordRejection(ctx context.Context, cause string) {
	metrics.rejectedRequests.Add(ctx, 1, metric.WithAttributes(attribute.String("cause", cause)))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func buildMetricsMiddleware(portName string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			userAgent := r.UserAgent()
			if userAgent == "" {
				userAgent = "<missing>"
			}

			recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next(recorder, r)

			// NOTE: The port name is used instead of the path, which contains player ids
			attributes := []attribute.KeyValue{
				attribute.String("method", r.Method),
				attribute.String("port", portName),
				attribute.String("user_agent", userAgent),
				attribute.Int("status_code", recorder.statusCode),
			}

			attributesOption := metric.WithAttributes(attributes...)

			metrics.requestCount.Add(ctx, 1, attributesOption)
			metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), attributesOption)
		}
	}
}
