package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rpcRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "splitit_rpc_requests_total",
			Help: "Total number of RPC calls by procedure and result code",
		},
		[]string{"procedure", "code"},
	)

	rpcRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "splitit_rpc_request_duration_seconds",
			Help:    "RPC duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"procedure"},
	)

	rpcRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "splitit_rpc_requests_in_flight",
			Help: "Number of RPC calls currently being processed",
		},
	)
)

// MetricsInterceptor records call counts, durations and in-flight calls.
// Successful calls are counted with code "ok".
func MetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			rpcRequestsInFlight.Inc()
			defer rpcRequestsInFlight.Dec()

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			rpcRequestsTotal.WithLabelValues(procedure, code).Inc()
			rpcRequestDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())

			return resp, err
		}
	}
}
