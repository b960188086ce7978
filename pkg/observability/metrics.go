package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vpos_gateway_requests_total",
			Help: "Total number of VPOS gateway exchanges",
		},
		[]string{"action", "result"},
	)

	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vpos_gateway_request_duration_seconds",
			Help:    "Duration of VPOS gateway exchanges in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
)

// Gateway call results recorded on the vpos_gateway_requests_total counter
const (
	ResultApproved       = "approved"
	ResultDeclined       = "declined"
	ResultProtocolError  = "protocol_error"
	ResultTransportError = "transport_error"
)

// ObserveGatewayCall records one build-sign-send-parse cycle
func ObserveGatewayCall(action, result string, elapsed time.Duration) {
	gatewayRequestsTotal.WithLabelValues(action, result).Inc()
	gatewayRequestDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}
