package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	webhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets minted by the issuance pipeline",
		},
	)

	gatewayVerifyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gateway_verify_duration_seconds",
			Help:    "Latency of payment verification calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	notificationEnqueues = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_enqueues_total",
			Help: "Outbound notification enqueue attempts",
		},
		[]string{"status"},
	)
)

type Monitor struct{}

func NewMonitor() *Monitor {
	return &Monitor{}
}

// TrackDelivery records one webhook delivery outcome: processed, replayed,
// ignored, unauthorized, malformed, unpaid or failed.
func (m *Monitor) TrackDelivery(outcome string) {
	webhookDeliveries.WithLabelValues(outcome).Inc()
}

func (m *Monitor) TrackTicketIssued() {
	ticketsIssued.Inc()
}

func (m *Monitor) TrackGatewayVerify(duration time.Duration) {
	gatewayVerifyDuration.Observe(duration.Seconds())
}

func (m *Monitor) TrackNotificationEnqueue(status string) {
	notificationEnqueues.WithLabelValues(status).Inc()
}
