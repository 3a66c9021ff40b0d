package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dealhub"

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	dealsCreated    prometheus.Counter
	dealsRejected   *prometheus.CounterVec
	redemptions     *prometheus.CounterVec
	codeCollisions  *prometheus.CounterVec
	qrFailures      prometheus.Counter
	expiredPendings prometheus.Counter
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		dealsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deals_created_total",
			Help:      "Deals created.",
		}),
		dealsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deal_create_rejections_total",
			Help:      "Deal creations refused, by reason.",
		}, []string{"reason"}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redemptions_total",
			Help:      "Redemption transitions by resulting status.",
		}, []string{"status"}),
		codeCollisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "code_collisions_total",
			Help:      "Generated codes rejected by a uniqueness constraint.",
		}, []string{"kind"}),
		qrFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "qr_generation_failures_total",
			Help:      "QR images that could not be rendered.",
		}),
		expiredPendings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redemptions_expired_total",
			Help:      "Pending redemptions rejected by the expiry job.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.dealsCreated,
		m.dealsRejected,
		m.redemptions,
		m.codeCollisions,
		m.qrFailures,
		m.expiredPendings,
	)
	return m
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(latency.Seconds())
}

// DealCreated records a created deal
func (m *Metrics) DealCreated() {
	if m == nil {
		return
	}
	m.dealsCreated.Inc()
}

// DealRejected records a refused deal creation
func (m *Metrics) DealRejected(reason string) {
	if m == nil {
		return
	}
	m.dealsRejected.WithLabelValues(reason).Inc()
}

// Redemption records a redemption entering status
func (m *Metrics) Redemption(status string) {
	if m == nil {
		return
	}
	m.redemptions.WithLabelValues(status).Inc()
}

// CodeCollision records a regenerated code
func (m *Metrics) CodeCollision(kind string) {
	if m == nil {
		return
	}
	m.codeCollisions.WithLabelValues(kind).Inc()
}

// QRFailure records a failed QR render
func (m *Metrics) QRFailure() {
	if m == nil {
		return
	}
	m.qrFailures.Inc()
}

// PendingExpired records n pending redemptions rejected by the expiry job
func (m *Metrics) PendingExpired(n int) {
	if m == nil {
		return
	}
	m.expiredPendings.Add(float64(n))
}
