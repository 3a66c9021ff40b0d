package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRequest("GET", "/api/v1/deals", 200, 5*time.Millisecond)
	m.DealCreated()
	m.DealCreated()
	m.DealRejected("limit_reached")
	m.Redemption("PENDING")
	m.CodeCollision("deal")
	m.QRFailure()
	m.PendingExpired(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/deals", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.dealsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dealsRejected.WithLabelValues("limit_reached")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.redemptions.WithLabelValues("PENDING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.codeCollisions.WithLabelValues("deal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.qrFailures))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.expiredPendings))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/", 200, time.Millisecond)
		m.DealCreated()
		m.DealRejected("x")
		m.Redemption("CONFIRMED")
		m.CodeCollision("verification")
		m.QRFailure()
		m.PendingExpired(1)
	})
}
