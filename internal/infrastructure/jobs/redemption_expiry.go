package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"dealhub.backend/pkg/logger"
	"dealhub.backend/pkg/metrics"
)

const expiryBatchSize = 100

type pendingRejecter interface {
	RejectPendingBefore(ctx context.Context, cutoff time.Time, limit int) (int, error)
}

// RedemptionExpiryJob rejects PENDING redemptions left unverified for
// longer than ttl, releasing the deal capacity they reserve.
type RedemptionExpiryJob struct {
	repo     pendingRejecter
	ttl      time.Duration
	interval time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

func NewRedemptionExpiryJob(repo pendingRejecter, ttl, interval time.Duration, m *metrics.Metrics) *RedemptionExpiryJob {
	if interval <= 0 {
		interval = time.Minute
	}
	return &RedemptionExpiryJob{
		repo:     repo,
		ttl:      ttl,
		interval: interval,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
		stop:     make(chan struct{}),
	}
}

// Enabled reports whether a pending TTL is configured
func (j *RedemptionExpiryJob) Enabled() bool {
	return j.ttl > 0
}

func (j *RedemptionExpiryJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting redemption expiry job",
		zap.Duration("ttl", j.ttl),
		zap.Duration("interval", j.interval),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Redemption expiry job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Redemption expiry job stopped")
			return
		case <-ticker.C:
			j.processExpired(ctx)
		}
	}
}

func (j *RedemptionExpiryJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *RedemptionExpiryJob) processExpired(ctx context.Context) {
	cutoff := j.now().Add(-j.ttl)

	total := 0
	for {
		n, err := j.repo.RejectPendingBefore(ctx, cutoff, expiryBatchSize)
		if err != nil {
			logger.Error(ctx, "Error rejecting stale pending redemptions", zap.Error(err))
			break
		}
		total += n
		if n < expiryBatchSize {
			break
		}
	}

	if total == 0 {
		return
	}

	j.metrics.PendingExpired(total)
	logger.Info(ctx, "Rejected stale pending redemptions", zap.Int("count", total))
}
