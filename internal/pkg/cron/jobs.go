package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ezleave/ezleave-backend-go/internal/domain/auth"
	"github.com/ezleave/ezleave-backend-go/internal/domain/leave"
	"github.com/ezleave/ezleave-backend-go/internal/pkg/metrics"
)

const (
	LeaveGaugeInterval   = 5 * time.Minute
	TokenPurgeInterval   = time.Hour
	LimiterEvictInterval = 5 * time.Minute
	LimiterIdleTTL       = 10 * time.Minute
	leaveGaugeJobName    = "leave-request-gauge"
	tokenPurgeJobName    = "refresh-token-purge"
	limiterEvictJobName  = "rate-limiter-evict"
)

type LeaveJobs struct {
	requests leave.LeaveRequestRepository
	now      func() time.Time
}

func NewLeaveJobs(requests leave.LeaveRequestRepository) *LeaveJobs {
	return &LeaveJobs{requests: requests, now: time.Now}
}

// RefreshRequestGauge publishes the year-to-date count of leave requests per status.
// Statuses with no rows are reset to zero.
func (j *LeaveJobs) RefreshRequestGauge(ctx context.Context) error {
	today := leave.DateOf(j.now())
	from := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	stats, err := j.requests.CountByStatus(ctx, leave.StatsFilter{From: from, To: from.AddDate(1, 0, 0)})
	if err != nil {
		return fmt.Errorf("count leave requests by status: %w", err)
	}

	counts := make(map[leave.LeaveRequestStatus]int64, len(stats))
	for _, s := range stats {
		counts[s.Status] = s.Count
	}
	for _, status := range leave.Statuses {
		metrics.SetLeaveRequests(string(status), counts[status])
	}
	return nil
}

type TokenJobs struct {
	tokens auth.RefreshTokenRepository
	now    func() time.Time
}

func NewTokenJobs(tokens auth.RefreshTokenRepository) *TokenJobs {
	return &TokenJobs{tokens: tokens, now: time.Now}
}

// PurgeExpired deletes refresh tokens past their expiry. Their signature check
// already rejects them, so the rows only take space.
func (j *TokenJobs) PurgeExpired(ctx context.Context) error {
	n, err := j.tokens.DeleteExpired(ctx, j.now())
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Debug("Purged expired refresh tokens", "count", n)
	}
	return nil
}

// IdleEvicter is satisfied by the per-key rate limiters.
type IdleEvicter interface {
	EvictIdle(maxIdle time.Duration) int
}

type LimiterJobs struct {
	limiters []IdleEvicter
	maxIdle  time.Duration
}

func NewLimiterJobs(maxIdle time.Duration, limiters ...IdleEvicter) *LimiterJobs {
	return &LimiterJobs{limiters: limiters, maxIdle: maxIdle}
}

func (j *LimiterJobs) EvictIdle(ctx context.Context) error {
	evicted := 0
	for _, l := range j.limiters {
		evicted += l.EvictIdle(j.maxIdle)
	}
	if evicted > 0 {
		slog.Debug("Evicted idle rate limiters", "count", evicted)
	}
	return nil
}

// Register adds the standard housekeeping jobs to s.
func Register(s *Scheduler, leaveJobs *LeaveJobs, tokenJobs *TokenJobs, limiterJobs *LimiterJobs) {
	s.AddJob(leaveGaugeJobName, LeaveGaugeInterval, leaveJobs.RefreshRequestGauge)
	s.AddJob(tokenPurgeJobName, TokenPurgeInterval, tokenJobs.PurgeExpired)
	s.AddJob(limiterEvictJobName, LimiterEvictInterval, limiterJobs.EvictIdle)
}
