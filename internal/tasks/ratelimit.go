package tasks

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces remote lookups to at most n per rolling second.
//
// Requests are delayed, never dropped. With a burst of one, consecutive admissions are spaced by at least the
// interval, so any one-second window admits at most n.
type RateLimiter struct {
	limiter  *rate.Limiter
	interval time.Duration
}

// NewRateLimiter creates a limiter admitting perSecond requests per second. Values below one are treated as one.
func NewRateLimiter(perSecond int) *RateLimiter {
	perSecond = max(perSecond, 1)
	// padded by a microsecond so float rounding inside rate never admits n+1 in a one-second window
	interval := time.Second/time.Duration(perSecond) + time.Microsecond
	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
		interval: interval,
	}
}

// Interval returns the minimum spacing between admissions.
func (r *RateLimiter) Interval() time.Duration {
	return r.interval
}

// Acquire blocks until a permit is available. On cancellation the reservation is returned and ctx.Err() is
// the only error.
func (r *RateLimiter) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res := r.limiter.Reserve()
	delay := res.Delay()
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		res.Cancel()
		return ctx.Err()
	}
}

// admitAt reserves a permit as if requested at t and returns when it would be granted.
func (r *RateLimiter) admitAt(t time.Time) time.Time {
	res := r.limiter.ReserveN(t, 1)
	return t.Add(res.DelayFrom(t))
}
