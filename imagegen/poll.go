package imagegen

import (
	"context"
	"errors"
	"time"
)

// ErrPollExhausted is returned when a job does not finish within the
// attempt budget.
var ErrPollExhausted = errors.New("poll attempts exhausted")

// PollConfig bounds a polling loop.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
	// Sleep waits for d or until ctx is done. Tests replace it with a fake
	// clock.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (c PollConfig) withDefaults() PollConfig {
	if c.Interval <= 0 {
		c.Interval = 2 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 30
	}
	if c.Sleep == nil {
		c.Sleep = sleepContext
	}
	return c
}

// CheckFunc inspects a job once. It returns the result and true when the job
// succeeded, false to keep polling, or an error when the job failed.
type CheckFunc func(ctx context.Context) (string, bool, error)

// Poll waits Interval and then calls check, up to MaxAttempts times.
func Poll(ctx context.Context, cfg PollConfig, check CheckFunc) (string, error) {
	cfg = cfg.withDefaults()
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := cfg.Sleep(ctx, cfg.Interval); err != nil {
			return "", err
		}
		result, done, err := check(ctx)
		if err != nil {
			return "", err
		}
		if done {
			return result, nil
		}
	}
	return "", ErrPollExhausted
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
