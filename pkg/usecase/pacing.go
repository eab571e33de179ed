package usecase

import (
	"context"
	"time"
)

// Pacer inserts a delay between iteration steps of the nightly batch. It is
// a policy separate from the iteration itself so the strategy can change
// without touching the workflow.
type Pacer interface {
	Pace(ctx context.Context) error
}

type fixedDelay struct {
	delay time.Duration
}

// FixedDelayPacer waits a constant interval, honoring context cancellation.
func FixedDelayPacer(delay time.Duration) Pacer {
	return &fixedDelay{delay: delay}
}

func (x *fixedDelay) Pace(ctx context.Context) error {
	if x.delay <= 0 {
		return nil
	}

	timer := time.NewTimer(x.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// DefaultPacer spaces repositories far enough apart to stay under
// third-party API rate budgets.
func DefaultPacer() Pacer {
	return FixedDelayPacer(10 * time.Second)
}
