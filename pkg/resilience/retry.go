package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
)

// RetryPolicy bounds how often a remote call is repeated.
type RetryPolicy struct {
	MaxRetries int
	Delay      time.Duration
	// Exponential grows the delay between attempts instead of keeping it constant.
	Exponential bool
}

// Retry calls fn until it succeeds, returns an error retryable rejects, the
// policy runs out or ctx is done. The last error from fn is returned.
func Retry(ctx context.Context, policy RetryPolicy, retryable func(error) bool, fn func(context.Context) error) error {
	op := func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		err := fn(ctx)
		if err != nil && retryable != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(op, policy.backOff(ctx))
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}

	var b backoff.BackOff
	if p.Exponential {
		exp := backoff.NewExponentialBackOff()
		if p.Delay > 0 {
			exp.InitialInterval = p.Delay
		}
		exp.MaxElapsedTime = 0
		b = exp
	} else {
		b = backoff.NewConstantBackOff(p.Delay)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}
