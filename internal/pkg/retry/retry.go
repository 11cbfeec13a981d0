// Package retry runs best-effort side effects under a timeout and an
// exponential backoff policy.
package retry

import (
	"context"
	"errors"
	"time"

	"freight/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds one side effect. The zero value makes a single attempt with
// no timeout.
type Policy struct {
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Do calls op until it succeeds, returns a permanent error, runs out of
// retries or the policy timeout expires. The context passed to op carries
// the timeout.
//
// Errors matching errs.ErrObjectNotFound, errs.ErrValueIsInvalid or
// errs.ErrValueIsRequired are never retried.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 0
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}

	return backoff.Retry(func() error {
		err := op(ctx)
		if err != nil && isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx))
}

func isPermanent(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsRequired)
}
