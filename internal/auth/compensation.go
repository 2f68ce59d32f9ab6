package auth

import (
	"context"
	"errors"
)

// compensations are undo actions for steps that already completed. They
// are executed in reverse order.
type compensations []func(ctx context.Context) error

func (c *compensations) add(f func(ctx context.Context) error) {
	*c = append(*c, f)
}

// run executes all compensations, even if some of them fail.
func (c compensations) run(ctx context.Context) error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		err := c[i](ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
