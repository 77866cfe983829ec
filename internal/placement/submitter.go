package placement

import (
	"context"
	"errors"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	"tableside/internal/common/logger"
	"tableside/internal/domain"
	"tableside/internal/validation"
)

const (
	maxAttempts = 5
	backoffUnit = 800 * time.Millisecond
)

var errMissingOrderID = errors.New("response lacks an order id")

// Submitter places an order against the persistence boundary with a
// bounded retry budget. Validation failures are rejected locally
// before any network call; transient failures are retried with a
// linearly growing delay (attempt number x 800ms); the error from the
// final attempt is surfaced as an OrderPlacementError.
type Submitter struct {
	gw       Gateway
	validate *validatorv10.Validate
	lg       *logger.Logger

	// sleep is swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSubmitter(gw Gateway, v *validatorv10.Validate, lg *logger.Logger) *Submitter {
	return &Submitter{gw: gw, validate: v, lg: lg, sleep: sleepCtx}
}

// Place validates and submits the order, returning the created record.
// The cart itself is the caller's to clear on success.
func (s *Submitter) Place(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, error) {
	if err := validation.Check(s.validate, req); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		order, err := s.gw.Submit(ctx, req)
		if err == nil && order.ID == "" {
			err = errMissingOrderID
		}
		if err == nil {
			s.lg.Info("order_placed", map[string]any{"order_id": order.ID, "attempt": attempt})
			return order, nil
		}
		lastErr = err
		s.lg.Error("order_submit_attempt_failed", err, map[string]any{"attempt": attempt})

		if attempt == maxAttempts {
			break
		}
		if err := s.sleep(ctx, time.Duration(attempt)*backoffUnit); err != nil {
			return nil, err
		}
	}
	return nil, &domain.OrderPlacementError{Attempts: maxAttempts, Err: lastErr}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
