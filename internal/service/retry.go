package service

import (
	"context"
	"log"
	"time"
)

// withRetry runs fn up to attempts times, backing off between tries. It
// stops early when ctx is canceled or when fn reports the error is not
// retryable.
func withRetry(ctx context.Context, attempts int, baseDelay time.Duration, retryable func(error) bool, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if !retryable(err) || i == attempts-1 {
			return err
		}

		delay := baseDelay * time.Duration(1<<i)
		log.Printf("service.withRetry: attempt %d/%d failed, retrying in %s: %v", i+1, attempts, delay, err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
