package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// StatusError reports a non-2xx reply from an inference endpoint.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("inference endpoint returned %d: %s", e.Code, e.Body)
}

// Retrier reruns fn after transient failures. The inference API answers 503
// while a model container warms up, so that status waits longer than other
// failures. Both delays grow linearly with the attempt number.
type Retrier struct {
	Attempts         int
	Delay            time.Duration
	UnavailableDelay time.Duration
}

func (r Retrier) Do(ctx context.Context, fn func() error) error {
	attempts := r.Attempts
	if attempts <= 0 {
		attempts = 3
	}
	delay := r.Delay
	if delay <= 0 {
		delay = time.Second
	}
	unavailable := r.UnavailableDelay
	if unavailable <= 0 {
		unavailable = 2 * time.Second
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		wait := delay * time.Duration(attempt)
		var status *StatusError
		if errors.As(err, &status) && status.Code == http.StatusServiceUnavailable {
			wait = unavailable * time.Duration(attempt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	if lastErr == nil {
		lastErr = errors.New("retry failed")
	}
	return lastErr
}
