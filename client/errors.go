package client

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bilikit/bilikit/credential"
)

// Error is a non-zero status code inside a successful HTTP response, carrying
// whatever code and message the remote API reported.
type Error struct {
	Op      string
	Code    int64
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: api code %d: %s", e.Op, e.Code, e.Message)
}

var ErrMaxRetryAttempts = errors.New("max retry attempts reached")

// RetryCaller wraps a client with exponential backoff for transport-level
// failures. Remote API errors are returned immediately since the server has
// already answered.
type RetryCaller struct {
	Client       *Client
	MaxAttempts  int
	ExponentBase float64
	StartDelay   time.Duration
	MaxDelay     time.Duration
}

func (r *RetryCaller) Call(key string, p Params, cred *credential.Credential) ([]byte, error) {
	var lastErr error

	for i := 0; i < r.MaxAttempts; i++ {
		data, err := r.Client.Call(key, p, cred)
		if err == nil {
			return data, nil
		}

		var apiErr *Error
		if errors.As(err, &apiErr) {
			return nil, err
		}
		lastErr = err

		if i == r.MaxAttempts-1 {
			break
		}

		delay := time.Duration(math.Pow(r.ExponentBase, float64(i))) * r.StartDelay
		if delay > r.MaxDelay {
			delay = r.MaxDelay
		}
		time.Sleep(delay)
	}

	return nil, errors.Join(lastErr, ErrMaxRetryAttempts)
}
