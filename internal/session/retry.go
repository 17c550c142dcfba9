package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/qepting91/linkedin-analyzer/internal/domain"
)

// RetryPolicy bounds the login retries. It parameterizes only the
// Timeout case: InvalidCredentials and ChallengeRequired are surfaced
// verbatim on the first attempt.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy retries a timed-out login once with a fresh handle.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 2, Backoff: 5 * time.Second}

// Open opens a session under the policy. Each attempt gets a fresh
// browser; a failed attempt's browser is already torn down by Open.
func (p RetryPolicy) Open(ctx context.Context, cfg domain.ScrapeConfig, creds domain.Credentials, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		s, err := Open(ctx, cfg, creds, logger)
		if err == nil {
			return s, nil
		}
		lastErr = err

		var authErr *AuthError
		if !errors.As(err, &authErr) || authErr.Kind != Timeout {
			return nil, err
		}
		if attempt == attempts {
			break
		}

		logger.Warn("login timed out, retrying with a fresh handle",
			"attempt", attempt, "max_attempts", attempts)
		if err := sleep(ctx, p.Backoff); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}
