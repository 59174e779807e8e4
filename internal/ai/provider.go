package ai

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured means the provider cannot work until its configuration changes.
var ErrNotConfigured = errors.New("provider not configured")

type Provider interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, model string, systemPrompt string, prompt string) (string, error)
}

// StatusError is a non-2xx reply from a provider.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s status %d", e.Provider, e.Code)
}

// Retryable reports whether the same request may succeed later.
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}
