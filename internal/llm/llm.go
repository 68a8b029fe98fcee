// Package llm defines the backend-neutral contract for hosted language model
// calls and the errors every backend reports.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Completer sends a single user turn to a hosted model and returns the text of
// the first reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteWithImage sends prompt together with an image given as a
	// data URL.
	CompleteWithImage(ctx context.Context, prompt, imageDataURL string) (string, error)
}

// UpstreamError reports a failed call to the model provider: a transport
// error, a timeout, or a non-success HTTP status.
type UpstreamError struct {
	// StatusCode is the provider's HTTP status, or 0 when no response was
	// received.
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError reports a model reply that could not be decoded into the
// expected shape.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model reply: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsUpstream reports whether err is or wraps an *UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsParse reports whether err is or wraps a *ParseError.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
