package pipeline

import "fmt"

// GenerationError wraps a failed or timed-out language-model call. It
// is never retried automatically.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("sql generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
