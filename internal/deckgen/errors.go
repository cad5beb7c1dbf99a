package deckgen

import "fmt"

// GenerationError is a fatal generation failure the caller must surface
// to the user. Per-card and per-source problems never produce one; they
// degrade to skips and heuristic fallbacks instead.
type GenerationError struct {
	Reason string
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return fmt.Sprintf("deck generation failed: %s", e.Reason)
}

func generationErrorf(format string, args ...interface{}) *GenerationError {
	return &GenerationError{Reason: fmt.Sprintf(format, args...)}
}
