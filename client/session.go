package client

import (
	"context"
	"fmt"
	"sync"
)

// Session serializes access to a stateful inference engine. The engine
// keeps conversational context between calls, so documents for one
// application must be described one at a time, with a context reset
// before each call; concurrent calls or skipped resets produce corrupted,
// cross-contaminated extractions.
type Session struct {
	mu     sync.Mutex
	engine InferenceEngine
}

// NewSession wraps an engine in a sequential session.
func NewSession(engine InferenceEngine) *Session {
	return &Session{engine: engine}
}

// Describe resets the engine's context and then runs one inference call.
// Calls are strictly sequential; a second caller blocks until the first
// completes.
func (s *Session) Describe(ctx context.Context, image []byte, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Reset(ctx); err != nil {
		return "", fmt.Errorf("failed to reset inference context: %w", err)
	}
	return s.engine.Infer(ctx, image, prompt)
}
