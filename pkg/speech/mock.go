package speech

import (
	"context"
	"sync"
)

// Mock implements Speaker for tests. Behavior is customizable via the
// function field; every call is recorded.
type Mock struct {
	// SpeakFunc is invoked by Speak. Nil means succeed silently.
	SpeakFunc func(ctx context.Context, text string) error

	mu     sync.Mutex
	spoken []string
}

func (m *Mock) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	m.spoken = append(m.spoken, text)
	m.mu.Unlock()
	if m.SpeakFunc != nil {
		return m.SpeakFunc(ctx, text)
	}
	return nil
}

// Spoken returns the phrases spoken so far.
func (m *Mock) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.spoken))
	copy(out, m.spoken)
	return out
}
