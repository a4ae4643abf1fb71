package speech

import (
	"context"
	"errors"

	"github.com/chai788/arrow-rover/internal/log"
)

// Chain tries speakers in order until one succeeds. A failed speaker is
// logged and skipped for the phrase; the chain as a whole only errors when
// every speaker fails, and callers treat even that as non-fatal.
type Chain struct {
	speakers []Speaker
}

// NewChain builds a fallback chain. With no speakers the chain is silent.
func NewChain(speakers ...Speaker) *Chain {
	return &Chain{speakers: speakers}
}

func (c *Chain) Speak(ctx context.Context, text string) error {
	if len(c.speakers) == 0 {
		return nil
	}
	var errs []error
	for _, s := range c.speakers {
		err := s.Speak(ctx, text)
		if err == nil {
			return nil
		}
		log.Debug("speaker failed, trying next", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
