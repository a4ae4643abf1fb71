package speech

import (
	"context"
	"errors"
	"testing"
)

func TestChain_FirstSpeakerWins(t *testing.T) {
	first := &Mock{}
	second := &Mock{}
	chain := NewChain(first, second)

	if err := chain.Speak(context.Background(), "Moving left"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if got := first.Spoken(); len(got) != 1 || got[0] != "Moving left" {
		t.Errorf("first speaker spoke %v, want [Moving left]", got)
	}
	if got := second.Spoken(); len(got) != 0 {
		t.Errorf("second speaker spoke %v, want nothing", got)
	}
}

func TestChain_FallsBackOnFailure(t *testing.T) {
	broken := &Mock{SpeakFunc: func(context.Context, string) error {
		return errors.New("no audio device")
	}}
	backup := &Mock{}
	chain := NewChain(broken, backup)

	if err := chain.Speak(context.Background(), "Stopping"); err != nil {
		t.Fatalf("Speak: %v", err)
	}
	if got := backup.Spoken(); len(got) != 1 || got[0] != "Stopping" {
		t.Errorf("backup spoke %v, want [Stopping]", got)
	}
}

func TestChain_AllFail(t *testing.T) {
	fail := func(context.Context, string) error { return errors.New("broken") }
	chain := NewChain(&Mock{SpeakFunc: fail}, &Mock{SpeakFunc: fail})

	if err := chain.Speak(context.Background(), "hello"); err == nil {
		t.Error("expected an error when every speaker fails")
	}
}

func TestChain_Empty(t *testing.T) {
	if err := NewChain().Speak(context.Background(), "hello"); err != nil {
		t.Errorf("an empty chain should be silent, got %v", err)
	}
}

func TestNop(t *testing.T) {
	if err := (Nop{}).Speak(context.Background(), "anything"); err != nil {
		t.Errorf("Nop.Speak: %v", err)
	}
}
