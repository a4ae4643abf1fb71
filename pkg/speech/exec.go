package speech

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandSpeaker shells out to a local synthesizer binary (espeak, say,
// flite) with the phrase as the final argument. Speak blocks until the
// process exits, which is the synchronous-voice trade-off the control loop
// is built around.
type CommandSpeaker struct {
	command string
	args    []string
}

// NewCommandSpeaker creates a speaker that runs the given command.
func NewCommandSpeaker(command string, args ...string) *CommandSpeaker {
	return &CommandSpeaker{command: command, args: args}
}

// Available reports whether the synthesizer binary can be found.
func (s *CommandSpeaker) Available() bool {
	_, err := exec.LookPath(s.command)
	return err == nil
}

func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	args := append(append([]string(nil), s.args...), text)
	cmd := exec.CommandContext(ctx, s.command, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", s.command, err)
	}
	return nil
}
