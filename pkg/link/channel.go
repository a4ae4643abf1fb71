package link

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/chai788/arrow-rover/internal/log"
	"github.com/chai788/arrow-rover/pkg/drive"
)

// probeWait bounds how long Probe waits for the firmware to answer the
// liveness byte before the link is declared dead.
const probeWait = 500 * time.Millisecond

// Channel is the command side of the serial link. Send is fire-and-forget:
// it blocks only for the underlying write, and a missing acknowledgement is
// never a send failure.
type Channel struct {
	port Porter
}

// NewChannel wraps an open port.
func NewChannel(port Porter) *Channel {
	return &Channel{port: port}
}

// Send writes the command's single byte.
func (c *Channel) Send(cmd drive.Command) error {
	n, err := c.port.Write([]byte{cmd.Byte()})
	if err != nil {
		return fmt.Errorf("send %s: %w", cmd, err)
	}
	if n != 1 {
		return fmt.Errorf("send %s: short write", cmd)
	}
	return nil
}

// Probe validates the link: it writes the probe byte and reports whether
// any non-empty line came back within the bounded wait. Used once at
// startup before the control loop is allowed to run.
func (c *Channel) Probe() bool {
	if err := c.Send(drive.Probe); err != nil {
		log.Warn("probe write failed", "error", err)
		return false
	}
	reply, ok := c.TryReadAck(probeWait)
	if ok {
		log.Debug("probe reply", "line", reply)
	}
	return ok
}

// TryReadAck reads one newline-terminated line from the port, best-effort.
// It returns ok=false on timeout, read error, or an empty line; callers use
// the line for diagnostics only.
func (c *Channel) TryReadAck(timeout time.Duration) (string, bool) {
	if err := c.port.SetReadTimeout(timeout); err != nil {
		return "", false
	}

	deadline := time.Now().Add(timeout)
	buf := make([]byte, 64)
	var line []byte
	for {
		n, err := c.port.Read(buf)
		if err != nil {
			break
		}
		if n == 0 {
			// go.bug.st/serial signals a read timeout as (0, nil).
			break
		}
		line = append(line, buf[:n]...)
		if bytes.IndexByte(line, '\n') >= 0 {
			break
		}
		if !time.Now().Before(deadline) {
			break
		}
	}

	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	s := strings.TrimSpace(string(line))
	return s, s != ""
}

// Close closes the underlying port.
func (c *Channel) Close() error {
	return c.port.Close()
}
