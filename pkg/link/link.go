// Package link drives the rover's motor controller over a byte-oriented
// serial connection. Commands are single ASCII bytes with no framing;
// responses, when the firmware sends any, are newline-terminated text and
// are read opportunistically, never required for correctness.
package link

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Porter is the minimal serial-port surface the channel needs. The
// abstraction exists so the channel can be exercised against an in-memory
// port; go.bug.st/serial ports satisfy it directly.
type Porter interface {
	io.ReadWriter
	io.Closer
	SetReadTimeout(t time.Duration) error
}

// ListPorts enumerates the serial ports available on this machine.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("enumerate serial ports: %w", err)
	}
	return ports, nil
}

// Open opens a serial port in the 8N1 framing the motor controller expects.
func Open(name string, baud int) (Porter, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return port, nil
}
