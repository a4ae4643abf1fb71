package link

import (
	"io"
	"sync"
	"time"
)

// MockPort implements Porter in memory for tests and dry runs. Reads are
// served from a scripted queue; writes are recorded.
type MockPort struct {
	mu sync.Mutex

	reads  [][]byte // each element is returned by one Read call
	writes []byte
	closed bool

	// ReadErr, when set, is returned by every Read.
	ReadErr error
	// WriteErr, when set, is returned by every Write.
	WriteErr error
}

// NewMockPort creates an empty mock port.
func NewMockPort() *MockPort {
	return &MockPort{}
}

// QueueRead schedules data to be returned by a future Read call.
func (m *MockPort) QueueRead(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, data)
}

// Read returns the next scripted chunk, or (0, nil) to mimic a serial read
// timeout when the script is exhausted.
func (m *MockPort) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return 0, m.ReadErr
	}
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	if len(m.reads) == 0 {
		return 0, nil
	}
	n := copy(p, m.reads[0])
	if n == len(m.reads[0]) {
		m.reads = m.reads[1:]
	} else {
		m.reads[0] = m.reads[0][n:]
	}
	return n, nil
}

func (m *MockPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	m.writes = append(m.writes, p...)
	return len(p), nil
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetReadTimeout satisfies Porter; the mock does not block, so the timeout
// is a no-op.
func (m *MockPort) SetReadTimeout(time.Duration) error {
	return nil
}

// Writes returns everything written to the port so far.
func (m *MockPort) Writes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.writes))
	copy(out, m.writes)
	return out
}

// Closed reports whether Close was called.
func (m *MockPort) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
