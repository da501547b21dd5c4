// Package session reads the session context Claude Code pipes to the status line.
package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/j-veylop/glm-statusline/internal/models"
)

// DefaultTimeout bounds how long Read waits for stdin.
const DefaultTimeout = 500 * time.Millisecond

// maxInput caps the session document size.
const maxInput = 1 << 20

var (
	// ErrNoInput means the reader produced no data.
	ErrNoInput = errors.New("no session input")
	// ErrTimeout means the reader did not finish in time.
	ErrTimeout = errors.New("timed out reading session input")
)

type readResult struct {
	err  error
	data []byte
}

// Read decodes one session document from r, giving up after timeout.
// The read keeps running in the background after a timeout; r is expected to be
// stdin of a short-lived process.
func Read(r io.Reader, timeout time.Duration) (*models.Session, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(io.LimitReader(r, maxInput))
		done <- readResult{data: data, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("failed to read session input: %w", res.err)
		}
		return Parse(res.data)
	case <-timer.C:
		return nil, ErrTimeout
	}
}

// Parse decodes a session document.
func Parse(data []byte) (*models.Session, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoInput
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session input: %w", err)
	}
	return &s, nil
}
