package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerRendersMessage(t *testing.T) {
	var buf syncBuffer
	s := newSpinnerTo(context.Background(), &buf, "Connecting")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop()

	if !strings.Contains(buf.String(), "Connecting") {
		t.Errorf("output %q does not contain message", buf.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var buf syncBuffer
	s := newSpinnerTo(ctx, &buf, "Waiting")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancel")
	}
	s.Stop()
}

func TestWithSpinnerReturnsError(t *testing.T) {
	want := errors.New("boom")
	if err := withSpinner(context.Background(), "Working", func() error { return want }); err != want {
		t.Errorf("withSpinner() = %v, want %v", err, want)
	}
}
