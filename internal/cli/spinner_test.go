package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndErases(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Rendering svg")
	time.Sleep(3 * spinnerInterval)
	elapsed := s.stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering svg") {
		t.Errorf("output %q missing label", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line not erased: %q", out)
	}
	if elapsed < 3*spinnerInterval {
		t.Errorf("elapsed = %v", elapsed)
	}
	if s.interrupted() {
		t.Error("stop must not count as an interruption")
	}
}

func TestSpinnerStopBeforeFirstFrame(t *testing.T) {
	var buf bytes.Buffer
	startSpinner(context.Background(), &buf, "Rendering png").stop()
	if buf.Len() != 0 {
		t.Errorf("output = %q, want nothing", buf.String())
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := startSpinner(context.Background(), &bytes.Buffer{}, "x")
	s.stop()
	done := make(chan struct{})
	go func() {
		s.stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second stop blocked")
	}
}

func TestSpinnerFollowsParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, &bytes.Buffer{}, "x")
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner kept running after cancellation")
	}
	if !s.interrupted() {
		t.Error("interrupted() = false after parent cancellation")
	}
	s.stop()
}
