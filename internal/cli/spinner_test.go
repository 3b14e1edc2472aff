package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// lockedBuffer is a bytes.Buffer safe for the spinner goroutine and the
// test to share.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestBatchProgressLine(t *testing.T) {
	p := newBatchProgress(context.Background(), &bytes.Buffer{}, "generating", 3)
	if line := p.line(0); !strings.Contains(line, "generating 0/3") || strings.Contains(line, "seed") {
		t.Errorf("initial line = %q", line)
	}

	p.advance(10)
	p.advance(12)
	line := p.line(1)
	for _, want := range []string{"generating 2/3", "seed 12", spinFrames[1]} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestBatchProgressConcurrentAdvance(t *testing.T) {
	p := newBatchProgress(context.Background(), &bytes.Buffer{}, "generating", 64)
	var wg sync.WaitGroup
	for i := range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.advance(uint64(i))
		}()
	}
	wg.Wait()
	if !strings.Contains(p.line(0), "64/64") {
		t.Errorf("line = %q", p.line(0))
	}
}

func TestBatchProgressAnimatesAndClears(t *testing.T) {
	var out lockedBuffer
	p := newBatchProgress(context.Background(), &out, "generating", 2)
	p.start()
	p.advance(7)

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "1/2") && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	p.stop()
	p.stop()

	got := out.String()
	if !strings.Contains(got, "generating 1/2 · seed 7") {
		t.Fatalf("progress never drawn: %q", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Errorf("line not cleared: %q", got)
	}
	if p.canceled() {
		t.Error("stop reported as cancellation")
	}
}

func TestBatchProgressStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := newBatchProgress(ctx, &lockedBuffer{}, "generating", 5)
	p.start()
	cancel()

	select {
	case <-p.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("animation still running after cancel")
	}
	if !p.canceled() {
		t.Error("cancellation not reported")
	}
	p.stop()
}

func TestBatchProgressStopWithoutStart(t *testing.T) {
	var out bytes.Buffer
	p := newBatchProgress(context.Background(), &out, "generating", 1)
	p.stop()
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}
