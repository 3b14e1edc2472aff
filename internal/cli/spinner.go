package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinInterval = 80 * time.Millisecond

// batchProgress animates a single status line while `generate --count`
// works through its seeds, for example "⠹ generating 4/10 · seed 13".
// advance may be called from any goroutine. The animation ends on stop or
// when ctx is canceled.
type batchProgress struct {
	w     io.Writer
	label string
	total int

	done atomic.Int64
	last atomic.Uint64

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int
}

func newBatchProgress(parent context.Context, w io.Writer, label string, total int) *batchProgress {
	ctx, cancel := context.WithCancel(parent)
	return &batchProgress{
		w:       w,
		label:   label,
		total:   total,
		parent:  parent,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

func (p *batchProgress) start() {
	p.running = true
	go func() {
		defer close(p.stopped)
		ticker := time.NewTicker(spinInterval)
		defer ticker.Stop()
		for frame := 0; ; frame++ {
			select {
			case <-p.ctx.Done():
				p.clear()
				return
			case <-ticker.C:
				p.draw(frame)
			}
		}
	}()
}

// advance records one finished seed.
func (p *batchProgress) advance(seed uint64) {
	p.last.Store(seed)
	p.done.Add(1)
}

func (p *batchProgress) line(frame int) string {
	done := p.done.Load()
	s := fmt.Sprintf("%s %d/%d", p.label, done, p.total)
	if done > 0 {
		s += fmt.Sprintf(" · seed %d", p.last.Load())
	}
	return styleSpinner.Render(spinFrames[frame%len(spinFrames)]) + " " + StyleDim.Render(s)
}

func (p *batchProgress) draw(frame int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.line(frame)
	fmt.Fprint(p.w, "\r"+s)
	p.width = max(p.width, len(s))
}

func (p *batchProgress) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.width > 0 {
		fmt.Fprint(p.w, "\r"+strings.Repeat(" ", p.width)+"\r")
	}
}

// stop ends the animation and clears the status line. It is safe to call
// more than once, and without start.
func (p *batchProgress) stop() {
	p.once.Do(func() {
		p.cancel()
		if p.running {
			<-p.stopped
		}
		p.clear()
	})
}

// canceled reports whether the parent context ended the animation.
func (p *batchProgress) canceled() bool {
	return p.parent.Err() != nil
}
