package httputil

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces calls at least Interval apart. The game service rejects
// turns sent faster than its tick, so the play loop waits on a Pacer
// before every request.
type Pacer struct {
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewPacer returns a Pacer with the given minimum spacing.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{Interval: interval, now: time.Now}
}

// Wait blocks until Interval has passed since the previous Wait returned.
// The first call returns immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.now == nil {
		p.now = time.Now
	}
	if !p.last.IsZero() {
		if remaining := p.Interval - p.now().Sub(p.last); remaining > 0 {
			if err := Sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	p.last = p.now()
	return nil
}
