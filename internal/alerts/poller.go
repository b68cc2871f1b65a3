package alerts

import (
	"context"
	"log"
	"sync"
	"time"
)

// Poller refreshes a feed on a fixed interval while the owning session is
// alive. Start is idempotent.
type Poller struct {
	feed     *Feed
	interval time.Duration

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
}

func NewPoller(feed *Feed, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Poller{feed: feed, interval: interval}
}

// Start begins polling. A second Start while running is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	go p.loop(ctx)
}

// Stop cancels the polling loop.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.cancel()
	p.started = false
}

func (p *Poller) loop(ctx context.Context) {
	if err := p.feed.Load(ctx); err != nil {
		log.Printf("alerts: initial load: %v", err)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := p.feed.Load(ctx); err != nil {
				log.Printf("alerts: refresh: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
