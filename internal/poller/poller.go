// Package poller periodically refreshes the firewall snapshot and
// holds the latest result for the API.
package poller

import (
	"context"
	"sync"
	"time"

	"grimm.is/fwlens/internal/firewall"
	"grimm.is/fwlens/internal/logging"
)

// Store holds the most recent snapshot. Writers replace the snapshot
// wholesale: if two refreshes are in flight, whichever completes last
// wins, with no sequencing between them.
type Store struct {
	mu   sync.RWMutex
	snap *firewall.Snapshot
}

// Set replaces the current snapshot.
func (s *Store) Set(snap *firewall.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// Get returns the current snapshot, or nil before the first refresh.
func (s *Store) Get() *firewall.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Poller drives the engine on a fixed interval.
type Poller struct {
	engine   *firewall.Engine
	store    *Store
	logger   *logging.Logger
	interval time.Duration
	timeout  time.Duration
}

// New creates a Poller. Each refresh runs under a timeout derived
// from the interval so a hung tool cannot stall the loop; the
// previous snapshot stays in place when that happens.
func New(engine *firewall.Engine, store *Store, logger *logging.Logger, interval time.Duration) *Poller {
	timeout := interval
	if timeout > 30*time.Second {
		timeout = 30 * time.Second
	}
	return &Poller{
		engine:   engine,
		store:    store,
		logger:   logger.WithComponent("poller"),
		interval: interval,
		timeout:  timeout,
	}
}

// Run refreshes immediately, then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poller stopping")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// Refresh runs one refresh outside the loop, for the API's manual
// refresh endpoint.
func (p *Poller) Refresh(ctx context.Context) *firewall.Snapshot {
	return p.refresh(ctx)
}

func (p *Poller) refresh(ctx context.Context) *firewall.Snapshot {
	refreshCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	snap := p.engine.Refresh(refreshCtx)
	p.store.Set(snap)
	return snap
}
