package orchestrator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Factory builds the orchestrator for a new browser session.
type Factory func(ctx context.Context, clientID string) *Orchestrator

type entry struct {
	orch     *Orchestrator
	lastSeen time.Time
}

// Registry maps browser-session ids to orchestrators and evicts idle ones.
type Registry struct {
	factory Factory
	idleTTL time.Duration
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewRegistry(factory Factory, idleTTL time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Registry{
		factory: factory,
		idleTTL: idleTTL,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Get returns the orchestrator for clientID, creating it on first use. The
// factory runs outside the lock; if two requests race, the loser is closed.
func (r *Registry) Get(ctx context.Context, clientID string) *Orchestrator {
	if o := r.lookup(clientID); o != nil {
		return o
	}

	built := r.factory(ctx, clientID)

	r.mu.Lock()
	if e, ok := r.entries[clientID]; ok {
		e.lastSeen = r.now()
		r.mu.Unlock()
		built.Close()
		return e.orch
	}
	r.entries[clientID] = &entry{orch: built, lastSeen: r.now()}
	r.mu.Unlock()

	r.logger.Debug("orchestrator created", zap.String("clientID", clientID))
	return built
}

func (r *Registry) lookup(clientID string) *Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[clientID]; ok {
		e.lastSeen = r.now()
		return e.orch
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep closes orchestrators idle longer than the TTL and returns how many
// were evicted.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.idleTTL)
	var idle []*Orchestrator

	r.mu.Lock()
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			idle = append(idle, e.orch)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, o := range idle {
		o.Close()
	}
	if len(idle) > 0 {
		r.logger.Info("evicted idle orchestrators", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close shuts every orchestrator down.
func (r *Registry) Close() {
	r.mu.Lock()
	all := make([]*Orchestrator, 0, len(r.entries))
	for id, e := range r.entries {
		all = append(all, e.orch)
		delete(r.entries, id)
	}
	r.mu.Unlock()

	for _, o := range all {
		o.Close()
	}
}
