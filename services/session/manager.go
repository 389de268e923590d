// Package session owns the one live session id of a browser session.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"healthguide/services/localstore"
)

// Creator issues session ids remotely.
type Creator interface {
	CreateSession(ctx context.Context) (string, error)
}

type Manager struct {
	creator Creator
	store   *localstore.Store
	logger  *zap.Logger
	now     func() time.Time

	mu          sync.Mutex
	id          string
	degraded    bool
	subscribers []func(id string)

	ready     chan struct{}
	readyOnce sync.Once
}

// NewManager adopts a session id already persisted in store, so a reloaded
// page resumes its session without a new remote call.
func NewManager(ctx context.Context, creator Creator, store *localstore.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		creator: creator,
		store:   store,
		logger:  logger,
		now:     time.Now,
		ready:   make(chan struct{}),
	}
	if id := store.SessionID(ctx); id != "" {
		m.id = id
		m.markReady()
		logger.Debug("resumed persisted session", zap.String("sessionID", id))
	}
	return m
}

// ID returns the live session id, or "" before one exists.
func (m *Manager) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id
}

// Degraded reports whether the live id is a local fallback.
func (m *Manager) Degraded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.degraded
}

// Ready is closed once, when the first session id becomes available.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

// WaitReady blocks until a session exists or ctx is done.
func (m *Manager) WaitReady(ctx context.Context) (string, error) {
	select {
	case <-m.ready:
		return m.ID(), nil
	default:
	}
	select {
	case <-m.ready:
		return m.ID(), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// OnReady registers fn to run with every id the manager records.
func (m *Manager) OnReady(fn func(id string)) {
	m.mu.Lock()
	m.subscribers = append(m.subscribers, fn)
	id := m.id
	m.mu.Unlock()
	if id != "" {
		fn(id)
	}
}

// EnsureSession returns the live id or creates one. A failed remote creation
// falls back to a timestamp id so callers always proceed. Concurrent callers
// may each create a session; the last one recorded wins.
func (m *Manager) EnsureSession(ctx context.Context) (string, error) {
	if id := m.ID(); id != "" {
		return id, nil
	}

	degraded := false
	id, err := m.creator.CreateSession(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("create session: %w", ctx.Err())
		}
		id = m.fallbackID()
		degraded = true
		m.logger.Warn("session creation failed, using local fallback id", zap.String("sessionID", id), zap.Error(err))
	}

	m.record(ctx, id, degraded)
	return id, nil
}

func (m *Manager) fallbackID() string {
	return fmt.Sprintf("session-%d", m.now().UnixMilli())
}

func (m *Manager) record(ctx context.Context, id string, degraded bool) {
	m.mu.Lock()
	m.id = id
	m.degraded = degraded
	subs := append([]func(string){}, m.subscribers...)
	m.mu.Unlock()

	if err := m.store.SetSessionID(ctx, id); err != nil {
		m.logger.Warn("failed to persist session id", zap.String("sessionID", id), zap.Error(err))
	}
	m.markReady()
	for _, fn := range subs {
		fn(id)
	}
}

func (m *Manager) markReady() {
	m.readyOnce.Do(func() { close(m.ready) })
}
