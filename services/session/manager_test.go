package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthguide/services/localstore"
)

type fakeCreator struct {
	mu    sync.Mutex
	ids   []string
	err   error
	calls int
}

func (f *fakeCreator) CreateSession(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	id := f.ids[0]
	f.ids = f.ids[1:]
	return id, nil
}

func newStore(t *testing.T) *localstore.Store {
	t.Helper()
	backend, err := localstore.NewBackend(localstore.StoreTypeMemory)
	require.NoError(t, err)
	return localstore.New(backend, "client-1", nil)
}

func TestEnsureSession_CreatesOnceAndPersists(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	creator := &fakeCreator{ids: []string{"remote-1"}}
	m := NewManager(ctx, creator, store, nil)

	select {
	case <-m.Ready():
		t.Fatal("ready before any session exists")
	default:
	}

	id, err := m.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "remote-1", id)
	assert.False(t, m.Degraded())
	assert.Equal(t, "remote-1", store.SessionID(ctx))

	again, err := m.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "remote-1", again)
	assert.Equal(t, 1, creator.calls)

	select {
	case <-m.Ready():
	default:
		t.Fatal("ready future not resolved")
	}
}

func TestEnsureSession_FallsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	m := NewManager(ctx, &fakeCreator{err: errors.New("boom")}, store, nil)
	m.now = func() time.Time { return time.UnixMilli(1700000000123) }

	id, err := m.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "session-1700000000123", id)
	assert.True(t, m.Degraded())
	assert.Equal(t, id, store.SessionID(ctx))
}

func TestEnsureSession_TwoFailingCallSitesBothGetAnID(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	creator := &fakeCreator{err: errors.New("unavailable")}

	// Two independent call sites sharing the store, e.g. the chat and the
	// temperature form.
	first := NewManager(ctx, creator, store, nil)
	second := NewManager(ctx, creator, store, nil)

	a, err := first.EnsureSession(ctx)
	require.NoError(t, err)
	b, err := second.EnsureSession(ctx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a, "session-"))
	assert.True(t, strings.HasPrefix(b, "session-"))
	assert.NotEmpty(t, store.SessionID(ctx))
}

func TestEnsureSession_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewManager(context.Background(), &fakeCreator{err: context.Canceled}, newStore(t), nil)

	_, err := m.EnsureSession(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.ID())
}

func TestNewManager_ResumesPersistedSession(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.SetSessionID(ctx, "persisted"))
	creator := &fakeCreator{}

	m := NewManager(ctx, creator, store, nil)
	id, err := m.WaitReady(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", id)

	id, err = m.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", id)
	assert.Zero(t, creator.calls)
}

func TestWaitReady_Timeout(t *testing.T) {
	m := NewManager(context.Background(), &fakeCreator{}, newStore(t), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := m.WaitReady(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitReady_ResolvesAfterCreation(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, &fakeCreator{ids: []string{"late"}}, newStore(t), nil)

	done := make(chan string, 1)
	go func() {
		id, _ := m.WaitReady(ctx)
		done <- id
	}()

	_, err := m.EnsureSession(ctx)
	require.NoError(t, err)
	select {
	case id := <-done:
		assert.Equal(t, "late", id)
	case <-time.After(time.Second):
		t.Fatal("waiter not released")
	}
}

func TestOnReady_NotifiesSubscribers(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, &fakeCreator{ids: []string{"s-1"}}, newStore(t), nil)

	var got []string
	m.OnReady(func(id string) { got = append(got, id) })
	_, err := m.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, got)

	var late []string
	m.OnReady(func(id string) { late = append(late, id) })
	assert.Equal(t, []string{"s-1"}, late)
}
