package discovery

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"healthguide/models"
)

// PositionSource yields a fresh, high-accuracy device fix.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (models.Coordinates, error)
}

// Fix is what the browser's geolocation call produced: coordinates, or a
// PositionError code (1 denied, 2 unavailable, 3 timeout).
type Fix struct {
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	ErrorCode   int      `json:"error_code,omitempty"`
	Unsupported bool     `json:"unsupported,omitempty"`
}

func (f Fix) Coordinates() (models.Coordinates, error) {
	switch {
	case f.Unsupported:
		return models.Coordinates{}, ErrGeolocationUnsupported
	case f.ErrorCode != 0:
		return models.Coordinates{}, GeolocationCode(f.ErrorCode)
	case !validLatLon(f.Lat, f.Lon):
		return models.Coordinates{}, ErrPositionUnavailable
	}
	return models.Coordinates{Lat: f.Lat, Lon: f.Lon, Accuracy: f.Accuracy, Method: models.MethodGPS}, nil
}

func validLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// CurrentPosition makes a Fix usable where a PositionSource is expected.
func (f Fix) CurrentPosition(ctx context.Context) (models.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return models.Coordinates{}, ErrTimeout
	}
	return f.Coordinates()
}

// Acquire asks src for a position bounded by timeout. A deadline maps to ErrTimeout.
func Acquire(ctx context.Context, src PositionSource, timeout time.Duration) (models.Coordinates, error) {
	if src == nil {
		return models.Coordinates{}, ErrGeolocationUnsupported
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	coords, err := src.CurrentPosition(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return models.Coordinates{}, ErrTimeout
	}
	return coords, err
}

// Mailbox is a PositionSource fed by fixes the browser reports separately.
// Only fixes delivered while a caller is waiting count; earlier ones are
// never reused.
type Mailbox struct {
	mu      sync.Mutex
	waiters map[chan Fix]struct{}
}

func NewMailbox() *Mailbox {
	return &Mailbox{waiters: make(map[chan Fix]struct{})}
}

func (m *Mailbox) CurrentPosition(ctx context.Context) (models.Coordinates, error) {
	ch := make(chan Fix, 1)
	m.mu.Lock()
	m.waiters[ch] = struct{}{}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.waiters, ch)
		m.mu.Unlock()
	}()

	select {
	case f := <-ch:
		return f.Coordinates()
	case <-ctx.Done():
		return models.Coordinates{}, ErrTimeout
	}
}

// Waiting reports whether any caller is blocked on a fix.
func (m *Mailbox) Waiting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters) > 0
}

// Deliver hands f to every waiting caller and reports whether there was one.
func (m *Mailbox) Deliver(f Fix) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.waiters {
		select {
		case ch <- f:
		default:
		}
	}
	return len(m.waiters) > 0
}
