package localstore

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

// Keys shared between components. Values are plain text; symptoms are a JSON array.
const (
	KeySessionID   = "healthguide_session_id"
	KeyTriageLevel = "healthguide_triage_level"
	KeySymptoms    = "healthguide_symptoms"
)

// Store is one browser session's view of the backend. Writers do not
// coordinate: the last write wins.
type Store struct {
	backend   Backend
	namespace string
	logger    *zap.Logger
}

// New scopes backend to a single browser session.
func New(backend Backend, clientID string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, namespace: clientID + ":", logger: logger}
}

func (s *Store) key(k string) string {
	return s.namespace + k
}

// getString returns "" for absent keys and logs backend failures.
func (s *Store) getString(ctx context.Context, k string) string {
	val, err := s.backend.Get(ctx, s.key(k))
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("local store read failed", zap.String("key", k), zap.Error(err))
		}
		return ""
	}
	return val
}

// SessionID returns the persisted session id, or "".
func (s *Store) SessionID(ctx context.Context) string {
	return s.getString(ctx, KeySessionID)
}

func (s *Store) SetSessionID(ctx context.Context, id string) error {
	return s.backend.Set(ctx, s.key(KeySessionID), id)
}

// TriageLevel returns the last mirrored triage level, or "".
func (s *Store) TriageLevel(ctx context.Context) string {
	return s.getString(ctx, KeyTriageLevel)
}

func (s *Store) SetTriageLevel(ctx context.Context, level string) error {
	return s.backend.Set(ctx, s.key(KeyTriageLevel), level)
}

// Symptoms returns the last submitted symptom list. Missing or unparsable
// data yields an empty slice.
func (s *Store) Symptoms(ctx context.Context) []string {
	raw := s.getString(ctx, KeySymptoms)
	if raw == "" {
		return []string{}
	}
	var symptoms []string
	if err := json.Unmarshal([]byte(raw), &symptoms); err != nil {
		s.logger.Warn("discarding malformed symptom list", zap.Error(err))
		return []string{}
	}
	if symptoms == nil {
		return []string{}
	}
	return symptoms
}

func (s *Store) SetSymptoms(ctx context.Context, symptoms []string) error {
	if symptoms == nil {
		symptoms = []string{}
	}
	b, err := json.Marshal(symptoms)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, s.key(KeySymptoms), string(b))
}

// Clear removes every key of this browser session.
func (s *Store) Clear(ctx context.Context) error {
	return s.backend.Delete(ctx, s.key(KeySessionID), s.key(KeyTriageLevel), s.key(KeySymptoms))
}
