// Package intake turns symptom and temperature submissions into triage
// context and the restatements queued for the conversation.
package intake

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"healthguide/models"
	"healthguide/services/localstore"
	"healthguide/services/remote"
)

const (
	defaultLanguage          = "en"
	temperatureFailedMessage = "Failed to assess temperature"
)

var (
	ErrInvalidReading = errors.New("invalid temperature reading")
	ErrNoSession      = errors.New("no session available")
)

// TemperatureError is a failed assessment. Message is what the user sees.
type TemperatureError struct {
	Message string
	Err     error
}

func (e *TemperatureError) Error() string { return e.Message }
func (e *TemperatureError) Unwrap() error { return e.Err }

type TemperatureAssessor interface {
	AssessTemperature(ctx context.Context, req remote.TemperatureRequest) (*models.TemperatureAssessment, error)
}

type SessionEnsurer interface {
	EnsureSession(ctx context.Context) (string, error)
}

type SymptomSubmission struct {
	Context     models.SymptomContext
	Restatement string
}

type TemperatureSubmission struct {
	State       models.TemperatureState
	Restatement string
}

type Service struct {
	assessor TemperatureAssessor
	sessions SessionEnsurer
	store    *localstore.Store
	logger   *zap.Logger
}

func NewService(assessor TemperatureAssessor, sessions SessionEnsurer, store *localstore.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{assessor: assessor, sessions: sessions, store: store, logger: logger}
}

// SubmitSymptoms snapshots the selection and mirrors the symptom list to the
// local store. It never triggers inference itself.
func (s *Service) SubmitSymptoms(ctx context.Context, sel models.SymptomSelection) SymptomSubmission {
	symptoms := NormalizeSymptoms(sel.Symptoms)
	lang := sel.Language
	if lang == "" {
		lang = defaultLanguage
	}

	var byCategory map[string][]string
	if len(sel.ByCategory) > 0 {
		byCategory = make(map[string][]string, len(sel.ByCategory))
		for k, v := range sel.ByCategory {
			byCategory[k] = append([]string(nil), v...)
		}
	}

	var duration *int
	if sel.DurationDays != nil {
		d := *sel.DurationDays
		duration = &d
	}

	sc := models.SymptomContext{
		Symptoms:          symptoms,
		ByCategory:        byCategory,
		DurationDays:      duration,
		EmergencyDetected: sel.EmergencyDetected,
		TotalSelected:     len(symptoms),
		Language:          lang,
	}

	if err := s.store.SetSymptoms(ctx, symptoms); err != nil {
		s.logger.Warn("failed to mirror symptoms to local store", zap.Error(err))
	}

	return SymptomSubmission{Context: sc, Restatement: SymptomRestatement(symptoms)}
}

// SubmitTemperature assesses a reading. With no live session it ensures one
// first; if that fails the reading is not sent.
func (s *Service) SubmitTemperature(ctx context.Context, sessionID string, reading models.TemperatureReading) (TemperatureSubmission, error) {
	if err := ValidateReading(reading); err != nil {
		return TemperatureSubmission{}, err
	}

	if sessionID == "" {
		id, err := s.sessions.EnsureSession(ctx)
		if err != nil || id == "" {
			return TemperatureSubmission{}, &TemperatureError{
				Message: "Could not start a session. Please try again.",
				Err:     errors.Join(ErrNoSession, err),
			}
		}
		sessionID = id
	}

	assessment, err := s.assessor.AssessTemperature(ctx, remote.NewTemperatureRequest(sessionID, reading))
	if err != nil {
		msg := remote.DetailOf(err)
		if msg == "" {
			msg = temperatureFailedMessage
		}
		s.logger.Warn("temperature assessment failed", zap.String("sessionID", sessionID), zap.Error(err))
		return TemperatureSubmission{}, &TemperatureError{Message: msg, Err: err}
	}

	return TemperatureSubmission{
		State:       models.TemperatureState{Reading: reading, Assessment: assessment},
		Restatement: TemperatureRestatement(reading),
	}, nil
}

func ValidateReading(r models.TemperatureReading) error {
	switch r.Kind {
	case models.ReadingNumeric:
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return fmt.Errorf("%w: value must be a finite number", ErrInvalidReading)
		}
		if r.Unit != models.Celsius && r.Unit != models.Fahrenheit {
			return fmt.Errorf("%w: unit must be C or F", ErrInvalidReading)
		}
	case models.ReadingDescriptive:
		if !r.Level.Valid() {
			return fmt.Errorf("%w: unknown descriptive level %q", ErrInvalidReading, r.Level)
		}
	default:
		return fmt.Errorf("%w: unknown reading type %q", ErrInvalidReading, r.Kind)
	}
	return nil
}

// NormalizeSymptoms trims, lowercases and de-duplicates, keeping first-seen order.
func NormalizeSymptoms(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func SymptomRestatement(symptoms []string) string {
	if len(symptoms) == 0 {
		return ""
	}
	return "I have these symptoms: " + strings.Join(symptoms, ", ") + "."
}

func TemperatureRestatement(r models.TemperatureReading) string {
	if r.Kind == models.ReadingDescriptive {
		return "I feel " + titleWords(strings.ReplaceAll(string(r.Level), "_", " ")) + "."
	}
	return "My temperature is " + strconv.FormatFloat(r.Value, 'f', -1, 64) + "°" + string(r.Unit) + "."
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
