// Package medication manages session-scoped medication reminders held by
// the remote service.
package medication

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"healthguide/models"
)

const (
	defaultDurationDays = 3
	minDurationDays     = 1
	maxDurationDays     = 30
)

var (
	ErrNoSession        = errors.New("medication reminders need a session")
	ErrMissingName      = errors.New("medication name is required")
	ErrMissingDosage    = errors.New("dosage is required")
	ErrInvalidDuration  = fmt.Errorf("duration must be between %d and %d days", minDurationDays, maxDurationDays)
	ErrInvalidFrequency = errors.New("unknown frequency")
)

type API interface {
	CreateReminder(ctx context.Context, req models.ReminderRequest) (*models.MedicationReminder, error)
	ListReminders(ctx context.Context, sessionID string) ([]models.MedicationReminder, error)
	StopReminder(ctx context.Context, reminderID int64) error
	FrequencyOptions(ctx context.Context) ([]models.FrequencyOption, error)
}

func hours(h int) *int { return &h }

// DefaultFrequencyOptions is served when the remote list is unavailable.
var DefaultFrequencyOptions = []models.FrequencyOption{
	{Value: models.FrequencyOnce, Label: "Once", TimesPerDay: 1},
	{Value: models.FrequencyDaily, Label: "Once daily", TimesPerDay: 1, IntervalHours: hours(24)},
	{Value: models.FrequencyTwiceDaily, Label: "Twice daily", TimesPerDay: 2, IntervalHours: hours(12)},
	{Value: models.FrequencyThriceDaily, Label: "Three times daily", TimesPerDay: 3, IntervalHours: hours(8)},
	{Value: models.FrequencyFourDaily, Label: "Four times daily", TimesPerDay: 4, IntervalHours: hours(6)},
	{Value: models.FrequencyEvery6Hours, Label: "Every 6 hours", TimesPerDay: 4, IntervalHours: hours(6)},
	{Value: models.FrequencyEvery8Hours, Label: "Every 8 hours", TimesPerDay: 3, IntervalHours: hours(8)},
	{Value: models.FrequencyEvery12Hours, Label: "Every 12 hours", TimesPerDay: 2, IntervalHours: hours(12)},
}

func knownFrequency(f models.MedicationFrequency) bool {
	for _, o := range DefaultFrequencyOptions {
		if o.Value == f {
			return true
		}
	}
	return false
}

type Service struct {
	api    API
	logger *zap.Logger
}

func NewService(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// Normalize fills defaults and validates a reminder request.
func Normalize(sessionID string, req models.ReminderRequest) (models.ReminderRequest, error) {
	if sessionID == "" {
		return req, ErrNoSession
	}
	req.SessionID = sessionID
	req.MedicationName = strings.TrimSpace(req.MedicationName)
	req.Dosage = strings.TrimSpace(req.Dosage)
	req.Notes = strings.TrimSpace(req.Notes)

	if req.MedicationName == "" {
		return req, ErrMissingName
	}
	if req.Dosage == "" {
		return req, ErrMissingDosage
	}
	if req.Frequency == "" {
		req.Frequency = models.FrequencyDaily
	}
	if !knownFrequency(req.Frequency) {
		return req, fmt.Errorf("%w: %q", ErrInvalidFrequency, req.Frequency)
	}
	if req.DurationDays == 0 {
		req.DurationDays = defaultDurationDays
	}
	if req.DurationDays < minDurationDays || req.DurationDays > maxDurationDays {
		return req, ErrInvalidDuration
	}
	return req, nil
}

func (s *Service) Create(ctx context.Context, sessionID string, req models.ReminderRequest) (*models.MedicationReminder, error) {
	req, err := Normalize(sessionID, req)
	if err != nil {
		return nil, err
	}
	reminder, err := s.api.CreateReminder(ctx, req)
	if err != nil {
		s.logger.Warn("failed to create medication reminder", zap.String("sessionID", sessionID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("medication reminder created", zap.String("sessionID", sessionID), zap.Int64("reminderID", reminder.ID))
	return reminder, nil
}

func (s *Service) List(ctx context.Context, sessionID string) ([]models.MedicationReminder, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	return s.api.ListReminders(ctx, sessionID)
}

func (s *Service) Stop(ctx context.Context, reminderID int64) error {
	if err := s.api.StopReminder(ctx, reminderID); err != nil {
		s.logger.Warn("failed to stop medication reminder", zap.Int64("reminderID", reminderID), zap.Error(err))
		return err
	}
	return nil
}

// FrequencyOptions prefers the remote list and falls back to the built-in one.
func (s *Service) FrequencyOptions(ctx context.Context) []models.FrequencyOption {
	opts, err := s.api.FrequencyOptions(ctx)
	if err != nil || len(opts) == 0 {
		if err != nil {
			s.logger.Debug("using built-in frequency options", zap.Error(err))
		}
		return DefaultFrequencyOptions
	}
	return opts
}
