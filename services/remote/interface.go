package remote

import (
	"context"

	"healthguide/models"
)

// API is the set of remote triage services the assistant consumes.
type API interface {
	CreateSession(ctx context.Context) (string, error)
	AssessTemperature(ctx context.Context, req TemperatureRequest) (*models.TemperatureAssessment, error)
	DetectDisease(ctx context.Context, req DiseaseRequest) (*models.DiseaseDetection, error)
	Triage(ctx context.Context, req TriageRequest) (*TriageResponse, error)
	SmartFind(ctx context.Context, req SmartFindRequest) (*SmartFindResponse, error)
	Nearby(ctx context.Context, req NearbyRequest) ([]models.Provider, error)
	Chat(ctx context.Context, message string) (string, error)

	CreateReminder(ctx context.Context, req models.ReminderRequest) (*models.MedicationReminder, error)
	ListReminders(ctx context.Context, sessionID string) ([]models.MedicationReminder, error)
	StopReminder(ctx context.Context, reminderID int64) error
	FrequencyOptions(ctx context.Context) ([]models.FrequencyOption, error)

	Ping(ctx context.Context) error
}
