package orchestrator

import (
	"context"

	"healthguide/models"
)

func (o *Orchestrator) CreateReminder(ctx context.Context, req models.ReminderRequest) (*models.MedicationReminder, error) {
	return o.medication.Create(ctx, o.sessions.ID(), req)
}

func (o *Orchestrator) ListReminders(ctx context.Context) ([]models.MedicationReminder, error) {
	return o.medication.List(ctx, o.sessions.ID())
}

func (o *Orchestrator) StopReminder(ctx context.Context, id int64) error {
	return o.medication.Stop(ctx, id)
}

func (o *Orchestrator) FrequencyOptions(ctx context.Context) []models.FrequencyOption {
	return o.medication.FrequencyOptions(ctx)
}
