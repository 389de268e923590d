package models

type MedicationFrequency string

const (
	FrequencyOnce         MedicationFrequency = "once"
	FrequencyDaily        MedicationFrequency = "daily"
	FrequencyTwiceDaily   MedicationFrequency = "2x_daily"
	FrequencyThriceDaily  MedicationFrequency = "3x_daily"
	FrequencyFourDaily    MedicationFrequency = "4x_daily"
	FrequencyEvery6Hours  MedicationFrequency = "every_6_hours"
	FrequencyEvery8Hours  MedicationFrequency = "every_8_hours"
	FrequencyEvery12Hours MedicationFrequency = "every_12_hours"
)

// ReminderRequest creates a reminder for the current session.
type ReminderRequest struct {
	SessionID      string              `json:"session_id"`
	MedicationName string              `json:"medication_name"`
	Dosage         string              `json:"dosage"`
	Frequency      MedicationFrequency `json:"frequency"`
	DurationDays   int                 `json:"duration_days"`
	Notes          string              `json:"notes,omitempty"`
}

// Dose is one scheduled intake. ScheduledTime is the server's local ISO time.
type Dose struct {
	DoseNumber    int    `json:"dose_number"`
	ScheduledTime string `json:"scheduled_time"`
	Status        string `json:"status"` // pending or missed
}

type MedicationReminder struct {
	ID             int64               `json:"id"`
	MedicationName string              `json:"medication_name"`
	Dosage         string              `json:"dosage"`
	Frequency      MedicationFrequency `json:"frequency"`
	FrequencyLabel string              `json:"frequency_label"`
	DurationDays   int                 `json:"duration_days"`
	StartDate      string              `json:"start_date"`
	EndDate        *string             `json:"end_date,omitempty"`
	Notes          *string             `json:"notes,omitempty"`
	Schedule       []Dose              `json:"schedule"`
	NextDose       *Dose               `json:"next_dose,omitempty"`
	TotalDoses     int                 `json:"total_doses"`
}

type FrequencyOption struct {
	Value         MedicationFrequency `json:"value"`
	Label         string              `json:"label"`
	TimesPerDay   int                 `json:"times_per_day"`
	IntervalHours *int                `json:"interval_hours"`
}
