package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Assistant state and intake
	GetState          gin.HandlerFunc
	SubmitSymptoms    gin.HandlerFunc
	SubmitTemperature gin.HandlerFunc
	Chat              gin.HandlerFunc

	// Location and providers
	ReportGPS              gin.HandlerFunc
	ManualLocation         gin.HandlerFunc
	CloseProviders         gin.HandlerFunc
	DismissAmbulancePrompt gin.HandlerFunc
	QuickAction            gin.HandlerFunc

	// Medication reminders
	ListReminders    gin.HandlerFunc
	CreateReminder   gin.HandlerFunc
	StopReminder     gin.HandlerFunc
	FrequencyOptions gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle wires the assistant handler's methods into a bundle.
func NewHandlerBundle(h *AssistantHandler) *HandlerBundle {
	return &HandlerBundle{
		GetState:          h.GetState,
		SubmitSymptoms:    h.SubmitSymptoms,
		SubmitTemperature: h.SubmitTemperature,
		Chat:              h.Chat,

		ReportGPS:              h.ReportGPS,
		ManualLocation:         h.ManualLocation,
		CloseProviders:         h.CloseProviders,
		DismissAmbulancePrompt: h.DismissAmbulancePrompt,
		QuickAction:            h.QuickAction,

		ListReminders:    h.ListReminders,
		CreateReminder:   h.CreateReminder,
		StopReminder:     h.StopReminder,
		FrequencyOptions: h.FrequencyOptions,

		Health: HealthHandler,
	}
}
