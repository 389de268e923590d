package remote

import "healthguide/models"

// TemperatureRequest carries exactly one of the three reading fields. The
// others are sent as explicit nulls.
type TemperatureRequest struct {
	SessionID             string   `json:"session_id"`
	TemperatureCelsius    *float64 `json:"temperature_celsius"`
	TemperatureFahrenheit *float64 `json:"temperature_fahrenheit"`
	Descriptive           *string  `json:"descriptive"`
}

// NewTemperatureRequest maps a reading onto its single request field.
func NewTemperatureRequest(sessionID string, r models.TemperatureReading) TemperatureRequest {
	req := TemperatureRequest{SessionID: sessionID}
	switch r.Kind {
	case models.ReadingNumeric:
		v := r.Value
		if r.Unit == models.Fahrenheit {
			req.TemperatureFahrenheit = &v
		} else {
			req.TemperatureCelsius = &v
		}
	case models.ReadingDescriptive:
		l := string(r.Level)
		req.Descriptive = &l
	}
	return req
}

type DiseaseRequest struct {
	Symptoms            []string       `json:"symptoms"`
	TemperatureCategory *string        `json:"temperature_category,omitempty"`
	DurationDays        *int           `json:"duration_days,omitempty"`
	AdditionalContext   map[string]any `json:"additional_context"`
}

type TriageRequest struct {
	SessionID           string                 `json:"session_id"`
	Message             string                 `json:"message"`
	ConversationHistory []models.HistoryEntry  `json:"conversation_history"`
	LLMProvider         string                 `json:"llm_provider"`
	SymptomData         *models.SymptomPayload `json:"symptom_data,omitempty"`
}

type TriageResponse struct {
	Message              string               `json:"message"`
	TriageResult         *models.TriageResult `json:"triage_result,omitempty"`
	ConversationComplete bool                 `json:"conversation_complete"`
}

type SmartFindRequest struct {
	Latitude     float64             `json:"latitude"`
	Longitude    float64             `json:"longitude"`
	RadiusKm     float64             `json:"radius_km"`
	ProviderType models.ProviderType `json:"provider_type"`
	SessionID    string              `json:"session_id,omitempty"`
	TriageLevel  string              `json:"triage_level,omitempty"`
	Symptoms     []string            `json:"symptoms,omitempty"`
}

type SmartFindResponse struct {
	Providers        []models.Provider  `json:"providers"`
	Assessment       *models.Assessment `json:"assessment,omitempty"`
	EmergencyNumbers map[string]string  `json:"emergency_numbers,omitempty"`
	SmartResponse    string             `json:"smart_response,omitempty"`
}

type NearbyRequest struct {
	Latitude     float64             `json:"latitude"`
	Longitude    float64             `json:"longitude"`
	RadiusKm     float64             `json:"radius_km"`
	ProviderType models.ProviderType `json:"provider_type"`
	Limit        int                 `json:"limit"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

type remindersResponse struct {
	Reminders []models.MedicationReminder `json:"reminders"`
}

type frequencyOptionsResponse struct {
	Options []models.FrequencyOption `json:"options"`
}
