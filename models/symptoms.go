package models

// SymptomSelection is what the symptom selector submits.
type SymptomSelection struct {
	Symptoms          []string            `json:"symptoms"`
	ByCategory        map[string][]string `json:"by_category,omitempty"`
	DurationDays      *int                `json:"duration_days,omitempty"`
	EmergencyDetected bool                `json:"emergency_detected"`
	Language          string              `json:"language,omitempty"`
}

// SymptomContext is an immutable snapshot of one symptom submission. A new
// submission replaces it; it is never edited in place.
type SymptomContext struct {
	Symptoms          []string            `json:"symptoms"`
	ByCategory        map[string][]string `json:"by_category"`
	DurationDays      *int                `json:"duration_days"`
	EmergencyDetected bool                `json:"emergency_detected"`
	TotalSelected     int                 `json:"total_selected"`
	Language          string              `json:"language"`
}

// SymptomPayload is the structured symptom data attached to a triage turn.
type SymptomPayload struct {
	Symptoms          []string            `json:"symptoms"`
	ByCategory        map[string][]string `json:"by_category"`
	EmergencyDetected bool                `json:"emergency_detected"`
	TotalSelected     int                 `json:"total_selected"`
	Language          string              `json:"language"`
}

// Payload converts the context into its wire form.
func (c SymptomContext) Payload() SymptomPayload {
	symptoms := c.Symptoms
	if symptoms == nil {
		symptoms = []string{}
	}
	return SymptomPayload{
		Symptoms:          symptoms,
		ByCategory:        c.ByCategory,
		EmergencyDetected: c.EmergencyDetected,
		TotalSelected:     c.TotalSelected,
		Language:          c.Language,
	}
}
