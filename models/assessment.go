package models

// UrgencyLevel as reported by the smart-find assessment.
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyModerate  UrgencyLevel = "moderate"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyEmergency UrgencyLevel = "emergency"
)

type Assessment struct {
	NeedsAmbulance        bool         `json:"needs_ambulance"`
	UrgencyLevel          UrgencyLevel `json:"urgency_level"`
	Recommendation        string       `json:"recommendation"`
	EstimatedResponseTime string       `json:"estimated_response_time,omitempty"`
}

// DiscoveryResult is what provider discovery hands back to its caller.
type DiscoveryResult struct {
	Providers        []Provider        `json:"providers"`
	Assessment       *Assessment       `json:"assessment,omitempty"`
	EmergencyNumbers map[string]string `json:"emergency_numbers,omitempty"`
	Narrative        string            `json:"smart_response,omitempty"`
	Smart            bool              `json:"smart"` // false when served by the basic fallback
}

// NeedsAmbulance is false when no assessment was returned.
func (r DiscoveryResult) NeedsAmbulance() bool {
	return r.Assessment != nil && r.Assessment.NeedsAmbulance
}
