package models

import "strings"

// ProbableCause is one ranked candidate. Rank is authoritative: index 0 is primary.
type ProbableCause struct {
	Disease          string   `json:"disease"`
	DiseaseID        string   `json:"disease_id,omitempty"`
	MatchScore       float64  `json:"match_score"`
	Severity         string   `json:"severity"`
	MatchingSymptoms []string `json:"matching_symptoms"`
	HomeCare         []string `json:"home_care"`
	DiagnosticTests  []string `json:"diagnostic_tests,omitempty"`
	WhenToSeeDoctor  []string `json:"when_to_see_doctor"`
	RedFlags         []string `json:"red_flags,omitempty"`
}

// IsWarningTip reports whether a home-care tip is tagged as a warning.
func IsWarningTip(tip string) bool {
	return strings.Contains(tip, "⚠️") || strings.Contains(tip, "❌")
}

// DiseaseDetection is the inference response.
type DiseaseDetection struct {
	ProbableCauses        []ProbableCause `json:"probable_causes"`
	MedicationSuggestions map[string]any  `json:"medication_suggestions,omitempty"`
}
