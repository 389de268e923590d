package models

import "time"

// MessageKind says how the conversation pipeline treats a message.
type MessageKind string

const (
	// KindUnspecified messages are classified by content.
	KindUnspecified    MessageKind = ""
	KindTriage         MessageKind = "triage"
	KindLocationNotice MessageKind = "location_notice"
)

// ChatMessage is one transcript entry.
type ChatMessage struct {
	Role      string      `json:"role"` // "user" or "assistant"
	Content   string      `json:"content"`
	Kind      MessageKind `json:"kind,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// HistoryEntry is the role+content form sent to the triage endpoint.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TriageResult is attached to a triage turn.
type TriageResult struct {
	TriageLevel          string   `json:"triage_level"`
	Escalate             bool     `json:"escalate"`
	Summary              string   `json:"summary,omitempty"`
	RecommendedNextSteps []string `json:"recommended_next_steps,omitempty"`
	NextQuestion         string   `json:"next_question,omitempty"`
	RedFlagDetected      bool     `json:"red_flag_detected"`
	RedFlagSymptom       string   `json:"red_flag_symptom,omitempty"`
}
