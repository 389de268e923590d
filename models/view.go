package models

// ConversationView is the transcript plus the input affordances.
type ConversationView struct {
	State         string        `json:"state"`
	Messages      []ChatMessage `json:"messages"`
	InputEnabled  bool          `json:"input_enabled"`
	Complete      bool          `json:"complete"`
	ShowProviders bool          `json:"show_providers"`
	LastTriage    *TriageResult `json:"last_triage,omitempty"`
}

// ProvidersView is the provider panel. When AmbulanceFirst is set the call
// actions lead and Recommendation is empty.
type ProvidersView struct {
	Providers        []Provider        `json:"providers"`
	Coordinates      Coordinates       `json:"coordinates"`
	Assessment       *Assessment       `json:"assessment,omitempty"`
	EmergencyNumbers map[string]string `json:"emergency_numbers,omitempty"`
	AmbulanceFirst   bool              `json:"ambulance_first"`
	AmbulanceDial    string            `json:"ambulance_dial,omitempty"`
	Recommendation   string            `json:"recommendation,omitempty"`
	Narrative        string            `json:"narrative,omitempty"`
	Filter           ProviderType      `json:"filter"`
}

// AmbulancePrompt asks the user to confirm an immediate ambulance call.
type AmbulancePrompt struct {
	Message    string `json:"message"`
	DialTarget string `json:"dial_target"`
}

// AssistantView is everything the browser renders for one session.
type AssistantView struct {
	SessionID             string            `json:"session_id,omitempty"`
	Symptoms              *SymptomContext   `json:"symptoms,omitempty"`
	Temperature           *TemperatureState `json:"temperature,omitempty"`
	ProbableCauses        []ProbableCause   `json:"probable_causes,omitempty"`
	HomeCare              []string          `json:"home_care,omitempty"`
	MedicationSuggestions map[string]any    `json:"medication_suggestions,omitempty"`
	Conversation          ConversationView  `json:"conversation"`
	QuickActionNotices    []string          `json:"quick_action_notices,omitempty"`
	Providers             *ProvidersView    `json:"providers,omitempty"`
	AmbulancePrompt       *AmbulancePrompt  `json:"ambulance_prompt,omitempty"`
	Coordinates           *Coordinates      `json:"coordinates,omitempty"`
	LocationError         string            `json:"location_error,omitempty"`

	ShowTemperatureSelector bool `json:"show_temperature_selector"`
	ShowProbableCauses      bool `json:"show_probable_causes"`
	ShowHomeCare            bool `json:"show_home_care"`
	ShowLocationPermission  bool `json:"show_location_permission"`
	ShowReminders           bool `json:"show_reminders"`
	ShowProviders           bool `json:"show_providers"`
}
