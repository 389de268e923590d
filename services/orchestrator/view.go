package orchestrator

import (
	"healthguide/models"
	"healthguide/services/discovery"
)

// View is a snapshot of everything the browser renders. filter narrows the
// provider list without refetching.
func (o *Orchestrator) View(filter models.ProviderType) models.AssistantView {
	conv := o.conversation.View()
	sessionID := o.sessions.ID()

	o.mu.Lock()
	defer o.mu.Unlock()

	v := models.AssistantView{
		SessionID:             sessionID,
		ProbableCauses:        append([]models.ProbableCause(nil), o.causes...),
		HomeCare:              append([]string(nil), o.homeCare...),
		MedicationSuggestions: o.medSuggestions,
		Conversation:          conv,
		QuickActionNotices:    append([]string(nil), o.notices...),
		LocationError:         o.locationError,
	}
	if o.symptoms != nil {
		sc := *o.symptoms
		v.Symptoms = &sc
	}
	if o.temperature != nil {
		ts := *o.temperature
		v.Temperature = &ts
	}
	if o.coords != nil {
		c := *o.coords
		v.Coordinates = &c
	}
	if o.ambulancePrompt != nil {
		p := *o.ambulancePrompt
		v.AmbulancePrompt = &p
	}

	v.ShowTemperatureSelector = sessionID != "" || o.symptoms != nil
	v.ShowProbableCauses = len(o.causes) > 0
	v.ShowHomeCare = len(o.homeCare) > 0
	v.ShowLocationPermission = o.coords == nil
	v.ShowReminders = sessionID != ""

	if o.coords != nil && (o.mapOpen || len(o.providers) > 0 || o.smart != nil) {
		res := models.DiscoveryResult{Providers: o.providers}
		if o.smart != nil {
			res = *o.smart
		}
		pv := discovery.BuildView(res, *o.coords, filter)
		v.Providers = &pv
		v.ShowProviders = true
	}
	return v
}
