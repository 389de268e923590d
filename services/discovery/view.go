package discovery

import "healthguide/models"

// BuildView lays out the provider panel. When the assessment asks for an
// ambulance the call actions lead and the recommendation text is dropped.
func BuildView(res models.DiscoveryResult, coords models.Coordinates, filter models.ProviderType) models.ProvidersView {
	if filter == "" {
		filter = models.ProviderAll
	}
	v := models.ProvidersView{
		Providers:        FilterByType(res.Providers, filter),
		Coordinates:      coords,
		Assessment:       res.Assessment,
		EmergencyNumbers: res.EmergencyNumbers,
		Narrative:        res.Narrative,
		Filter:           filter,
	}
	if v.Providers == nil {
		v.Providers = []models.Provider{}
	}
	if res.NeedsAmbulance() {
		v.AmbulanceFirst = true
		v.AmbulanceDial = DialTarget(AmbulanceNumber(res.EmergencyNumbers))
		return v
	}
	if res.Assessment != nil {
		v.Recommendation = res.Assessment.Recommendation
	}
	return v
}
