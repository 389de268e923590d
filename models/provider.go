package models

// ProviderType filters discovery results.
type ProviderType string

const (
	ProviderAll      ProviderType = "all"
	ProviderHospital ProviderType = "hospital"
	ProviderClinic   ProviderType = "clinic"
	ProviderPharmacy ProviderType = "pharmacy"
	ProviderDoctor   ProviderType = "doctor"
)

var providerTypes = map[ProviderType]bool{
	ProviderAll:      true,
	ProviderHospital: true,
	ProviderClinic:   true,
	ProviderPharmacy: true,
	ProviderDoctor:   true,
}

func (t ProviderType) Valid() bool {
	return providerTypes[t]
}

type Provider struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Address       string       `json:"address"`
	Phone         string       `json:"phone,omitempty"`
	Type          ProviderType `json:"type"`
	Latitude      float64      `json:"latitude"`
	Longitude     float64      `json:"longitude"`
	DistanceKm    float64      `json:"distance_km"`
	Rating        *float64     `json:"rating,omitempty"`
	TotalRatings  *int         `json:"total_ratings,omitempty"`
	OpenNow       *bool        `json:"open_now,omitempty"`
	Website       string       `json:"website,omitempty"`
	GoogleMapsURL string       `json:"google_maps_url,omitempty"` // provider-supplied deep link
	PlaceID       string       `json:"place_id,omitempty"`
	Source        string       `json:"source,omitempty"`          // e.g. "google", "osm"
}

// HasCoordinates is false for the zero lat/lon the remote sends when unknown.
func (p Provider) HasCoordinates() bool {
	return p.Latitude != 0 || p.Longitude != 0
}
