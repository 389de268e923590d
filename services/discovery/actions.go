package discovery

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"healthguide/models"
)

// DialTarget keeps only the digits of a phone number.
func DialTarget(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DirectionsURL prefers a route between known coordinates over the
// provider's own maps link. It returns "" when neither is available.
func DirectionsURL(from *models.Coordinates, p models.Provider) string {
	if from != nil && p.HasCoordinates() {
		return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&origin=%s,%s&destination=%s,%s",
			formatCoord(from.Lat), formatCoord(from.Lon), formatCoord(p.Latitude), formatCoord(p.Longitude))
	}
	return p.GoogleMapsURL
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FilterByType keeps providers of type t in their original order.
func FilterByType(providers []models.Provider, t models.ProviderType) []models.Provider {
	if t == "" || t == models.ProviderAll {
		return providers
	}
	out := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// AmbulanceNumber returns the ambulance entry of the emergency numbers.
func AmbulanceNumber(numbers map[string]string) string {
	if n, ok := numbers["ambulance"]; ok {
		return n
	}
	return ""
}

// haversine calculates the great-circle distance (in km) between two lat/lon points.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return math.Round(R*c*100) / 100
}
