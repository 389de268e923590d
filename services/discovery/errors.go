package discovery

import "errors"

// Geolocation failures, matching the browser's PositionError codes.
var (
	ErrPermissionDenied       = errors.New("geolocation permission denied")
	ErrPositionUnavailable    = errors.New("geolocation position unavailable")
	ErrTimeout                = errors.New("geolocation timed out")
	ErrGeolocationUnsupported = errors.New("geolocation not supported")
	ErrGeolocationUnknown     = errors.New("geolocation failed")
)

// Manual geocoding failures.
var (
	ErrEmptyLocationQuery = errors.New("empty location query")
	ErrLocationNotFound   = errors.New("location not found")
	// ErrGeocoderUnavailable wraps transport and non-2xx failures.
	ErrGeocoderUnavailable = errors.New("geocoder unavailable")
)

// ErrNoProviders is returned when both the smart and basic lookups failed.
var ErrNoProviders = errors.New("provider lookup failed")

var userMessages = []struct {
	err error
	msg string
}{
	{ErrPermissionDenied, "Location permission denied. Please enable location access."},
	{ErrPositionUnavailable, "Location information unavailable."},
	{ErrTimeout, "Location request timed out."},
	{ErrGeolocationUnsupported, "Geolocation is not supported by your browser"},
	{ErrEmptyLocationQuery, "Please enter city or pincode"},
	{ErrLocationNotFound, "Location not found. Please try a different city or pincode."},
	{ErrGeocoderUnavailable, "Failed to geocode location. Please try again."},
	{ErrNoProviders, "Failed to load healthcare providers. Please try again."},
}

// UserMessage is the corrective text shown for a discovery error.
func UserMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return "Unable to retrieve location"
}

// GeolocationCode maps a W3C PositionError code to its error.
func GeolocationCode(code int) error {
	switch code {
	case 1:
		return ErrPermissionDenied
	case 2:
		return ErrPositionUnavailable
	case 3:
		return ErrTimeout
	}
	return ErrGeolocationUnknown
}
