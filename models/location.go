package models

// LocationMethod records how coordinates were obtained.
type LocationMethod string

const (
	MethodGPS    LocationMethod = "gps"
	MethodManual LocationMethod = "manual"
)

type Coordinates struct {
	Lat      float64        `json:"lat"`
	Lon      float64        `json:"lon"`
	Accuracy *float64       `json:"accuracy,omitempty"`
	Method   LocationMethod `json:"method"`
	City     string         `json:"city,omitempty"`
	Pincode  string         `json:"pincode,omitempty"`
}
