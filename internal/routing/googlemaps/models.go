package googlemaps

import "encoding/json"

// Google Maps Directions API status codes.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
	statusRequestDenied  = "REQUEST_DENIED"
	statusInvalidRequest = "INVALID_REQUEST"
)

// directionsResponse is the top-level Directions API response.
// Routes are kept raw so each alternative can be both parsed and passed
// through opaquely.
type directionsResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message"`
	Routes       []json.RawMessage `json:"routes"`
}

// gmRoute is the subset of a Directions route this service reads.
type gmRoute struct {
	Summary string  `json:"summary"`
	Legs    []gmLeg `json:"legs"`
}

type gmLeg struct {
	Steps []gmStep `json:"steps"`
}

type gmStep struct {
	Polyline gmPolyline `json:"polyline"`
	Distance gmValue    `json:"distance"`
	Duration gmValue    `json:"duration"`
}

type gmPolyline struct {
	Points string `json:"points"`
}

type gmValue struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}
