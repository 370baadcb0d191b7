package models

import "encoding/json"

// RouteRequest is the request body for POST /route. Coordinate fields
// accept both JSON numbers and numeric strings.
type RouteRequest struct {
	SourceLat  FlexFloat `json:"source_lat"`
	SourceLong FlexFloat `json:"source_long"`
	DestLat    FlexFloat `json:"dest_lat"`
	DestLong   FlexFloat `json:"dest_long"`
}

// Complete reports whether all four coordinates were provided.
func (r *RouteRequest) Complete() bool {
	return r.SourceLat.Set && r.SourceLong.Set && r.DestLat.Set && r.DestLong.Set
}

// RouteResponse is the response body for POST /route. Route is the
// directions provider's route object, passed through unmodified.
type RouteResponse struct {
	Route        json.RawMessage `json:"route"`
	SegmentRisks []SegmentRisk   `json:"segmentRisks"`
}

// SegmentRisk is a risky stretch of the selected route.
type SegmentRisk struct {
	Start       Point   `json:"start"`
	End         Point   `json:"end"`
	RiskScore   float64 `json:"risk_score"`
	Description string  `json:"description"`
}

// MissingParamsError is the exact error body returned when required
// route parameters are absent.
var MissingParamsError = map[string]string{"error": "Missing required parameters"}
