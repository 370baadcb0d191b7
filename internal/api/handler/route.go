package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/saferoute/saferoute/internal/api/models"
	"github.com/saferoute/saferoute/internal/api/response"
	"github.com/saferoute/saferoute/internal/risk"
	"github.com/saferoute/saferoute/internal/routing"
)

// RouteHandler handles the safest-route endpoint.
type RouteHandler struct {
	risk   *risk.Service
	logger zerolog.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(riskService *risk.Service, logger zerolog.Logger) *RouteHandler {
	return &RouteHandler{
		risk:   riskService,
		logger: logger,
	}
}

// SafestRoute handles POST /route - compute the safest driving route.
func (h *RouteHandler) SafestRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.JSON(w, r, http.StatusBadRequest, models.MissingParamsError)
		return
	}

	if !input.Complete() {
		response.JSON(w, r, http.StatusBadRequest, models.MissingParamsError)
		return
	}

	result, err := h.risk.SafestRoute(r.Context(), routing.DirectionsRequest{
		Origin:      routing.Coordinate{Lat: input.SourceLat.Value, Lon: input.SourceLong.Value},
		Destination: routing.Coordinate{Lat: input.DestLat.Value, Lon: input.DestLong.Value},
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	segments := make([]models.SegmentRisk, 0, len(result.SegmentRisks))
	for _, s := range result.SegmentRisks {
		segments = append(segments, models.SegmentRisk{
			Start:       models.Point{Lat: s.Start.Lat, Lng: s.Start.Lon},
			End:         models.Point{Lat: s.End.Lat, Lng: s.End.Lon},
			RiskScore:   s.Score,
			Description: s.Description,
		})
	}

	response.JSON(w, r, http.StatusOK, models.RouteResponse{
		Route:        result.Route.Raw,
		SegmentRisks: segments,
	})
}

// writeError maps pipeline errors to HTTP responses.
func (h *RouteHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, routing.ErrInvalidCoordinates):
		response.BadRequest(w, r, "coordinates are out of range", nil)
	case errors.Is(err, routing.ErrNoAlternatives):
		response.BadGateway(w, r, "no alternative routes found between the given points")
	case errors.Is(err, routing.ErrRateLimitExceeded):
		response.ServiceUnavailable(w, r, "directions provider quota exceeded, try again later")
	case errors.Is(err, routing.ErrProviderUnavailable):
		response.BadGateway(w, r, "directions provider is unavailable")
	case errors.Is(err, risk.ErrNoPredictions), errors.Is(err, risk.ErrPredictionMismatch):
		response.BadGateway(w, r, "risk model returned an invalid prediction")
	default:
		h.logger.Error().Err(err).Msg("route scoring failed")
		response.InternalError(w, r, "failed to compute safest route")
	}
}
