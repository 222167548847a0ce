package place

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/FACorreiaa/go-hbnb/internal/models"
)

// SearchFilter selects places by state, city and amenity ids.
type SearchFilter struct {
	States    []string
	Cities    []string
	Amenities []string
}

// FilterFromBody reads the "states", "cities" and "amenities" id lists of a
// search request. Non-string entries are ignored.
func FilterFromBody(body map[string]any) SearchFilter {
	return SearchFilter{
		States:    stringList(body["states"]),
		Cities:    stringList(body["cities"]),
		Amenities: stringList(body["amenities"]),
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// SearchPlaces returns every place when States and Cities are empty, else
// the places of the listed cities and of every city of the listed states.
// Places must then offer all the listed amenities.
func (s *ServiceImpl) SearchPlaces(ctx context.Context, filter SearchFilter) []*models.Place {
	ctx, span := otel.Tracer("PlaceService").Start(ctx, "SearchPlaces")
	defer span.End()

	all := s.store.All(ctx, models.ClassPlace)
	var candidates []*models.Place
	if len(filter.States) == 0 && len(filter.Cities) == 0 {
		for _, p := range models.Sorted(all) {
			candidates = append(candidates, p.(*models.Place))
		}
	} else {
		cityIDs := make(map[string]struct{})
		cities := s.store.All(ctx, models.ClassCity)
		for _, stateID := range filter.States {
			for _, c := range models.CitiesOf(cities, stateID) {
				cityIDs[c.ID] = struct{}{}
			}
		}
		for _, id := range filter.Cities {
			cityIDs[id] = struct{}{}
		}
		for _, p := range models.Sorted(all) {
			place := p.(*models.Place)
			if _, ok := cityIDs[place.CityID]; ok {
				candidates = append(candidates, place)
			}
		}
	}

	out := make([]*models.Place, 0, len(candidates))
	for _, p := range candidates {
		if hasAll(p, filter.Amenities) {
			out = append(out, p)
		}
	}

	span.SetAttributes(
		attribute.Int("filter.states", len(filter.States)),
		attribute.Int("filter.cities", len(filter.Cities)),
		attribute.Int("filter.amenities", len(filter.Amenities)),
		attribute.Int("places.count", len(out)),
	)
	span.SetStatus(codes.Ok, "Places searched")
	return out
}

func hasAll(p *models.Place, amenityIDs []string) bool {
	for _, id := range amenityIDs {
		if !p.HasAmenity(id) {
			return false
		}
	}
	return true
}
