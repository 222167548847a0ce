package models

import "sort"

// The helpers below resolve the foreign-key style string fields over a set
// of objects as returned by a storage engine. Results are ordered by
// creation time so that listings are stable.

func CitiesOf(objs map[string]Model, stateID string) []*City {
	var out []*City
	for _, o := range objs {
		if c, ok := o.(*City); ok && c.StateID == stateID {
			out = append(out, c)
		}
	}
	sortByCreation(out)
	return out
}

func PlacesOf(objs map[string]Model, cityID string) []*Place {
	var out []*Place
	for _, o := range objs {
		if p, ok := o.(*Place); ok && p.CityID == cityID {
			out = append(out, p)
		}
	}
	sortByCreation(out)
	return out
}

func ReviewsOf(objs map[string]Model, placeID string) []*Review {
	var out []*Review
	for _, o := range objs {
		if r, ok := o.(*Review); ok && r.PlaceID == placeID {
			out = append(out, r)
		}
	}
	sortByCreation(out)
	return out
}

// AmenitiesOf returns the amenities linked to place that still exist.
func AmenitiesOf(objs map[string]Model, place *Place) []*Amenity {
	var out []*Amenity
	for _, id := range place.AmenityIDs {
		if a, ok := objs[KeyFor(ClassAmenity, id)].(*Amenity); ok {
			out = append(out, a)
		}
	}
	return out
}

// Sorted returns the values of objs ordered by creation time, then id.
func Sorted(objs map[string]Model) []Model {
	out := make([]Model, 0, len(objs))
	for _, o := range objs {
		out = append(out, o)
	}
	sortByCreation(out)
	return out
}

func sortByCreation[T Model](items []T) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Meta(), items[j].Meta()
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
