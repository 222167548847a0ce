package models

import "slices"

// Place is a rental listing owned by a user and located in a city.
type Place struct {
	Base            `mapstructure:",squash"`
	CityID          string   `json:"city_id" mapstructure:"city_id"`
	UserID          string   `json:"user_id" mapstructure:"user_id"`
	Name            string   `json:"name" mapstructure:"name"`
	Description     string   `json:"description" mapstructure:"description"`
	NumberRooms     int      `json:"number_rooms" mapstructure:"number_rooms"`
	NumberBathrooms int      `json:"number_bathrooms" mapstructure:"number_bathrooms"`
	MaxGuest        int      `json:"max_guest" mapstructure:"max_guest"`
	PriceByNight    int      `json:"price_by_night" mapstructure:"price_by_night"`
	Latitude        float64  `json:"latitude" mapstructure:"latitude"`
	Longitude       float64  `json:"longitude" mapstructure:"longitude"`
	AmenityIDs      []string `json:"amenity_ids" mapstructure:"amenity_ids"`
}

func NewPlace() *Place {
	return &Place{Base: newBase(), AmenityIDs: []string{}}
}

func (p *Place) ClassName() string { return ClassPlace }

func (p *Place) attrs() map[string]any {
	amenityIDs := make([]string, len(p.AmenityIDs))
	copy(amenityIDs, p.AmenityIDs)
	return map[string]any{
		"city_id":          p.CityID,
		"user_id":          p.UserID,
		"name":             p.Name,
		"description":      p.Description,
		"number_rooms":     p.NumberRooms,
		"number_bathrooms": p.NumberBathrooms,
		"max_guest":        p.MaxGuest,
		"price_by_night":   p.PriceByNight,
		"latitude":         p.Latitude,
		"longitude":        p.Longitude,
		"amenity_ids":      amenityIDs,
	}
}

// HasAmenity reports whether the amenity id is linked to the place.
func (p *Place) HasAmenity(amenityID string) bool {
	return slices.Contains(p.AmenityIDs, amenityID)
}

// LinkAmenity adds the amenity id. It returns false if it was already linked.
func (p *Place) LinkAmenity(amenityID string) bool {
	if p.HasAmenity(amenityID) {
		return false
	}
	p.AmenityIDs = append(p.AmenityIDs, amenityID)
	return true
}

// UnlinkAmenity removes the amenity id. It returns false if it was not linked.
func (p *Place) UnlinkAmenity(amenityID string) bool {
	i := slices.Index(p.AmenityIDs, amenityID)
	if i < 0 {
		return false
	}
	p.AmenityIDs = slices.Delete(p.AmenityIDs, i, i+1)
	return true
}
