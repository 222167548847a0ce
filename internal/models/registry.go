package models

import (
	"fmt"
	"slices"
)

const (
	ClassBaseModel = "BaseModel"
	ClassUser      = "User"
	ClassState     = "State"
	ClassCity      = "City"
	ClassAmenity   = "Amenity"
	ClassPlace     = "Place"
	ClassReview    = "Review"
)

var constructors = map[string]func() Model{
	ClassBaseModel: func() Model { return NewBaseModel() },
	ClassUser:      func() Model { return NewUser() },
	ClassState:     func() Model { return NewState() },
	ClassCity:      func() Model { return NewCity() },
	ClassAmenity:   func() Model { return NewAmenity() },
	ClassPlace:     func() Model { return NewPlace() },
	ClassReview:    func() Model { return NewReview() },
}

// Classes returns the known class names in a stable order.
func Classes() []string {
	return []string{ClassBaseModel, ClassUser, ClassAmenity, ClassCity, ClassReview, ClassPlace, ClassState}
}

// IsClass reports whether name is a known class.
func IsClass(name string) bool {
	return slices.Contains(Classes(), name)
}

// New creates a fresh instance of the named class.
func New(class string) (Model, error) {
	ctor, ok := constructors[class]
	if !ok {
		return nil, fmt.Errorf("%q: %w", class, ErrUnknownClass)
	}
	return ctor(), nil
}

// FromMap rebuilds a model from its ToMap representation.
func FromMap(data map[string]any) (Model, error) {
	class, _ := data["__class__"].(string)
	if class == "" {
		return nil, ErrMissingClass
	}
	m, err := New(class)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any, len(data))
	for k, v := range data {
		if k == "__class__" {
			continue
		}
		fields[k] = v
	}
	if err := decode(m, fields); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", class, err)
	}
	return m, nil
}
