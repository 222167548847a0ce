package models

type Amenity struct {
	Base `mapstructure:",squash"`
	Name string `json:"name" mapstructure:"name"`
}

func NewAmenity() *Amenity {
	return &Amenity{Base: newBase()}
}

func (a *Amenity) ClassName() string { return ClassAmenity }

func (a *Amenity) attrs() map[string]any {
	return map[string]any{"name": a.Name}
}
