package models

// City belongs to a State through StateID.
type City struct {
	Base    `mapstructure:",squash"`
	StateID string `json:"state_id" mapstructure:"state_id"`
	Name    string `json:"name" mapstructure:"name"`
}

func NewCity() *City {
	return &City{Base: newBase()}
}

func (c *City) ClassName() string { return ClassCity }

func (c *City) attrs() map[string]any {
	return map[string]any{
		"state_id": c.StateID,
		"name":     c.Name,
	}
}
