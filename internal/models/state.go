package models

// State groups cities.
type State struct {
	Base `mapstructure:",squash"`
	Name string `json:"name" mapstructure:"name"`
}

func NewState() *State {
	return &State{Base: newBase()}
}

func (s *State) ClassName() string { return ClassState }

func (s *State) attrs() map[string]any {
	return map[string]any{"name": s.Name}
}
