package models

// Review is a user's text review of a place.
type Review struct {
	Base    `mapstructure:",squash"`
	PlaceID string `json:"place_id" mapstructure:"place_id"`
	UserID  string `json:"user_id" mapstructure:"user_id"`
	Text    string `json:"text" mapstructure:"text"`
}

func NewReview() *Review {
	return &Review{Base: newBase()}
}

func (r *Review) ClassName() string { return ClassReview }

func (r *Review) attrs() map[string]any {
	return map[string]any{
		"place_id": r.PlaceID,
		"user_id":  r.UserID,
		"text":     r.Text,
	}
}
