package models

import (
	"maps"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TimeFormat is the layout used for created_at/updated_at in every
// serialized form of a model.
const TimeFormat = "2006-01-02T15:04:05.000000"

// Base holds the attributes shared by every entity.
type Base struct {
	ID        string    `json:"id" mapstructure:"id"`
	CreatedAt time.Time `json:"created_at" mapstructure:"created_at"`
	UpdatedAt time.Time `json:"updated_at" mapstructure:"updated_at"`

	// Extra carries attributes set at runtime that the entity does not declare.
	Extra map[string]any `json:"-" mapstructure:"-"`
}

// Model is implemented by every entity of the data model.
type Model interface {
	ClassName() string
	Meta() *Base
	attrs() map[string]any
}

func newBase() Base {
	now := time.Now()
	return Base{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Meta returns the shared attributes.
func (b *Base) Meta() *Base { return b }

// BaseModel is the bare entity, usable on its own from the console.
type BaseModel struct {
	Base `mapstructure:",squash"`
}

// NewBaseModel creates a BaseModel with a fresh id and timestamps.
func NewBaseModel() *BaseModel {
	return &BaseModel{Base: newBase()}
}

func (m *BaseModel) ClassName() string { return ClassBaseModel }

func (m *BaseModel) attrs() map[string]any { return map[string]any{} }

// Key returns the storage key "<ClassName>.<id>".
func Key(m Model) string {
	return KeyFor(m.ClassName(), m.Meta().ID)
}

// KeyFor builds a storage key from its parts.
func KeyFor(class, id string) string {
	return class + "." + id
}

// Touch refreshes updated_at.
func Touch(m Model) {
	m.Meta().UpdatedAt = time.Now()
}

// Clone returns a copy of m that shares no mutable state with it.
func Clone(m Model) Model {
	v := reflect.ValueOf(m).Elem()
	c := reflect.New(v.Type())
	c.Elem().Set(v)
	out := c.Interface().(Model)
	if b := out.Meta(); b.Extra != nil {
		b.Extra = maps.Clone(b.Extra)
	}
	if p, ok := out.(*Place); ok {
		p.AmenityIDs = slices.Clone(p.AmenityIDs)
	}
	return out
}
