package models

import "errors"

var (
	ErrUnknownClass = errors.New("class doesn't exist")
	ErrInvalidValue = errors.New("invalid attribute value")
	ErrMissingClass = errors.New("missing __class__")
)
