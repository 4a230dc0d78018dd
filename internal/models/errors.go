package models

import "errors"

// Content errors. All of them mean the game definition is wrong; none are retried.
var (
	ErrParse           = errors.New("malformed property address")
	ErrUnknownKind     = errors.New("unknown game object kind")
	ErrNotFound        = errors.New("property not found")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrUnknownLocation = errors.New("unknown location")
	ErrDuplicateLink   = errors.New("duplicate link")
)
