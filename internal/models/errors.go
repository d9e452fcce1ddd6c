package models

import "errors"

var (
	ErrMissingTime   = errors.New("bar is missing a time identifier")
	ErrInvalidBar    = errors.New("invalid bar (high < low)")
	ErrInvalidPrice  = errors.New("invalid price (non-finite)")
	ErrInvalidVolume = errors.New("invalid volume (negative)")
)
