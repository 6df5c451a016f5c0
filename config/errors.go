package config

import "errors"

var (
	// ErrConfigNotFound is returned when an explicitly requested config file does not exist
	ErrConfigNotFound = errors.New("configuration file not found")

	ErrNoTargets        = errors.New("no targets configured")
	ErrIncompleteTarget = errors.New("every target needs a name and a url")
	ErrDuplicateTarget  = errors.New("duplicate target name")
	ErrNoMarker         = errors.New("extract.marker must not be empty")
	ErrInvalidTimeout   = errors.New("invalid timeout: must be positive")
	ErrInvalidDelay     = errors.New("invalid delay: must be non-negative")
)
