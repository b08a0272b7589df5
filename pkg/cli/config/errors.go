package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound   = goerr.New("configuration file not found")
	ErrInvalidConfig    = goerr.New("invalid configuration")
	ErrDuplicateVenueID = goerr.New("duplicate venue ID")
	ErrInvalidRole      = goerr.New("invalid party role")
	ErrInvalidTokenTTL  = goerr.New("invalid token TTL")
	ErrMissingName      = goerr.New("name is required")
	ErrInvalidBackend   = goerr.New("invalid backend")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	VenueIDKey    = "venue_id"
	VenueIndexKey = "venue_index"
	RoleKey       = "role"
	BackendKey    = "backend"
)
