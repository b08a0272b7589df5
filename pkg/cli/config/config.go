package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/grievance/pkg/domain/model/config"
	"github.com/secmon-lab/grievance/pkg/domain/types"
	"github.com/secmon-lab/grievance/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// AppConfig represents the workflow configuration file
type AppConfig struct {
	Venues       []Venue             `toml:"venue"`
	DefaultItems map[string][]string `toml:"default_items"`
	TokenTTL     string              `toml:"token_ttl"`
}

// Venue represents an allowed appointment venue
type Venue struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the Venue is valid
func (v *Venue) Validate() error {
	if strings.TrimSpace(v.ID) == "" {
		return goerr.Wrap(ErrInvalidConfig, "venue ID is required", goerr.V("name", v.Name))
	}
	if strings.TrimSpace(v.Name) == "" {
		return goerr.Wrap(ErrMissingName, "venue name is required", goerr.V(VenueIDKey, v.ID))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	venueIDs := make(map[string]bool)
	for i, venue := range a.Venues {
		if err := venue.Validate(); err != nil {
			return goerr.Wrap(err, "invalid venue", goerr.V(VenueIndexKey, i))
		}
		if venueIDs[venue.ID] {
			return goerr.Wrap(ErrDuplicateVenueID, "venue ID must be unique",
				goerr.V(VenueIDKey, venue.ID), goerr.V(VenueIndexKey, i))
		}
		venueIDs[venue.ID] = true
	}

	for role := range a.DefaultItems {
		if !types.PartyRole(role).IsValid() {
			return goerr.Wrap(ErrInvalidRole, "default items must be keyed by party role", goerr.V(RoleKey, role))
		}
	}

	if _, err := a.tokenTTL(); err != nil {
		return err
	}
	return nil
}

func (a *AppConfig) tokenTTL() (time.Duration, error) {
	if a.TokenTTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(a.TokenTTL)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidTokenTTL, "token_ttl must be a duration", goerr.V("token_ttl", a.TokenTTL))
	}
	if ttl <= 0 {
		return 0, goerr.Wrap(ErrInvalidTokenTTL, "token_ttl must be positive", goerr.V("token_ttl", a.TokenTTL))
	}
	return ttl, nil
}

// LoadAppConfiguration loads the workflow configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// ToDomainWorkflow converts AppConfig to the domain Workflow
func (a *AppConfig) ToDomainWorkflow() *domainConfig.Workflow {
	venues := make([]domainConfig.Venue, len(a.Venues))
	for i, v := range a.Venues {
		venues[i] = domainConfig.Venue{
			ID:   strings.TrimSpace(v.ID),
			Name: strings.TrimSpace(v.Name),
		}
	}

	items := make(map[types.PartyRole][]string, len(a.DefaultItems))
	for role, list := range a.DefaultItems {
		items[types.PartyRole(role)] = append([]string(nil), list...)
	}

	// validated by LoadAppConfiguration
	ttl, _ := a.tokenTTL()

	return &domainConfig.Workflow{
		Venues:       venues,
		DefaultItems: items,
		TokenTTL:     ttl,
	}
}

// Workflow holds the CLI flag pointing at the workflow configuration file
type Workflow struct {
	path string
}

// Flags returns CLI flags for workflow configuration
func (w *Workflow) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the workflow configuration file (TOML)",
			Sources:     cli.EnvVars("GRIEVANCE_CONFIG"),
			Destination: &w.path,
		},
	}
}

// Configure loads the workflow file. Without a path the default workflow
// (any venue, no default items) is returned.
func (w *Workflow) Configure() (*domainConfig.Workflow, error) {
	if w.path == "" {
		logging.Default().Info("No workflow configuration given, using defaults")
		return &domainConfig.Workflow{}, nil
	}

	cfg, err := LoadAppConfiguration(w.path)
	if err != nil {
		return nil, err
	}
	workflow := cfg.ToDomainWorkflow()

	logging.Default().Info("Workflow configuration loaded",
		"path", w.path,
		"venues", workflow.VenueNames(),
		"token_ttl", workflow.GetTokenTTL())
	return workflow, nil
}
