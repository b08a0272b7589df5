package config

import (
	"strings"
	"time"

	"github.com/secmon-lab/grievance/pkg/domain/types"
)

// DefaultTokenTTL is used when no token lifetime is configured
const DefaultTokenTTL = 12 * time.Hour

// Venue is a place where hearings and mediations can be held
type Venue struct {
	ID   string
	Name string
}

// Workflow holds the deployment specific rules applied on top of the case lifecycle
type Workflow struct {
	// Venues restricts appointment venues by name. Empty allows any venue.
	Venues []Venue

	// DefaultItems are prepended to the items a party must bring to an appointment
	DefaultItems map[types.PartyRole][]string

	TokenTTL time.Duration
}

// IsVenueAllowed reports whether appointments may be scheduled at the venue
func (w *Workflow) IsVenueAllowed(venue string) bool {
	if w == nil || len(w.Venues) == 0 {
		return true
	}
	venue = strings.TrimSpace(venue)
	for _, v := range w.Venues {
		if strings.EqualFold(v.Name, venue) || v.ID == venue {
			return true
		}
	}
	return false
}

// VenueNames lists the configured venue names
func (w *Workflow) VenueNames() []string {
	if w == nil {
		return nil
	}
	names := make([]string, 0, len(w.Venues))
	for _, v := range w.Venues {
		names = append(names, v.Name)
	}
	return names
}

// WithDefaultItems returns the configured default items for the role followed
// by the given items. Items already among the defaults are skipped; the given
// list is otherwise kept as is.
func (w *Workflow) WithDefaultItems(role types.PartyRole, items []string) []string {
	defaults := w.defaultItems(role)
	if len(defaults) == 0 {
		return items
	}

	known := make(map[string]struct{}, len(defaults))
	for _, item := range defaults {
		known[item] = struct{}{}
	}

	result := make([]string, 0, len(defaults)+len(items))
	result = append(result, defaults...)
	for _, item := range items {
		if _, ok := known[item]; ok {
			continue
		}
		result = append(result, item)
	}
	return result
}

func (w *Workflow) defaultItems(role types.PartyRole) []string {
	if w == nil {
		return nil
	}
	return w.DefaultItems[role]
}

// GetTokenTTL returns the staff token lifetime
func (w *Workflow) GetTokenTTL() time.Duration {
	if w == nil || w.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return w.TokenTTL
}
