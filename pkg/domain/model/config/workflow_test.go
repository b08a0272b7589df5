package config_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grievance/pkg/domain/model/config"
	"github.com/secmon-lab/grievance/pkg/domain/types"
)

func TestWorkflow_IsVenueAllowed(t *testing.T) {
	wf := &config.Workflow{
		Venues: []config.Venue{
			{ID: "room-a", Name: "Room A"},
			{ID: "annex", Name: "Annex Hall"},
		},
	}

	gt.Bool(t, wf.IsVenueAllowed("Room A")).True()
	gt.Bool(t, wf.IsVenueAllowed(" room a ")).True()
	gt.Bool(t, wf.IsVenueAllowed("annex")).True()
	gt.Bool(t, wf.IsVenueAllowed("Basement")).False()

	var empty *config.Workflow
	gt.Bool(t, empty.IsVenueAllowed("anywhere")).True()
	gt.Bool(t, (&config.Workflow{}).IsVenueAllowed("anywhere")).True()
}

func TestWorkflow_WithDefaultItems(t *testing.T) {
	wf := &config.Workflow{
		DefaultItems: map[types.PartyRole][]string{
			types.PartyComplainant: {"photo ID"},
		},
	}

	gt.Value(t, wf.WithDefaultItems(types.PartyComplainant, []string{"receipt", "photo ID"})).
		Equal([]string{"photo ID", "receipt"})
	gt.Value(t, wf.WithDefaultItems(types.PartyRespondent, []string{"contract"})).
		Equal([]string{"contract"})

	// repeated items are the officer's choice and survive the merge
	gt.Value(t, wf.WithDefaultItems(types.PartyComplainant, []string{"receipt", "receipt"})).
		Equal([]string{"photo ID", "receipt", "receipt"})
	gt.Value(t, wf.WithDefaultItems(types.PartyComplainant, []string{"photo ID", "photo ID"})).
		Equal([]string{"photo ID"})
}

func TestWorkflow_GetTokenTTL(t *testing.T) {
	var empty *config.Workflow
	gt.Value(t, empty.GetTokenTTL()).Equal(config.DefaultTokenTTL)
	gt.Value(t, (&config.Workflow{TokenTTL: time.Hour}).GetTokenTTL()).Equal(time.Hour)
}
