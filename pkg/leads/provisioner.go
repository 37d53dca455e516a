// Package leads seeds campaigns with the fixed set of demo prospects.
package leads

import (
	"context"
	"fmt"

	"github.com/autoigdm/api/pkg/domain"
	"github.com/autoigdm/api/pkg/models"
)

// DemoLead describes one synthetic prospect
type DemoLead struct {
	Username    string
	DisplayName string
}

// DemoLeads is the fixed provisioning set, in creation order
var DemoLeads = []DemoLead{
	{Username: "fitness_lover_22", DisplayName: "Fitness Lover"},
	{Username: "healthy_lifestyle", DisplayName: "Healthy Lifestyle"},
	{Username: "workout_daily", DisplayName: "Workout Daily"},
}

// Provisioner creates demo leads for a campaign
type Provisioner struct {
	demo []DemoLead
}

// NewProvisioner returns a provisioner using DemoLeads
func NewProvisioner() *Provisioner {
	return &Provisioner{demo: DemoLeads}
}

// ProvisionDemoLeads ensures every demo lead exists for the campaign and
// returns them in provisioning order. Leads that already exist are returned
// as stored, so repeated calls create nothing new.
func (p *Provisioner) ProvisionDemoLeads(ctx context.Context, store domain.Store, campaignID string) ([]*models.Lead, error) {
	out := make([]*models.Lead, 0, len(p.demo))
	for i, d := range p.demo {
		existing, err := store.Leads().FindByUsername(ctx, campaignID, d.Username)
		if err == nil {
			out = append(out, existing)
			continue
		}
		if !domain.IsNotFound(err) {
			return nil, fmt.Errorf("lookup demo lead %s: %w", d.Username, err)
		}

		lead := &models.Lead{
			CampaignID:  campaignID,
			Username:    d.Username,
			DisplayName: d.DisplayName,
			IsDemo:      true,
			Position:    i,
		}
		if err := store.Leads().Create(ctx, lead); err != nil {
			return nil, fmt.Errorf("create demo lead %s: %w", d.Username, err)
		}
		out = append(out, lead)
	}
	return out, nil
}
