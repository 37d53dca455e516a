package campaigns

import "github.com/autoigdm/api/pkg/models"

// allowedFrom lists, for each target status, the statuses a campaign may
// leave to reach it. Pausing is accepted from any status. No operation
// moves a campaign to completed.
var allowedFrom = map[models.CampaignStatus][]models.CampaignStatus{
	models.CampaignActive: {models.CampaignDraft, models.CampaignPaused},
	models.CampaignPaused: models.CampaignStatuses,
}

// AllowedFrom returns the source statuses permitted for a move to `to`.
func AllowedFrom(to models.CampaignStatus) []models.CampaignStatus {
	return allowedFrom[to]
}

// CanTransition reports whether a campaign in `from` may move to `to`.
func CanTransition(from, to models.CampaignStatus) bool {
	for _, s := range allowedFrom[to] {
		if s == from {
			return true
		}
	}
	return false
}
