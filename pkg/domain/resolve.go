package domain

import (
	"context"

	"github.com/autoigdm/api/pkg/models"
)

// ResolveAccounts attaches each campaign's Instagram account in one lookup.
// Campaigns whose account was removed keep the bare ID.
func ResolveAccounts(ctx context.Context, accounts AccountRepository, list ...*models.Campaign) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.InstagramAccount.ID)
	}
	found, err := accounts.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, c := range list {
		if a, ok := found[c.InstagramAccount.ID]; ok {
			c.InstagramAccount.Resolve(a)
		}
	}
	return nil
}
