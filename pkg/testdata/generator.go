// Package testdata generates realistic fixture data for seeding and tests.
package testdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/autoigdm/api/pkg/models"
)

// Audiences are the niches demo campaigns are aimed at
var Audiences = []string{
	"fitness enthusiasts",
	"vegan home cooks",
	"indie game developers",
	"weekend trail runners",
	"small bakery owners",
	"yoga teachers",
	"vintage fashion collectors",
	"first-time home buyers",
}

// accountSuffixes make generated handles look like business accounts
var accountSuffixes = []string{"studio", "co", "hq", "daily", "official", "collective"}

// Generator produces fixture requests. A fixed seed yields the same data
// on every run.
type Generator struct {
	faker *gofakeit.Faker
	title cases.Caser
}

// NewGenerator creates a generator. seed 0 picks a random seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		title: cases.Title(language.English),
	}
}

// RegisterRequest generates a user with a unique-looking email
func (g *Generator) RegisterRequest() models.RegisterRequest {
	first := g.faker.FirstName()
	last := g.faker.LastName()
	return models.RegisterRequest{
		Email:    strings.ToLower(fmt.Sprintf("%s.%s%d@%s", first, last, g.faker.Number(1, 999), g.faker.DomainName())),
		Password: g.faker.Password(true, true, true, false, false, 12),
		Name:     first + " " + last,
	}
}

// AccountRequest generates an Instagram account handle and display name
func (g *Generator) AccountRequest() models.CreateInstagramAccountRequest {
	word := strings.ToLower(g.faker.Noun())
	suffix := accountSuffixes[g.faker.Number(0, len(accountSuffixes)-1)]
	return models.CreateInstagramAccountRequest{
		Username:    fmt.Sprintf("%s_%s%d", word, suffix, g.faker.Number(1, 99)),
		DisplayName: g.title.String(word + " " + suffix),
	}
}

// CampaignRequest generates a campaign for accountID
func (g *Generator) CampaignRequest(accountID string) models.CreateCampaignRequest {
	audience := Audiences[g.faker.Number(0, len(Audiences)-1)]
	return models.CreateCampaignRequest{
		Name:               g.title.String(g.faker.Adjective()+" "+g.faker.Noun()) + " Push",
		InstagramAccountID: accountID,
		TargetAudience:     audience,
	}
}

// Registrar creates users
type Registrar interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
}

// AccountCreator creates Instagram accounts
type AccountCreator interface {
	Create(ctx context.Context, ownerID string, req models.CreateInstagramAccountRequest) (*models.InstagramAccount, error)
}

// CampaignCreator creates and activates campaigns
type CampaignCreator interface {
	Create(ctx context.Context, ownerID string, req models.CreateCampaignRequest) (*models.Campaign, error)
	Activate(ctx context.Context, ownerID, campaignID string) (*models.Campaign, error)
}

// SeedConfig controls how much data Seed creates
type SeedConfig struct {
	User                models.RegisterRequest // generated when Email is empty
	Accounts            int
	CampaignsPerAccount int
	ActivateEveryNth    int // 0 leaves every campaign in draft
}

// SeedResult summarizes what Seed created
type SeedResult struct {
	User      *models.UserInfo
	Token     string
	Accounts  []*models.InstagramAccount
	Campaigns []*models.Campaign
}

// Seed creates one user with accounts and campaigns through the services,
// activating every ActivateEveryNth campaign.
func (g *Generator) Seed(ctx context.Context, users Registrar, accounts AccountCreator, campaigns CampaignCreator, cfg SeedConfig) (*SeedResult, error) {
	userReq := cfg.User
	if userReq.Email == "" {
		userReq = g.RegisterRequest()
	}

	auth, err := users.Register(ctx, userReq)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", userReq.Email, err)
	}
	result := &SeedResult{User: auth.User, Token: auth.Token}

	n := 0
	for i := 0; i < cfg.Accounts; i++ {
		account, err := accounts.Create(ctx, auth.User.ID, g.AccountRequest())
		if err != nil {
			return nil, fmt.Errorf("create account: %w", err)
		}
		result.Accounts = append(result.Accounts, account)

		for j := 0; j < cfg.CampaignsPerAccount; j++ {
			campaign, err := campaigns.Create(ctx, auth.User.ID, g.CampaignRequest(account.ID))
			if err != nil {
				return nil, fmt.Errorf("create campaign: %w", err)
			}
			n++
			if cfg.ActivateEveryNth > 0 && n%cfg.ActivateEveryNth == 0 {
				if campaign, err = campaigns.Activate(ctx, auth.User.ID, campaign.ID); err != nil {
					return nil, fmt.Errorf("activate campaign: %w", err)
				}
			}
			result.Campaigns = append(result.Campaigns, campaign)
		}
	}

	return result, nil
}
