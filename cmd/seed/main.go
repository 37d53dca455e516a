package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/autoigdm/api/config"
	"github.com/autoigdm/api/pkg/container"
	"github.com/autoigdm/api/pkg/models"
	"github.com/autoigdm/api/pkg/testdata"
)

func main() {
	email := flag.String("email", "demo@autoigdm.dev", "demo user email")
	password := flag.String("password", "demo-password", "demo user password")
	accounts := flag.Int("accounts", 2, "instagram accounts to create")
	campaigns := flag.Int("campaigns", 3, "campaigns per account")
	activate := flag.Int("activate-every", 2, "activate every Nth campaign (0 = none)")
	seed := flag.Int64("seed", 0, "fixture seed (0 = random)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️  No .env file found, using environment")
	}

	cfg := config.Load()
	if cfg.Store == "memory" {
		log.Fatalf("❌ STORE=memory would discard the seeded data, use the sql store")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	c, err := container.New(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("❌ Failed to initialize services: %v", err)
	}
	defer c.Close()

	log.Printf("🌱 Seeding %d accounts with %d campaigns each", *accounts, *campaigns)

	result, err := testdata.NewGenerator(*seed).Seed(ctx, c.Auth, c.Accounts, c.Campaigns, testdata.SeedConfig{
		User:                models.RegisterRequest{Email: *email, Password: *password, Name: "Demo User"},
		Accounts:            *accounts,
		CampaignsPerAccount: *campaigns,
		ActivateEveryNth:    *activate,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✅ Created user %s (%s)", result.User.Email, result.User.ID)
	for _, campaign := range result.Campaigns {
		log.Printf("   • %s [%s] → %s", campaign.Name, campaign.Status, campaign.TargetAudience)
	}
	log.Printf("🔑 Token: %s", result.Token)
}
