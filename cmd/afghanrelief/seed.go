package main

import (
	"context"
	"fmt"

	"afghanrelief/internal/db"
	"afghanrelief/internal/seed"
	"afghanrelief/internal/store"

	"github.com/k0kubun/pp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with initial data",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		campaignsRepo := store.NewCampaignRepository(pool)

		logrus.Info("Seeding emergency campaigns...")
		created, err := seed.SeedCampaigns(ctx, campaignsRepo)
		if err != nil {
			return fmt.Errorf("failed to seed campaigns: %w", err)
		}

		pp.Println(created)

		logrus.WithField("created", len(created)).Info("Campaigns seeded successfully")

		return nil
	},
}
