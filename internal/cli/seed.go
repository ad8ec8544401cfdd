package cli

import (
	"context"
	"fmt"
	"log"

	"techlingo-service/internal/config"
	"techlingo-service/internal/seed"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

// NewSeedCmd loads the built-in term catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the term catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}

			db := openBunDB(cfg.Postgres.URL)
			defer db.Close()
			return seedTerms(cmd.Context(), db)
		},
	}
}

// seedTerms is idempotent: already-seeded names are left untouched.
func seedTerms(ctx context.Context, db *bun.DB) error {
	terms := seed.Terms()
	res, err := db.NewInsert().Model(&terms).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("seed terms: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil {
		log.Printf("seeded %d terms", rows)
	}
	return nil
}
