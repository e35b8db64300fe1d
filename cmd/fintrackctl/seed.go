package main

import (
	"github.com/fintrack/fintrack-backend/internal/repository/postgres"
	"github.com/fintrack/fintrack-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func seedCategoriesCmd() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "seed-categories",
		Short: "Create the default categories for an owner",
		Long:  `Creates each default category the owner does not have yet. Running it twice is harmless.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ownerID, err := parseOwner(owner)
			if err != nil {
				return err
			}

			pool, err := openPool(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			categories := service.NewCategoryService(
				postgres.NewCategoryRepository(pool),
				postgres.NewTransactionRepository(pool),
				nil,
			)
			created, err := categories.SeedDefaultCategories(cmd.Context(), ownerID)
			if err != nil {
				return err
			}

			for _, c := range created {
				log.Info().Int32("category_id", c.ID).Str("name", c.Name).Msg("Category created")
			}
			log.Info().Str("owner_id", ownerID.String()).Int("created", len(created)).Msg("Default categories seeded")
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner (user) ID")
	return cmd
}
