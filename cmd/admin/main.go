package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"horizon/internal/domain/banklink"
	"horizon/internal/domain/identity"
	"horizon/internal/domain/onboarding"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/postgres"
	"horizon/internal/shared/auth"
	"horizon/internal/shared/config"
	"horizon/internal/shared/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var timeout time.Duration

	root := &cobra.Command{
		Use:          "horizon-admin",
		Short:        "Management commands for the Horizon API",
		SilenceUsage: true,
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "timeout for the command")

	root.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply the database schema",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), timeout, func(ctx context.Context, _ *config.Config, db *postgres.DB) error {
					if err := db.Migrate(ctx); err != nil {
						return err
					}
					log.Info().Msg("schema applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "reconcile-profiles",
			Short: "Create the missing profile of every identity that has none",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), timeout, func(ctx context.Context, cfg *config.Config, db *postgres.DB) error {
					gateway := identity.NewGateway(
						postgres.NewIdentityRepository(db),
						identity.NewInMemorySessionStore(),
						auth.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL),
					)
					svc := onboarding.NewService(gateway, nil, user.NewService(postgres.NewUserRepository(db)))

					repaired, err := svc.ReconcileProfiles(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "repaired %d profile(s)\n", repaired)
					return nil
				})
			},
		},
		newListLinksCmd(&timeout),
	)

	return root
}

func newListLinksCmd(timeout *time.Duration) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list-links",
		Short: "List the bank links of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), *timeout, func(ctx context.Context, cfg *config.Config, db *postgres.DB) error {
				encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
				if err != nil {
					return err
				}

				links, err := banklink.NewService(postgres.NewBankLinkRepository(db, encryptor)).ListBankLinks(ctx, userID)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tACCOUNT\tSHAREABLE ID\tCREATED")
				for _, l := range links {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l.AccountID, l.ShareableID, l.CreatedAt.Format(time.RFC3339))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "profile id of the user")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// withDB loads config, connects to the database and runs fn under a timeout.
func withDB(parent context.Context, timeout time.Duration, fn func(ctx context.Context, cfg *config.Config, db *postgres.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, true)

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	return fn(ctx, cfg, db)
}
