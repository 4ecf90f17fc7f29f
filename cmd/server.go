package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biosecret/go-todo/app"
	"github.com/biosecret/go-todo/config"
	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return app.SetupAndRunApp(cmd.Context(), cfg)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the PostgreSQL schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Store != config.StorePostgres {
			return errors.New("migrate needs STORE=postgres")
		}

		pg, err := database.StartPostgreSQL(cmd.Context(), cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()

		if err := pg.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote <username-or-email>",
	Short: "Grant the admin role to an existing account",
	Long: `Grant the admin role to an existing account.

No API route can create the first admin, so operators bootstrap one here.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Store != config.StorePostgres {
			return errors.New("promote needs STORE=postgres, the memory store does not outlive the server")
		}

		store, _, closeStore, err := app.OpenStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		user, err := services.NewUserService(store).Promote(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("promote %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now %s\n", user.Username, user.ID, user.Role)
		return nil
	},
}
