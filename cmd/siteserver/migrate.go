package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	"github.com/pacsforge/siteserver/migrations"
)

func newMigrateCmd() *cobra.Command {
	var databaseURL string
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := iofs.New(migrations.FS, ".")
			if err != nil {
				return fmt.Errorf("load embedded migrations: %w", err)
			}
			m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
			if err != nil {
				return fmt.Errorf("open migration target: %w", err)
			}
			defer m.Close()

			if down {
				err = m.Steps(-1)
			} else {
				err = m.Up()
			}
			if errors.Is(err, migrate.ErrNoChange) {
				fmt.Println("schema is up to date")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&databaseURL, "database-url", "", "postgres URL of the target database")
	cmd.Flags().BoolVar(&down, "down", false, "roll back one migration step instead of migrating up")
	_ = cmd.MarkFlagRequired("database-url")
	return cmd
}
