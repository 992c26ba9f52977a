package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CardChase151/clients-sub001/internal/store/pg"
	migrations "github.com/CardChase151/clients-sub001/migrations/postgres"
)

func (c *cli) migrateCmd() *cobra.Command {
	var dsn string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				dsn = c.cfg.Store.DatabaseURL
			}
			if dsn == "" {
				return fmt.Errorf("DATABASE_URL or --dsn is required")
			}

			ctx := cmd.Context()
			s, err := pg.New(ctx, dsn, pg.Options{MaxConns: 2})
			if err != nil {
				return err
			}
			defer s.Close()

			res, err := s.Migrate(ctx, migrations.FS, ".")
			if err != nil {
				return err
			}
			return c.print(cmd, res, fmt.Sprintf("applied=%v skipped=%v in %s", res.Applied, res.Skipped, res.Duration))
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string (default DATABASE_URL)")
	return cmd
}
