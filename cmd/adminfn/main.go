// Command adminfn runs the admin endpoints as a long-running server and
// exposes the same operations from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/CardChase151/clients-sub001/internal/app"
	"github.com/CardChase151/clients-sub001/internal/config"
	"github.com/CardChase151/clients-sub001/internal/observability/logger"
)

type cli struct {
	envFile    string
	configPath string
	out        string // text | json

	cfg *config.Config
}

func main() {
	if err := newRoot().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "adminfn",
		Short:         "User provisioning and transactional email admin functions",
		SilenceUsage:  true,
		Version:       app.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real env vars win.
			_ = godotenv.Load(c.envFile)

			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.App.LogLevel,
				ServiceName: "adminfn",
				Version:     app.Version,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv("CONFIG_PATH"), "optional YAML config file (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&c.out, "out", "text", "output format: text|json")

	root.AddCommand(
		c.serveCmd(),
		c.usersCmd(),
		c.emailsCmd(),
		c.migrateCmd(),
	)
	return root
}

// container builds the backends for one CLI invocation.
func (c *cli) container(ctx context.Context) (*app.Container, error) {
	return app.New(ctx, c.cfg)
}

func (c *cli) print(cmd *cobra.Command, v any, text string) error {
	if c.out == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
