// Package cli holds the rpgroster commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rpgroster/config"
	"rpgroster/logs"
)

const appName = "rpgroster"

// Version is overridden at build time with -ldflags "-X rpgroster/cli.Version=...".
var Version = "dev"

type rootOptions struct {
	configPath string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Player roster service",
		Long: `rpgroster serves a REST API over a roster of players with filtered,
paginated listing and server-side validation of every change.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("ROSTER_CONFIG"),
		"YAML config file (env: ROSTER_CONFIG); ROSTER_* variables override it")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newMigrateCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// load reads the config and builds the logger it describes.
func (o *rootOptions) load() (*config.Config, *zap.Logger, zap.AtomicLevel, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, zap.AtomicLevel{}, err
	}
	log, level := logs.New(appName, cfg.Log)
	return cfg, log, level, nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
