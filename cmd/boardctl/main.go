package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/project-board/internal/client"
	"github.com/yukikurage/project-board/internal/config"
	"github.com/yukikurage/project-board/internal/logging"
	"github.com/yukikurage/project-board/internal/optimistic"
)

var Version = "dev"

// app holds what every subcommand needs once the config file is read.
type app struct {
	configPath string
	cfg        config.ClientConfig
	logger     *slog.Logger
	client     *client.Client
	syncer     *optimistic.Syncer
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	if a.configPath == "" {
		path, err := config.DefaultClientConfigPath()
		if err != nil {
			return fmt.Errorf("failed to locate config: %w", err)
		}
		a.configPath = path
	}

	cfg, err := config.LoadClient(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", a.configPath, err)
	}
	a.cfg = cfg
	a.logger = logging.NewLogger(logging.Options{
		Level:     cfg.LogLevel,
		Format:    "text",
		Component: "boardctl",
		Writer:    cmd.ErrOrStderr(),
	})
	a.client = client.New(cfg.BaseURL, client.StaticToken(cfg.Token),
		client.WithTimeout(cfg.Timeout()),
		client.WithLogger(a.logger),
	)
	a.syncer = optimistic.NewSyncer(a.client, optimistic.NewCache(cfg.StaleTime()), a.logger)
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:               "boardctl",
		Short:             "Work with project task boards from the terminal",
		Version:           Version,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/boardctl/config.toml)")

	rootCmd.AddCommand(loginCmd(a))
	rootCmd.AddCommand(logoutCmd(a))
	rootCmd.AddCommand(whoamiCmd(a))
	rootCmd.AddCommand(orgsCmd(a))
	rootCmd.AddCommand(projectsCmd(a))
	rootCmd.AddCommand(treeCmd(a))
	rootCmd.AddCommand(addCmd(a))
	rootCmd.AddCommand(toggleCmd(a))
	rootCmd.AddCommand(rmCmd(a))
	rootCmd.AddCommand(moveCmd(a))
	rootCmd.AddCommand(reorderCmd(a))

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
