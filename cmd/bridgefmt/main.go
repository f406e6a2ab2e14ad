// Copyright 2024-2026 Aiku AI

// Command bridgefmt rewrites IRC messages relayed by a bridge bot so they
// appear to come from the true sender on the bridged network. It consumes
// raw lines from NATS subjects, applies the configured rewrite rules, and
// republishes the result; rules live in a JetStream KV bucket and are
// managed with the `rule` subcommands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.mau.fi/util/exerrors"

	"github.com/thecliguy/format-bridge-bot-output/pkg/configstore"
	"github.com/thecliguy/format-bridge-bot-output/pkg/service"
)

// These are filled at build time with -ldflags.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "bridgefmt",
	Short:        "Reformat messages relayed by an IRC bridge bot",
	Version:      fmt.Sprintf("%s (%s, built %s)", Tag, Commit, BuildTime),
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the rewrite daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

var exampleConfigCmd = &cobra.Command{
	Use:   "example-config",
	Short: "Print an example configuration file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(service.ExampleConfig)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "bridgefmt.yaml", "path to the YAML configuration file")
	rootCmd.AddCommand(runCmd, ruleCmd, exampleConfigCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := service.LoadConfig(configPath)
	if err != nil {
		return err
	}
	log := exerrors.Must(cfg.Logging.Compile())

	nc, err := nats.Connect(cfg.NATS.URL, nats.Name("bridgefmt"))
	if err != nil {
		return fmt.Errorf("connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	defer nc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := configstore.OpenNATS(ctx, nc, cfg.NATS.Bucket)
	if err != nil {
		return err
	}

	svc := service.New(cfg, nc, store, *log)
	return svc.Run(ctx)
}

// connectStore opens the rule bucket for the administrative subcommands.
func connectStore(ctx context.Context) (*configstore.NATS, func(), error) {
	cfg, err := service.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	nc, err := nats.Connect(cfg.NATS.URL, nats.Name("bridgefmt-admin"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS at %s: %w", cfg.NATS.URL, err)
	}
	store, err := configstore.OpenNATS(ctx, nc, cfg.NATS.Bucket)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	return store, nc.Close, nil
}
