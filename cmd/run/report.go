package run

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/ethdeals/cmd/env"
	"github.com/sig-0/ethdeals/config"
)

// NewReportCmd creates the report subcommand
func NewReportCmd() *ffcli.Command {
	cfg := &runCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("report", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "report",
		ShortUsage: "report [flags]",
		LongHelp:   "Runs a single aggregation pass and prints the top deals report",
		FlagSet:    fs,
		Exec:       cfg.execReport,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *runCfg) execReport(ctx context.Context, _ []string) error {
	// The report goes to stdout, so logs stay on stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	if err := c.loadConfig(); err != nil {
		return err
	}

	if err := config.ValidateConfig(c.config); err != nil {
		return fmt.Errorf("invalid configuration, %w", err)
	}

	pipeline := buildPipeline(c.config, logger)

	if _, err := pipeline.Run(ctx); err != nil {
		return fmt.Errorf("aggregation run failed, %w", err)
	}

	return nil
}
