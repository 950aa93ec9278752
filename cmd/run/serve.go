package run

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/ethdeals/cmd/env"
	"github.com/sig-0/ethdeals/config"
	"github.com/sig-0/ethdeals/deals"
	"github.com/sig-0/ethdeals/server"
	"github.com/sig-0/ethdeals/store"
	"github.com/sig-0/ethdeals/store/memory"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	rootCfg *runCfg

	listenAddress  string
	refreshMinutes int
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		rootCfg: &runCfg{
			config: config.DefaultConfig(),
		},
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		LongHelp:   "Serves the latest deals report over HTTP, refreshing it periodically",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.listenAddress,
		"listen",
		"",
		"the IP:PORT URL for the server",
	)

	fs.IntVar(
		&c.refreshMinutes,
		"refresh-minutes",
		0,
		"the report refresh interval, in minutes",
	)
}

func (c *serveCfg) exec(ctx context.Context, _ []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	if err := c.rootCfg.loadConfig(); err != nil {
		return err
	}

	cfg := c.rootCfg.config

	if c.listenAddress != "" {
		cfg.Server.ListenAddress = c.listenAddress
	}

	if c.refreshMinutes > 0 {
		cfg.Server.RefreshMinutes = c.refreshMinutes
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration, %w", err)
	}

	// Completed runs live in memory only
	resultStore := memory.NewStore()

	pipeline := buildPipeline(cfg, logger)

	s, err := server.New(
		resultStore,
		server.WithLogger(logger),
		server.WithConfig(&cfg.Server),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return s.Serve(gCtx)
	})

	group.Go(func() error {
		return refreshLoop(
			gCtx,
			pipeline,
			resultStore,
			time.Duration(cfg.Server.RefreshMinutes)*time.Minute,
			logger,
		)
	})

	return group.Wait()
}

// refreshLoop runs the pipeline once on boot and then on every tick,
// publishing each completed run to the store.
// Runs are strictly serialized -- a new one starts only after
// the previous one finished
func refreshLoop(
	ctx context.Context,
	pipeline *deals.Pipeline,
	resultStore store.Store,
	interval time.Duration,
	logger *slog.Logger,
) error {
	runOnce := func() {
		result, err := pipeline.Run(ctx)
		if err != nil {
			// The previous result stays served; the next tick retries from scratch
			logger.Error(
				"aggregation run failed",
				"err", err,
			)

			return
		}

		if err := resultStore.SaveResult(ctx, result); err != nil {
			logger.Error(
				"unable to save run result",
				"err", err,
			)
		}
	}

	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("refresh loop shut down")

			return nil
		case <-ticker.C:
			runOnce()
		}
	}
}
