// Package run holds the report and serve subcommands,
// sharing the configuration surface between them
package run

import (
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sig-0/ethdeals/config"
	"github.com/sig-0/ethdeals/deals"
	"github.com/sig-0/ethdeals/marketplace"
	"github.com/sig-0/ethdeals/notify"
	"github.com/sig-0/ethdeals/rates"
)

// runCfg wraps the shared aggregation configuration
type runCfg struct {
	config *config.Config

	configPath string
	base       string
	maxAds     int
	paymentIDs string
	recipient  string
}

func (c *runCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the TOML configuration, if any",
	)

	fs.StringVar(
		&c.base,
		"base",
		"",
		"the base currency offers are normalized to (default USD)",
	)

	fs.IntVar(
		&c.maxAds,
		"max-ads",
		0,
		"the number of deals kept in the report (default 100)",
	)

	fs.StringVar(
		&c.paymentIDs,
		"payment-ids",
		"",
		"comma-separated accepted payment-method ids (default 2,4,5)",
	)

	fs.StringVar(
		&c.recipient,
		"recipient",
		"",
		"the notification email recipient; empty disables notifications",
	)
}

// loadConfig reads the TOML configuration, if any,
// and applies the flag overrides on top of it
func (c *runCfg) loadConfig() error {
	if c.configPath != "" {
		cfg, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read config, %w", err)
		}

		c.config = cfg
	}

	if c.base != "" {
		c.config.Rates.Base = strings.ToUpper(c.base)
	}

	if c.maxAds > 0 {
		c.config.Report.MaxAds = c.maxAds
	}

	if c.recipient != "" {
		c.config.Mailgun.Recipient = c.recipient
	}

	if c.paymentIDs != "" {
		ids, err := parsePaymentIDs(c.paymentIDs)
		if err != nil {
			return fmt.Errorf("unable to parse payment ids, %w", err)
		}

		c.config.Report.AcceptedMethodIDs = ids
	}

	return nil
}

// parsePaymentIDs parses a comma-separated payment-method id list
func parsePaymentIDs(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))

	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// buildPipeline wires the aggregation pipeline from the configuration
func buildPipeline(cfg *config.Config, logger *slog.Logger) *deals.Pipeline {
	market := marketplace.NewClient(
		cfg.Marketplace.SettingsURL,
		cfg.Marketplace.OffersURL,
		cfg.Marketplace.APIKey,
		time.Duration(cfg.Marketplace.TimeoutSeconds)*time.Second,
	)

	rateClient := rates.NewClient(
		cfg.Rates.ConvertURL,
		cfg.Rates.APIKey,
		time.Duration(cfg.Rates.TimeoutSeconds)*time.Second,
	)

	opts := []deals.Option{
		deals.WithLogger(logger),
		deals.WithBase(strings.ToUpper(cfg.Rates.Base)),
		deals.WithMaxAds(cfg.Report.MaxAds),
		deals.WithAcceptedMethods(cfg.Report.AcceptedMethodIDs),
	}

	// Without a recipient, the notification send is skipped entirely
	if cfg.Mailgun.Recipient != "" {
		opts = append(opts, deals.WithNotifier(
			notify.NewMailgun(
				cfg.Mailgun.Domain,
				cfg.Mailgun.APIKey,
				cfg.Mailgun.Recipient,
				cfg.Mailgun.Sender,
			),
		))
	}

	return deals.New(market, rateClient, opts...)
}
