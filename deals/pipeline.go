// Package deals runs the offer aggregation pipeline: marketplace offers in,
// conversion rates joined, ranked report out
package deals

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rs/xid"

	"github.com/sig-0/ethdeals/marketplace"
	"github.com/sig-0/ethdeals/notify"
	"github.com/sig-0/ethdeals/rates"
	"github.com/sig-0/ethdeals/report"
)

// DefaultMaxAds is the number of deals kept in the report
const DefaultMaxAds = 100

// DefaultAcceptedMethods are the payment-method ids accepted by default:
// 2: bank transfer, 4: PayPal, 5: international wire
var DefaultAcceptedMethods = []int{2, 4, 5}

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// OfferSource produces the payment-method catalog and the raw offer set
type OfferSource interface {
	// FetchPaymentMethods fetches the payment-method catalog
	FetchPaymentMethods(ctx context.Context) ([]marketplace.PaymentMethod, error)

	// FetchOffers fetches the complete, unfiltered offer set
	FetchOffers(ctx context.Context) ([]*marketplace.Offer, error)
}

// RateSource resolves conversion rates to the base currency
// for the currencies observed during a run
type RateSource interface {
	Rates(ctx context.Context, currencies []string, base string) (map[string]float64, error)
}

// Result is the outcome of a single pipeline run
type Result struct {
	ID          string               `json:"id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Offers      []*marketplace.Offer `json:"offers"`
	Currencies  []string             `json:"currencies"`
	Rates       map[string]float64   `json:"rates"`
	Report      string               `json:"report"`
}

// Pipeline wires the offer source, the rate source and the report builder
// into one sequential run
type Pipeline struct {
	source   OfferSource
	rates    RateSource
	notifier notify.Notifier
	logger   *slog.Logger
	out      io.Writer

	base            string
	maxAds          int
	acceptedMethods []int
}

// New creates a new pipeline instance
func New(source OfferSource, rateSource RateSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:          source,
		rates:           rateSource,
		logger:          noopLogger,
		out:             os.Stdout,
		base:            rates.DefaultBase,
		maxAds:          DefaultMaxAds,
		acceptedMethods: DefaultAcceptedMethods,
	}

	// Apply the options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes one full aggregation run: accumulate all offer pages, filter
// by accepted payment method, resolve conversion rates for the observed
// currencies, build the ranked report and print it to the output writer.
// Every phase failure is terminal; only notification delivery is best effort
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	var (
		runID = xid.New()
		start = time.Now().UTC()

		logger = p.logger.With("run_id", runID.String())
	)

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Fetching data...")
	fmt.Fprintln(p.out)

	methods, err := p.source.FetchPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch payment methods: %w", err)
	}

	raw, err := p.source.FetchOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch offers: %w", err)
	}

	fmt.Fprintln(p.out, "...done.")

	listing := marketplace.NewListing(raw, p.acceptedMethods)

	var (
		offers     = listing.Offers()
		currencies = listing.Currencies()
	)

	logger.Info(
		"offers accumulated",
		"total", len(raw),
		"accepted", len(offers),
		"currencies", len(currencies),
	)

	// No surviving offers still produce an (empty) report,
	// but there is nothing to resolve rates for
	rateTable := make(map[string]float64)

	if len(currencies) > 0 {
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, "Fetching currency exchange rates...")

		rateTable, err = p.rates.Rates(ctx, currencies, p.base)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve conversion rates: %w", err)
		}

		fmt.Fprintln(p.out, "...done.")
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, "Elaborating results...")

	text, err := report.Build(offers, rateTable, methods, p.maxAds, p.base)
	if err != nil {
		return nil, fmt.Errorf("unable to build report: %w", err)
	}

	fmt.Fprint(p.out, text)

	p.deliver(ctx, logger, text)

	return &Result{
		ID:          runID.String(),
		GeneratedAt: start,
		Offers:      offers,
		Currencies:  currencies,
		Rates:       rateTable,
		Report:      text,
	}, nil
}

// deliver hands the finished report to the notifier, if one is configured.
// The report is already printed at this point, so delivery failures only warn
func (p *Pipeline) deliver(ctx context.Context, logger *slog.Logger, body string) {
	if p.notifier == nil {
		return
	}

	if err := p.notifier.Notify(ctx, report.Subject(p.maxAds), body); err != nil {
		logger.Warn(
			"unable to deliver report notification",
			"err", err,
		)

		return
	}

	logger.Info("report notification delivered")
}
