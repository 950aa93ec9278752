package deals

import (
	"io"
	"log/slog"

	"github.com/sig-0/ethdeals/notify"
)

type Option func(p *Pipeline)

// WithLogger specifies the logger for the pipeline
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithNotifier specifies the report notifier.
// Without one, delivery is skipped entirely
func WithNotifier(n notify.Notifier) Option {
	return func(p *Pipeline) {
		p.notifier = n
	}
}

// WithOutput specifies the writer for progress markers and the report.
// Defaults to standard output
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		p.out = w
	}
}

// WithBase specifies the base currency offers are normalized to
func WithBase(base string) Option {
	return func(p *Pipeline) {
		p.base = base
	}
}

// WithMaxAds specifies how many deals the report keeps
func WithMaxAds(maxAds int) Option {
	return func(p *Pipeline) {
		p.maxAds = maxAds
	}
}

// WithAcceptedMethods specifies the accepted payment-method ids
func WithAcceptedMethods(ids []int) Option {
	return func(p *Pipeline) {
		p.acceptedMethods = ids
	}
}
