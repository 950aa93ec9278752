package rates

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultBase is the common unit offers are normalized to
const DefaultBase = "USD"

// maxPairsPerRequest is the free-tier limit of currencyconverterapi.com
const maxPairsPerRequest = 2

var ErrNoCurrencies = errors.New("no currencies to resolve")

// converter executes a single conversion request for a set of currency pairs
type converter interface {
	Convert(ctx context.Context, pairs []string) (map[string]float64, error)
}

// Resolver resolves conversion rates to a base currency,
// for a fixed set of currencies
type Resolver struct {
	converter converter

	currencies []string
	base       string
}

// NewResolver creates a resolver for the given currency set.
// The set must be non-empty; base defaults to USD
func NewResolver(conv converter, currencies []string, base string) (*Resolver, error) {
	if len(currencies) == 0 {
		return nil, ErrNoCurrencies
	}

	if base == "" {
		base = DefaultBase
	}

	// Normalize and deduplicate the set.
	// Sorting keeps the chunk partitioning deterministic
	seen := make(map[string]struct{}, len(currencies))
	for _, currency := range currencies {
		seen[strings.ToUpper(currency)] = struct{}{}
	}

	normalized := make([]string, 0, len(seen))
	for currency := range seen {
		normalized = append(normalized, currency)
	}

	sort.Strings(normalized)

	return &Resolver{
		converter:  conv,
		currencies: normalized,
		base:       strings.ToUpper(base),
	}, nil
}

// Resolve fetches the conversion rate for every currency in the set,
// issuing one request per chunk of at most 2 pairs and merging the results.
// Any chunk failure fails the whole resolution -- no partial table is returned
func (r *Resolver) Resolve(ctx context.Context) (map[string]float64, error) {
	resolved := make(map[string]float64, len(r.currencies))

	for start := 0; start < len(r.currencies); start += maxPairsPerRequest {
		end := start + maxPairsPerRequest
		if end > len(r.currencies) {
			end = len(r.currencies)
		}

		pairs := make([]string, 0, maxPairsPerRequest)
		for _, currency := range r.currencies[start:end] {
			pairs = append(pairs, currency+"_"+r.base)
		}

		chunk, err := r.converter.Convert(ctx, pairs)
		if err != nil {
			return nil, fmt.Errorf(
				"unable to convert pairs %s: %w",
				strings.Join(pairs, ","),
				err,
			)
		}

		// Each currency appears in exactly one chunk,
		// so merging by key cannot clash
		for currency, rate := range chunk {
			resolved[currency] = rate
		}
	}

	return resolved, nil
}
