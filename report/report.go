// Package report turns a filtered offer set into the final ranked,
// fixed-width deal report
package report

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sig-0/ethdeals/marketplace"
)

const offerLinkTemplate = "https://localethereum.com/offer/%s"

// separatorWidth is the length of the dash rule under the header
const separatorWidth = 90

var (
	ErrMissingRate          = errors.New("missing conversion rate")
	ErrMissingPaymentMethod = errors.New("missing payment method")
)

// Build enriches the given offers with their normalized price, payment-method
// name and deep link, ranks them ascending by normalized price and renders the
// top-limit rows as a fixed-width table.
//
// A missing rate or payment method for any offer fails the whole build --
// offers are never silently skipped or zero-filled.
// Offers are enriched in place; the sort works on a copy, so the caller's
// slice order is preserved
func Build(
	offers []*marketplace.Offer,
	rates map[string]float64,
	methods []marketplace.PaymentMethod,
	limit int,
	base string,
) (string, error) {
	if err := enrich(offers, rates, methods); err != nil {
		return "", err
	}

	ranked := make([]*marketplace.Offer, len(offers))
	copy(ranked, offers)

	// Stable: offers with equal normalized prices keep their input order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].NormalizedPrice < ranked[j].NormalizedPrice
	})

	// Truncate after sorting, so the cheapest offers survive
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return render(ranked, limit, base), nil
}

// enrich populates the derived fields of every offer
func enrich(
	offers []*marketplace.Offer,
	rates map[string]float64,
	methods []marketplace.PaymentMethod,
) error {
	methodNames := make(map[int]string, len(methods))
	for _, method := range methods {
		methodNames[method.ID] = method.Name
	}

	for _, offer := range offers {
		currency := strings.ToUpper(offer.LocalCurrencyCode)

		rate, ok := rates[currency]
		if !ok {
			return fmt.Errorf("%w for currency %s", ErrMissingRate, currency)
		}

		name, ok := methodNames[offer.PaymentMethodID]
		if !ok {
			return fmt.Errorf(
				"%w for id %d",
				ErrMissingPaymentMethod,
				offer.PaymentMethodID,
			)
		}

		offer.NormalizedPrice = normalize(offer.Price.AmountIncludingTakerFee * rate)
		offer.PaymentMethodName = name
		offer.Link = fmt.Sprintf(offerLinkTemplate, offer.ID)
	}

	return nil
}

// normalize rounds a converted price to 2 decimals,
// half away from zero (math.Round)
func normalize(price float64) float64 {
	return math.Round(price*100) / 100
}

// render produces the report text: title, header, separator rule
// and one row per ranked offer
func render(offers []*marketplace.Offer, limit int, base string) string {
	var b strings.Builder

	b.WriteString("\n")
	fmt.Fprintf(&b, "Top %d cheapest buy-ethereum-online deals:\n\n", limit)

	fmt.Fprintf(
		&b,
		"%-15s | %-20s | %-10s | %s\n",
		fmt.Sprintf("Price/ETH (%s)", base),
		"Payment Method",
		"Country",
		"Link",
	)

	b.WriteString(strings.Repeat("-", separatorWidth))
	b.WriteString("\n")

	for _, offer := range offers {
		fmt.Fprintf(
			&b,
			"%-15s | %-20s | %-10s | %s\n",
			strconv.FormatFloat(offer.NormalizedPrice, 'f', 2, 64),
			offer.PaymentMethodName,
			offer.City.CountryCode,
			offer.Link,
		)
	}

	b.WriteString("\n")

	return b.String()
}

// Subject is the notification subject line for a report with the given limit
func Subject(limit int) string {
	return fmt.Sprintf("Top %d cheapest buy-ethereum-online deals", limit)
}
