package marketplace

import (
	"sort"
	"strings"
)

// Listing is the fully accumulated offer set of a single run,
// restricted to a set of accepted payment methods
type Listing struct {
	raw      []*Offer
	accepted map[int]struct{}

	offers   []*Offer
	computed bool
}

// NewListing creates a listing over the raw accumulated offers.
// Only offers whose payment method is in acceptedIDs are exposed
func NewListing(raw []*Offer, acceptedIDs []int) *Listing {
	accepted := make(map[int]struct{}, len(acceptedIDs))
	for _, id := range acceptedIDs {
		accepted[id] = struct{}{}
	}

	return &Listing{
		raw:      raw,
		accepted: accepted,
	}
}

// Offers returns the offers that use an accepted payment method.
// The filter runs at most once; the result is latched even when empty,
// so repeated calls never re-apply the filter
func (l *Listing) Offers() []*Offer {
	if l.computed {
		return l.offers
	}

	filtered := make([]*Offer, 0, len(l.raw))

	for _, offer := range l.raw {
		if _, ok := l.accepted[offer.PaymentMethodID]; ok {
			filtered = append(filtered, offer)
		}
	}

	l.offers = filtered
	l.computed = true

	return l.offers
}

// Currencies returns the distinct, uppercased local currency codes
// present in the filtered offer set, sorted for determinism
func (l *Listing) Currencies() []string {
	seen := make(map[string]struct{})

	for _, offer := range l.Offers() {
		seen[strings.ToUpper(offer.LocalCurrencyCode)] = struct{}{}
	}

	currencies := make([]string, 0, len(seen))
	for currency := range seen {
		currencies = append(currencies, currency)
	}

	sort.Strings(currencies)

	return currencies
}
