//nolint:tagliatelle // LocalEthereum API uses snake case
package marketplace

// PaymentMethod is a single payment channel supported by the marketplace
type PaymentMethod struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Price is the quoted offer price, in the offer's local currency
type Price struct {
	Amount                  float64 `json:"amount"`
	AmountIncludingTakerFee float64 `json:"amount_including_taker_fee"`
}

// City is the location metadata attached to an offer
type City struct {
	CountryCode string `json:"country_code"`
}

// Offer is a single sell listing returned by the marketplace.
// NormalizedPrice, PaymentMethodName and Link are derived fields,
// populated during report building
type Offer struct {
	ID                string `json:"id"`
	LocalCurrencyCode string `json:"local_currency_code"`
	PaymentMethodID   int    `json:"payment_method_id"`
	Price             Price  `json:"price"`
	City              City   `json:"city"`

	NormalizedPrice   float64 `json:"normalized_price,omitempty"`
	PaymentMethodName string  `json:"payment_method_name,omitempty"`
	Link              string  `json:"link,omitempty"`
}

// settingsResponse is the payload of the marketplace settings endpoint
type settingsResponse struct {
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

// offersPage is a single page of the paginated offer listing.
// A missing "next" cursor signals the end of the stream
type offersPage struct {
	Offers []*Offer `json:"offers"`
	Next   *string  `json:"next"`
}
