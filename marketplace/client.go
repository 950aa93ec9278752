package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultSettingsURL = "https://api.localethereum.com/v1/settings"
	DefaultOffersURL   = "https://api.localethereum.com/v1/offers/find"
)

// Client fetches sell offers and payment-method metadata
// from the LocalEthereum marketplace API
type Client struct {
	client *http.Client

	settingsURL string
	offersURL   string
	apiKey      string
}

// NewClient creates a new marketplace API client
func NewClient(settingsURL, offersURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		settingsURL: settingsURL,
		offersURL:   offersURL,
		apiKey:      apiKey,
	}
}

// FetchPaymentMethods fetches the payment-method catalog from
// the marketplace settings endpoint
func (c *Client) FetchPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	var settings settingsResponse

	if err := c.getJSON(ctx, c.settingsURL, &settings); err != nil {
		return nil, fmt.Errorf("unable to fetch marketplace settings: %w", err)
	}

	return settings.PaymentMethods, nil
}

// FetchOffers walks the cursor-paginated offer listing to exhaustion,
// sorted by price, offer type fixed to "sell".
// Pagination terminates only when the returned cursor is absent --
// an empty page that still carries a cursor is followed
func (c *Client) FetchOffers(ctx context.Context) ([]*Offer, error) {
	var (
		offers = make([]*Offer, 0, 64)
		cursor *string
	)

	for {
		page, err := c.fetchPage(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("unable to fetch marketplace offers: %w", err)
		}

		offers = append(offers, page.Offers...)

		if page.Next == nil || *page.Next == "" {
			break
		}

		cursor = page.Next
	}

	return offers, nil
}

// fetchPage fetches a single page of the offer listing
func (c *Client) fetchPage(ctx context.Context, cursor *string) (*offersPage, error) {
	params := url.Values{}
	params.Set("sort_by", "price")
	params.Set("offer_type", "sell")

	if cursor != nil {
		params.Set("after", *cursor)
	}

	var page offersPage

	if err := c.getJSON(ctx, c.offersURL+"?"+params.Encode(), &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// getJSON executes a GET request against the given URL and decodes
// the JSON response into out
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("unable to create GET request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unable to decode response: %w", err)
	}

	return nil
}
