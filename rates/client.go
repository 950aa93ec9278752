//nolint:tagliatelle // currencyconverterapi uses shortened keys
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultConvertURL = "https://free.currencyconverterapi.com/api/v5/convert"

// Client is a currencyconverterapi.com conversion client
type Client struct {
	client *http.Client

	convertURL string
	apiKey     string
}

// NewClient creates a new conversion API client
func NewClient(convertURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
		convertURL: convertURL,
		apiKey:     apiKey,
	}
}

// convertResponse is the response of the conversion endpoint,
// keyed by the requested SRC_BASE pair
type convertResponse struct {
	Results map[string]conversionResult `json:"results"`
}

type conversionResult struct {
	From string  `json:"fr"`
	To   string  `json:"to"`
	Rate float64 `json:"val"`
}

// Convert executes a single conversion request for the given SRC_BASE pairs,
// returning the rate for each source currency
func (c *Client) Convert(ctx context.Context, pairs []string) (map[string]float64, error) {
	params := url.Values{}
	params.Set("q", strings.Join(pairs, ","))

	if c.apiKey != "" {
		params.Set("apiKey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.convertURL+"?"+params.Encode(),
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create GET request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("invalid status code received: %d", resp.StatusCode)
	}

	var response convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("unable to decode response: %w", err)
	}

	rates := make(map[string]float64, len(response.Results))
	for _, result := range response.Results {
		rates[strings.ToUpper(result.From)] = result.Rate
	}

	return rates, nil
}

// Rates resolves the conversion rates for the given currencies to the base,
// using a per-call resolver
func (c *Client) Rates(
	ctx context.Context,
	currencies []string,
	base string,
) (map[string]float64, error) {
	resolver, err := NewResolver(c, currencies, base)
	if err != nil {
		return nil, err
	}

	return resolver.Resolve(ctx)
}
