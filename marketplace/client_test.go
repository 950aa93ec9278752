package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(
		srv.URL+"/settings",
		srv.URL+"/offers",
		"",
		time.Second*5,
	)

	return client, srv
}

func TestClient_FetchPaymentMethods(t *testing.T) {
	t.Parallel()

	t.Run("valid catalog", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/settings", func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(&settingsResponse{
				PaymentMethods: []PaymentMethod{
					{ID: 2, Name: "Bank transfer"},
					{ID: 4, Name: "PayPal"},
				},
			})
		})

		client, _ := testClient(t, mux)

		methods, err := client.FetchPaymentMethods(context.Background())
		require.NoError(t, err)

		require.Len(t, methods, 2)
		assert.Equal(t, 2, methods[0].ID)
		assert.Equal(t, "Bank transfer", methods[0].Name)
		assert.Equal(t, "PayPal", methods[1].Name)
	})

	t.Run("invalid status code", func(t *testing.T) {
		t.Parallel()

		client, _ := testClient(
			t,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}),
		)

		methods, err := client.FetchPaymentMethods(context.Background())

		assert.Nil(t, methods)
		assert.ErrorContains(t, err, "invalid status code")
	})

	t.Run("invalid payload", func(t *testing.T) {
		t.Parallel()

		client, _ := testClient(
			t,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			}),
		)

		methods, err := client.FetchPaymentMethods(context.Background())

		assert.Nil(t, methods)
		assert.ErrorContains(t, err, "unable to decode")
	})

	t.Run("api key attached", func(t *testing.T) {
		t.Parallel()

		var capturedAuth string

		srv := httptest.NewServer(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				capturedAuth = r.Header.Get("Authorization")

				_ = json.NewEncoder(w).Encode(&settingsResponse{})
			}),
		)
		t.Cleanup(srv.Close)

		client := NewClient(srv.URL, srv.URL, "secret-key", time.Second*5)

		_, err := client.FetchPaymentMethods(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "secret-key", capturedAuth)
	})
}

func TestClient_FetchOffers(t *testing.T) {
	t.Parallel()

	t.Run("pagination to exhaustion", func(t *testing.T) {
		t.Parallel()

		// Three pages: the middle one carries no offers but still
		// has a cursor, so it must be followed
		var (
			requests []string

			cursor1 = "c1"
			cursor2 = "c2"

			pages = map[string]*offersPage{
				"": {
					Offers: []*Offer{
						{ID: "a", LocalCurrencyCode: "eur"},
						{ID: "b", LocalCurrencyCode: "gbp"},
					},
					Next: &cursor1,
				},
				"c1": {
					Offers: []*Offer{},
					Next:   &cursor2,
				},
				"c2": {
					Offers: []*Offer{
						{ID: "c", LocalCurrencyCode: "aud"},
					},
					Next: nil,
				},
			}
		)

		mux := http.NewServeMux()
		mux.HandleFunc("/offers", func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()

			assert.Equal(t, "price", query.Get("sort_by"))
			assert.Equal(t, "sell", query.Get("offer_type"))

			after := query.Get("after")
			requests = append(requests, after)

			page, ok := pages[after]
			require.True(t, ok, "unexpected cursor %q", after)

			_ = json.NewEncoder(w).Encode(page)
		})

		client, _ := testClient(t, mux)

		offers, err := client.FetchOffers(context.Background())
		require.NoError(t, err)

		// All offers, exactly once, in page order
		require.Len(t, offers, 3)
		assert.Equal(t, "a", offers[0].ID)
		assert.Equal(t, "b", offers[1].ID)
		assert.Equal(t, "c", offers[2].ID)

		assert.Equal(t, []string{"", "c1", "c2"}, requests)
	})

	t.Run("no cursor on first page", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/offers", func(w http.ResponseWriter, r *http.Request) {
			// The very first request carries no cursor at all
			assert.False(t, r.URL.Query().Has("after"))

			_ = json.NewEncoder(w).Encode(&offersPage{
				Offers: []*Offer{
					{ID: "only"},
				},
			})
		})

		client, _ := testClient(t, mux)

		offers, err := client.FetchOffers(context.Background())
		require.NoError(t, err)

		require.Len(t, offers, 1)
	})

	t.Run("page fetch failure aborts", func(t *testing.T) {
		t.Parallel()

		var requestCount int

		cursor := "next-page"

		mux := http.NewServeMux()
		mux.HandleFunc("/offers", func(w http.ResponseWriter, _ *http.Request) {
			requestCount++

			if requestCount == 1 {
				_ = json.NewEncoder(w).Encode(&offersPage{
					Offers: []*Offer{
						{ID: "a"},
					},
					Next: &cursor,
				})

				return
			}

			w.WriteHeader(http.StatusBadGateway)
		})

		client, _ := testClient(t, mux)

		offers, err := client.FetchOffers(context.Background())

		// No partial results survive a mid-pagination failure
		assert.Nil(t, offers)
		assert.ErrorContains(t, err, "unable to fetch marketplace offers")
		assert.Equal(t, 2, requestCount)
	})
}
