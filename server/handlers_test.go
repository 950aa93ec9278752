package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sig-0/ethdeals/deals"
	"github.com/sig-0/ethdeals/marketplace"
	"github.com/sig-0/ethdeals/store/mock"
)

func testResult() *deals.Result {
	return &deals.Result{
		ID:          "run-1",
		GeneratedAt: time.Date(2026, time.August, 30, 10, 0, 0, 0, time.UTC),
		Offers: []*marketplace.Offer{
			{
				ID:                "o1",
				LocalCurrencyCode: "EUR",
				PaymentMethodID:   2,
				NormalizedPrice:   110,
				PaymentMethodName: "Bank transfer",
				Link:              "https://localethereum.com/offer/o1",
			},
		},
		Currencies: []string{"EUR"},
		Rates:      map[string]float64{"EUR": 1.1},
		Report:     "rendered report",
	}
}

// serveRequest runs a single GET against the server mux
func serveRequest(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()

	s.mux.ServeHTTP(rec, req)

	return rec
}

func TestServer_Report(t *testing.T) {
	t.Parallel()

	t.Run("latest report served", func(t *testing.T) {
		t.Parallel()

		resultStore := &mock.Store{
			LatestResultFn: func(_ context.Context) (*deals.Result, error) {
				return testResult(), nil
			},
		}

		s, err := New(resultStore)
		require.NoError(t, err)

		rec := serveRequest(t, s, "/v1/report")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(
			t,
			"text/plain; charset=utf-8",
			rec.Header().Get("Content-Type"),
		)
		assert.Equal(t, "rendered report", rec.Body.String())
	})

	t.Run("no completed run", func(t *testing.T) {
		t.Parallel()

		s, err := New(&mock.Store{})
		require.NoError(t, err)

		rec := serveRequest(t, s, "/v1/report")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var resp ErrorResponse

		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, errNoCompletedRun.Error(), resp.Error)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		resultStore := &mock.Store{
			LatestResultFn: func(_ context.Context) (*deals.Result, error) {
				return nil, errors.New("fetch error")
			},
		}

		s, err := New(resultStore)
		require.NoError(t, err)

		rec := serveRequest(t, s, "/v1/report")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp ErrorResponse

		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, errUnableToFetchResult.Error(), resp.Error)
	})
}

func TestServer_Offers(t *testing.T) {
	t.Parallel()

	result := testResult()

	resultStore := &mock.Store{
		LatestResultFn: func(_ context.Context) (*deals.Result, error) {
			return result, nil
		},
	}

	s, err := New(resultStore)
	require.NoError(t, err)

	rec := serveRequest(t, s, "/v1/offers")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp OffersResponse

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	require.Len(t, resp.Results, 1)
	assert.Equal(t, "o1", resp.Results[0].ID)
	assert.Equal(t, "Bank transfer", resp.Results[0].PaymentMethodName)
	assert.True(t, result.GeneratedAt.Equal(resp.GeneratedAt))
}

func TestServer_Rates(t *testing.T) {
	t.Parallel()

	result := testResult()

	resultStore := &mock.Store{
		LatestResultFn: func(_ context.Context) (*deals.Result, error) {
			return result, nil
		},
	}

	s, err := New(resultStore)
	require.NoError(t, err)

	rec := serveRequest(t, s, "/v1/rates")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RatesResponse

	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, map[string]float64{"EUR": 1.1}, resp.Results)
	assert.True(t, result.GeneratedAt.Equal(resp.GeneratedAt))
}

func TestServer_Health(t *testing.T) {
	t.Parallel()

	s, err := New(&mock.Store{})
	require.NoError(t, err)

	rec := serveRequest(t, s, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
}
