package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sig-0/ethdeals/deals"
)

var (
	errUnableToFetchResult = errors.New("unable to fetch latest result")
	errNoCompletedRun      = errors.New("no completed run yet")
)

// Report serves the latest rendered report as plain text
func (s *Server) Report(w http.ResponseWriter, r *http.Request) {
	result, ok := s.latestResult(r.Context(), w)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write([]byte(result.Report)) //nolint:errcheck // Fine to ignore
}

// Offers serves the enriched offer set of the latest run
func (s *Server) Offers(w http.ResponseWriter, r *http.Request) {
	result, ok := s.latestResult(r.Context(), w)
	if !ok {
		return
	}

	resp := &OffersResponse{
		Results:     result.Offers,
		GeneratedAt: result.GeneratedAt,
	}

	writeJSON(w, http.StatusOK, resp)
}

// Rates serves the conversion-rate table of the latest run
func (s *Server) Rates(w http.ResponseWriter, r *http.Request) {
	result, ok := s.latestResult(r.Context(), w)
	if !ok {
		return
	}

	resp := &RatesResponse{
		Results:     result.Rates,
		GeneratedAt: result.GeneratedAt,
	}

	writeJSON(w, http.StatusOK, resp)
}

// latestResult fetches the latest completed run, writing the
// appropriate error response when there is none to serve
func (s *Server) latestResult(ctx context.Context, w http.ResponseWriter) (*deals.Result, bool) {
	result, err := s.store.LatestResult(ctx)
	if err != nil {
		s.logger.Debug(
			"unable to fetch latest result",
			"err", err,
		)

		writeError(
			w,
			http.StatusInternalServerError,
			errUnableToFetchResult,
		)

		return nil, false
	}

	if result == nil {
		writeError(w, http.StatusServiceUnavailable, errNoCompletedRun)

		return nil, false
	}

	return result, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // Fine to ignore
}

func writeError(w http.ResponseWriter, status int, err error) {
	resp := &ErrorResponse{
		Error: err.Error(),
	}

	writeJSON(w, status, resp)
}
