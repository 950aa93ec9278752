package server

import (
	"time"

	"github.com/sig-0/ethdeals/marketplace"
)

type OffersResponse struct {
	Results     []*marketplace.Offer `json:"results"`
	GeneratedAt time.Time            `json:"generated_at"`
}

type RatesResponse struct {
	Results     map[string]float64 `json:"results"`
	GeneratedAt time.Time          `json:"generated_at"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
