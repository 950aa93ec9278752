package store

import (
	"context"

	"github.com/sig-0/ethdeals/deals"
)

// Store is an abstraction over completed pipeline runs
type Store interface {
	// SaveResult stores the result of a completed run
	SaveResult(context.Context, *deals.Result) error

	// LatestResult returns the most recent completed run, nil if none exists
	LatestResult(context.Context) (*deals.Result, error)
}
