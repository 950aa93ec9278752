package mock

import (
	"context"

	"github.com/sig-0/ethdeals/deals"
)

type (
	SaveResultDelegate   func(context.Context, *deals.Result) error
	LatestResultDelegate func(context.Context) (*deals.Result, error)
)

type Store struct {
	SaveResultFn   SaveResultDelegate
	LatestResultFn LatestResultDelegate
}

func (m *Store) SaveResult(ctx context.Context, result *deals.Result) error {
	if m.SaveResultFn != nil {
		return m.SaveResultFn(ctx, result)
	}

	return nil
}

func (m *Store) LatestResult(ctx context.Context) (*deals.Result, error) {
	if m.LatestResultFn != nil {
		return m.LatestResultFn(ctx)
	}

	return nil, nil
}
