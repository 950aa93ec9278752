package deals

import (
	"context"

	"github.com/sig-0/ethdeals/marketplace"
)

type (
	fetchPaymentMethodsDelegate func(context.Context) ([]marketplace.PaymentMethod, error)
	fetchOffersDelegate         func(context.Context) ([]*marketplace.Offer, error)
)

type mockSource struct {
	fetchPaymentMethodsFn fetchPaymentMethodsDelegate
	fetchOffersFn         fetchOffersDelegate
}

func (m *mockSource) FetchPaymentMethods(ctx context.Context) ([]marketplace.PaymentMethod, error) {
	if m.fetchPaymentMethodsFn != nil {
		return m.fetchPaymentMethodsFn(ctx)
	}

	return nil, nil
}

func (m *mockSource) FetchOffers(ctx context.Context) ([]*marketplace.Offer, error) {
	if m.fetchOffersFn != nil {
		return m.fetchOffersFn(ctx)
	}

	return nil, nil
}

type ratesDelegate func(context.Context, []string, string) (map[string]float64, error)

type mockRateSource struct {
	ratesFn ratesDelegate
}

func (m *mockRateSource) Rates(
	ctx context.Context,
	currencies []string,
	base string,
) (map[string]float64, error) {
	if m.ratesFn != nil {
		return m.ratesFn(ctx, currencies, base)
	}

	return nil, nil
}

type notifyDelegate func(context.Context, string, string) error

type mockNotifier struct {
	notifyFn notifyDelegate
}

func (m *mockNotifier) Notify(ctx context.Context, subject, body string) error {
	if m.notifyFn != nil {
		return m.notifyFn(ctx, subject, body)
	}

	return nil
}
