package rates

import "context"

type convertDelegate func(context.Context, []string) (map[string]float64, error)

type mockConverter struct {
	convertFn convertDelegate
}

func (m *mockConverter) Convert(ctx context.Context, pairs []string) (map[string]float64, error) {
	if m.convertFn != nil {
		return m.convertFn(ctx, pairs)
	}

	return nil, nil
}
