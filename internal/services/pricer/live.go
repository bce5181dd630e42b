package pricer

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
	"github.com/Trademarathon/portfolio-tracker-sub003/pkg/retrier"
)

// LivePricer fetches the current USD quote for one asset symbol.
type LivePricer interface {
	GetPrice(ctx context.Context, asset string) (decimal.Decimal, error)
}

// RefreshPrices overlays live quotes onto the snapshot map for every asset
// seen in the batch. Quote failures keep the stale snapshot value: a missing
// refresh is acceptable, an aborted run is not.
func RefreshPrices(ctx context.Context, live LivePricer, events []domain.ActivityEvent, prices map[string]decimal.Decimal, logger *zap.Logger) map[string]decimal.Decimal {
	refreshed := make(map[string]decimal.Decimal, len(prices))
	for symbol, price := range prices {
		refreshed[domain.NormalizeAsset(symbol)] = price
	}
	if live == nil {
		return refreshed
	}

	retry := retrier.New()
	seen := make(map[string]struct{})
	for _, event := range events {
		asset := event.NormalizedAsset()
		if asset == "" {
			continue
		}
		if _, ok := seen[asset]; ok {
			continue
		}
		seen[asset] = struct{}{}

		price, err := retrier.DoWithData(retry, ctx, func(ctx context.Context) (decimal.Decimal, error) {
			return live.GetPrice(ctx, asset)
		})
		if err != nil {
			logger.Warn("live quote refresh failed, keeping snapshot price",
				zap.String("asset", asset), zap.Error(err))
			continue
		}
		if price.IsPositive() {
			refreshed[asset] = price
		}
	}
	return refreshed
}
