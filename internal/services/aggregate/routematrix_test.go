package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

func movement(route string, ts int64, valueUSD, feeUSD int64) domain.ActivityEventEnriched {
	return domain.ActivityEventEnriched{
		RouteKey:       route,
		Timestamp:      ts,
		Amount:         decimal.NewFromInt(1),
		MarketValueUSD: decimal.NewFromInt(valueUSD),
		FeeUSD:         decimal.NewFromInt(feeUSD),
		Priced:         true,
	}
}

func TestRouteMatrixGroupsAndSorts(t *testing.T) {
	events := []domain.ActivityEventEnriched{
		movement("small->route:BTC", 1000, 100, 0),
		movement("big->route:ETH", 2000, 5000, 0),
		movement("big->route:ETH", 3000, 5000, 0),
	}

	rows := RouteMatrix(events, domain.Range{})

	require.Len(t, rows, 2)
	require.Equal(t, "big->route:ETH", rows[0].RouteKey)
	require.Equal(t, 2, rows[0].Count)
	require.True(t, rows[0].TotalValueUSD.Equal(decimal.NewFromInt(10000)))
	require.Equal(t, "small->route:BTC", rows[1].RouteKey)
}

func TestRouteMatrixFeeBps(t *testing.T) {
	events := []domain.ActivityEventEnriched{
		movement("a->b:BTC", 1000, 10000, 5),
	}

	rows := RouteMatrix(events, domain.Range{})

	require.Len(t, rows, 1)
	require.True(t, rows[0].AvgFeeBps.Equal(decimal.NewFromInt(5)),
		"5 USD fee on 10000 USD notional is 5 bps, got %s", rows[0].AvgFeeBps)
}

func TestRouteMatrixZeroNotionalHasZeroBps(t *testing.T) {
	events := []domain.ActivityEventEnriched{
		{RouteKey: "a->b:XYZ", Timestamp: 1000, Amount: decimal.NewFromInt(1), FeeUSD: decimal.NewFromInt(3)},
	}

	rows := RouteMatrix(events, domain.Range{})

	require.Len(t, rows, 1)
	require.True(t, rows[0].AvgFeeBps.IsZero())
}

func TestRouteMatrixRespectsWindow(t *testing.T) {
	events := []domain.ActivityEventEnriched{
		movement("a->b:BTC", 500, 100, 0),
		movement("a->b:BTC", 1500, 200, 0),
	}

	rows := RouteMatrix(events, domain.Range{FromMs: 1000, ToMs: 2000})

	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0].Count)
	require.True(t, rows[0].TotalValueUSD.Equal(decimal.NewFromInt(200)))
}

func TestRouteMatrixTiesBreakOnRouteKey(t *testing.T) {
	events := []domain.ActivityEventEnriched{
		movement("b->c:ETH", 1000, 100, 0),
		movement("a->b:BTC", 2000, 100, 0),
	}

	rows := RouteMatrix(events, domain.Range{})

	require.Len(t, rows, 2)
	require.Equal(t, "a->b:BTC", rows[0].RouteKey)
	require.Equal(t, "b->c:ETH", rows[1].RouteKey)
}
