package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

const hourMs = 60 * 60 * 1000

func TestKpiSumsTrailingWindow(t *testing.T) {
	nowMs := int64(100 * hourMs)
	events := []domain.ActivityEventEnriched{
		movement("a->b:BTC", nowMs-2*hourMs, 1000, 2),
		movement("a->b:BTC", nowMs-48*hourMs, 9999, 9), // outside the trailing day
	}

	summary := Kpi(events, TrailingDay(nowMs))

	require.True(t, summary.MovedUSD.Equal(decimal.NewFromInt(1000)))
	require.True(t, summary.FeeUSD.Equal(decimal.NewFromInt(2)))
}

func TestKpiTopRouteIsLargestByNotional(t *testing.T) {
	nowMs := int64(100 * hourMs)
	events := []domain.ActivityEventEnriched{
		movement("small->route:BTC", nowMs-hourMs, 100, 0),
		movement("big->route:ETH", nowMs-2*hourMs, 5000, 0),
	}

	summary := Kpi(events, TrailingDay(nowMs))

	require.Equal(t, "big->route:ETH", summary.TopRoute)
}

func TestKpiLastMovementLooksBeyondWindow(t *testing.T) {
	nowMs := int64(100 * hourMs)
	stale := nowMs - 72*hourMs
	events := []domain.ActivityEventEnriched{
		movement("a->b:BTC", stale, 1000, 0),
	}

	summary := Kpi(events, TrailingDay(nowMs))

	require.True(t, summary.MovedUSD.IsZero())
	require.Equal(t, stale, summary.LastMovementAt)
	require.Empty(t, summary.TopRoute)
}
