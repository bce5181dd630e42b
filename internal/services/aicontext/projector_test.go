package aicontext

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

func sampleReport() domain.ActivityReport {
	return domain.ActivityReport{
		Events: make([]domain.ActivityEventEnriched, 3),
		Routes: []domain.RouteMatrixRow{
			{RouteKey: "a->b:BTC", Count: 2,
				TotalValueUSD: decimal.RequireFromString("10000.456"),
				AvgFeeBps:     decimal.RequireFromString("5.125")},
		},
		Memory: []domain.MovementMemoryRow{
			{RouteKey: "a->b:BTC", LastAt: 2000, PrevAt: 1000,
				AvgAmount: decimal.RequireFromString("1.005"), Samples: 2},
		},
		Kpi: domain.ActivityKpiSummary{
			MovedUSD: decimal.RequireFromString("10000.456"),
			FeeUSD:   decimal.RequireFromString("5.004"),
			Window:   domain.Range{FromMs: 0, ToMs: 86400000},
		},
		FeeDrift: []domain.FeeDriftRow{
			{RouteKey: "a->b:BTC",
				CurrentBps:     decimal.RequireFromString("8.001"),
				BaselineBps:    decimal.RequireFromString("5.009"),
				DriftBps:       decimal.RequireFromString("2.992"),
				CurrentSamples: 1, BaselineSamples: 1},
		},
		Anomaly: domain.ActivityAnomalySeed{
			RapidRepeats: make([]domain.ActivityEventEnriched, 2),
			HourClusters: []domain.HourRouteCount{{Hour: 3, RouteKey: "a->b:BTC", Count: 3}},
			DailyVolumeTrendUSD: []decimal.Decimal{
				decimal.RequireFromString("90.0"),
				decimal.RequireFromString("101.239"),
			},
		},
	}
}

func TestProjectRoundsMoneyToTwoDecimals(t *testing.T) {
	ctx := Project(ModeOverview, sampleReport(), Filters{})

	require.Equal(t, 10000.46, ctx.MovedUSD24h)
	require.Equal(t, 5.0, ctx.FeeUSD24h)
	require.Len(t, ctx.TopRoutes, 1)
	require.Equal(t, 10000.46, ctx.TopRoutes[0].ValueUSD)
	require.Equal(t, 5.13, ctx.TopRoutes[0].AvgFeeBps)
}

func TestProjectOverviewExtras(t *testing.T) {
	ctx := Project(ModeOverview, sampleReport(), Filters{})

	require.NotNil(t, ctx.Overview)
	require.Equal(t, 2, ctx.Overview.RapidRepeatCount)
	require.Len(t, ctx.Overview.HourClusters, 1)
	require.Equal(t, 101.24, ctx.Overview.DailyVolumeSMA, "last SMA point, rounded")
	require.Nil(t, ctx.FeeDrift)
	require.Nil(t, ctx.MemorySignals)
}

func TestProjectFeeDriftMode(t *testing.T) {
	ctx := Project(ModeFeeDrift, sampleReport(), Filters{})

	require.Nil(t, ctx.Overview)
	require.Len(t, ctx.FeeDrift, 1)
	row := ctx.FeeDrift[0]
	require.Equal(t, 8.0, row.CurrentBps)
	require.Equal(t, 5.01, row.BaselineBps)
	require.Equal(t, 2.99, row.DriftBps)
}

func TestProjectMemorySignalMode(t *testing.T) {
	ctx := Project(ModeMemorySignal, sampleReport(), Filters{})

	require.Len(t, ctx.MemorySignals, 1)
	require.Equal(t, int64(2000), ctx.MemorySignals[0].LastAt)
	require.Equal(t, 1.01, ctx.MemorySignals[0].AvgAmount)
}

func TestProjectCapsListsAtFive(t *testing.T) {
	report := sampleReport()
	report.Routes = nil
	for i := 0; i < 9; i++ {
		report.Routes = append(report.Routes, domain.RouteMatrixRow{RouteKey: fmt.Sprintf("route-%d", i)})
	}

	ctx := Project(ModeRouteHealth, report, Filters{})

	require.Len(t, ctx.TopRoutes, 5)
	require.Len(t, ctx.RouteHealth, 5)
}

func TestValidMode(t *testing.T) {
	require.True(t, ValidMode(ModeOverview))
	require.True(t, ValidMode(ModeFeeDrift))
	require.False(t, ValidMode(Mode("everything")))
	require.False(t, ValidMode(Mode("")))
}
