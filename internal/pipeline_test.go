package internal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

func TestPipelineRunBuildsFullReport(t *testing.T) {
	now := time.UnixMilli(100 * 60 * 60 * 1000)
	pipeline := NewPipelineAt(zap.NewNop(), func() time.Time { return now })

	connections := []domain.Connection{
		{ID: "conn-a", Type: "binance", Name: "Exchange A", Enabled: true},
	}
	events := []domain.ActivityEvent{
		{ID: "buy", Timestamp: now.UnixMilli() - 2*60*60*1000, Symbol: "BTC",
			Amount: decimal.NewFromInt(1), Activity: domain.ActivityTrade,
			Side: domain.SideBuy, Price: decimal.NewFromInt(50000), ConnectionID: "conn-a"},
		{ID: "withdraw", Timestamp: now.UnixMilli() - 60*60*1000, Symbol: "BTC",
			Amount: decimal.NewFromInt(1), Activity: domain.ActivityTransfer,
			Type: "withdrawal", ConnectionID: "conn-a"},
	}

	report := pipeline.Run(events, connections, nil)

	require.Equal(t, now.UnixMilli(), report.GeneratedAt)
	require.Len(t, report.Events, 2)
	require.NotEmpty(t, report.Routes)
	require.NotEmpty(t, report.Memory)
	require.Equal(t, now.UnixMilli()-60*60*1000, report.Kpi.LastMovementAt)
	require.True(t, report.Kpi.MovedUSD.IsPositive())
	require.NotEmpty(t, report.Anomaly.TopRoutes)
}

func TestPipelineRunOnEmptyInput(t *testing.T) {
	pipeline := NewPipelineAt(zap.NewNop(), func() time.Time { return time.UnixMilli(1000) })

	report := pipeline.Run(nil, nil, nil)

	require.Empty(t, report.Events)
	require.Empty(t, report.Routes)
	require.True(t, report.Kpi.MovedUSD.IsZero())
}
