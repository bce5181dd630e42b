package enrich

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

const (
	minuteMs = 60 * 1000
	hourMs   = 60 * minuteMs
)

func findEvent(t *testing.T, events []domain.ActivityEventEnriched, id string) domain.ActivityEventEnriched {
	t.Helper()
	for _, e := range events {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("event %s not found", id)
	return domain.ActivityEventEnriched{}
}

func TestEnrichOutputIsNewestFirst(t *testing.T) {
	events := []domain.ActivityEvent{
		{ID: "old", Timestamp: 1000, Symbol: "BTC", Amount: decimal.NewFromInt(1), Activity: domain.ActivityTransfer, Type: "deposit"},
		{ID: "new", Timestamp: 2000, Symbol: "BTC", Amount: decimal.NewFromInt(1), Activity: domain.ActivityTransfer, Type: "deposit"},
	}

	enriched := Enrich(events, nil, nil)

	require.Len(t, enriched, 2)
	require.Equal(t, "new", enriched[0].ID)
	require.Equal(t, "old", enriched[1].ID)
}

func TestEnrichAppliesBasisTransitionsAscendingRegardlessOfInputOrder(t *testing.T) {
	// input arrives newest-first; the sell must still observe the buy's basis
	events := []domain.ActivityEvent{
		{ID: "sell", Timestamp: hourMs, Symbol: "BTC", Amount: decimal.NewFromInt(1),
			Activity: domain.ActivityTrade, Side: domain.SideSell, Price: decimal.NewFromInt(20)},
		{ID: "buy", Timestamp: 0, Symbol: "BTC", Amount: decimal.NewFromInt(1),
			Activity: domain.ActivityTrade, Side: domain.SideBuy, Price: decimal.NewFromInt(10)},
	}

	enriched := Enrich(events, nil, nil)

	sell := findEvent(t, enriched, "sell")
	require.True(t, sell.CostBasisUSD.Equal(decimal.NewFromInt(10)),
		"sell must see the pre-transition basis, got %s", sell.CostBasisUSD)

	buy := findEvent(t, enriched, "buy")
	require.True(t, buy.CostBasisUSD.IsZero(), "buy happens with no prior position")
}

func TestEnrichDropsUnusableEvents(t *testing.T) {
	events := []domain.ActivityEvent{
		{ID: "no-asset", Timestamp: 1000, Amount: decimal.NewFromInt(1), Activity: domain.ActivityTransfer, Type: "deposit"},
		{ID: "zero-amount", Timestamp: 2000, Symbol: "BTC", Amount: decimal.Zero, Activity: domain.ActivityTransfer, Type: "deposit"},
		{ID: "negative", Timestamp: 3000, Symbol: "BTC", Amount: decimal.NewFromInt(-5), Activity: domain.ActivityTransfer, Type: "deposit"},
		{ID: "ok", Timestamp: 4000, Symbol: "BTC", Amount: decimal.NewFromInt(1), Activity: domain.ActivityTransfer, Type: "deposit"},
	}

	enriched := Enrich(events, nil, nil)

	require.Len(t, enriched, 1)
	require.Equal(t, "ok", enriched[0].ID)
}

func TestEnrichBackfillsBucketRecurrence(t *testing.T) {
	events := []domain.ActivityEvent{
		{ID: "first", Timestamp: 0, Symbol: "BTC", Amount: decimal.NewFromInt(1), Activity: domain.ActivityTransfer, Type: "deposit"},
		{ID: "second", Timestamp: 30 * minuteMs, Symbol: "BTC", Amount: decimal.NewFromInt(1), Activity: domain.ActivityTransfer, Type: "deposit"},
	}

	enriched := Enrich(events, nil, nil)

	first := findEvent(t, enriched, "first")
	second := findEvent(t, enriched, "second")

	require.Equal(t, first.BucketID, second.BucketID)
	require.Zero(t, first.LastSimilarAt)
	require.Equal(t, int64(0), second.LastSimilarAt)
	require.InDelta(t, 30.0, second.LastSimilarDeltaMinutes, 0.001)
}

func TestEnrichValuationConfidenceIsSurfaced(t *testing.T) {
	events := []domain.ActivityEvent{
		{ID: "trade", Timestamp: 0, Symbol: "BTC", Amount: decimal.NewFromInt(1),
			Activity: domain.ActivityTrade, Side: domain.SideBuy, Price: decimal.NewFromInt(50000)},
		{ID: "late-transfer", Timestamp: 40 * minuteMs, Symbol: "BTC", Amount: decimal.NewFromInt(1),
			Activity: domain.ActivityTransfer, Type: "withdrawal"},
	}
	live := map[string]decimal.Decimal{"BTC": decimal.NewFromInt(51000)}

	enriched := Enrich(events, nil, live)

	trade := findEvent(t, enriched, "trade")
	require.Equal(t, domain.ConfidenceHigh, trade.Confidence)

	transfer := findEvent(t, enriched, "late-transfer")
	require.Equal(t, domain.ConfidenceLow, transfer.Confidence)
	require.True(t, transfer.PriceUSD.Equal(decimal.NewFromInt(51000)))
}

func TestEnrichIsIdempotent(t *testing.T) {
	events := []domain.ActivityEvent{
		{ID: "a", Timestamp: 0, Symbol: "BTC", Amount: decimal.NewFromInt(1),
			Activity: domain.ActivityTrade, Side: domain.SideBuy, Price: decimal.NewFromInt(50000)},
		{ID: "b", Timestamp: hourMs, Symbol: "BTC", Amount: decimal.NewFromInt(1),
			Activity: domain.ActivityTransfer, Type: "withdrawal", ConnectionID: "conn-a"},
	}
	connections := []domain.Connection{{ID: "conn-a", Type: "binance", Name: "Exchange A", Enabled: true}}
	prices := map[string]decimal.Decimal{"BTC": decimal.NewFromInt(50000)}

	first := Enrich(events, connections, prices)
	second := Enrich(events, connections, prices)

	require.Equal(t, first, second)
}

func TestEnrichEndToEndScenario(t *testing.T) {
	connections := []domain.Connection{
		{ID: "conn-a", Type: "binance", Name: "Exchange A", Enabled: true},
		{ID: "conn-w", Type: "metamask", Name: "Wallet", Enabled: true},
	}
	events := []domain.ActivityEvent{
		{ID: "buy", Timestamp: 0, Symbol: "BTC", Amount: decimal.NewFromInt(1),
			Activity: domain.ActivityTrade, Side: domain.SideBuy, Price: decimal.NewFromInt(50000),
			ConnectionID: "conn-a"},
		{ID: "withdraw", Timestamp: 25 * minuteMs, Symbol: "BTC", Amount: decimal.NewFromInt(1),
			Activity: domain.ActivityTransfer, Type: "withdrawal",
			ConnectionID: "conn-a", ToConnectionID: "conn-w"},
	}

	enriched := Enrich(events, connections, nil)
	require.Len(t, enriched, 2)

	withdraw := findEvent(t, enriched, "withdraw")
	require.True(t, withdraw.Priced)
	require.Equal(t, domain.ConfidenceMedium, withdraw.Confidence)
	require.True(t, withdraw.PriceUSD.Equal(decimal.NewFromInt(50000)),
		"withdrawal borrows the nearby trade price")
	require.True(t, withdraw.CostBasisUSD.Equal(decimal.NewFromInt(50000)),
		"basis carried from the buy")
	require.Equal(t, "Exchange A->Wallet:BTC", withdraw.RouteKey)
}
