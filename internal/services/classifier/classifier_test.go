package classifier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

func testDirectory() domain.ConnectionDirectory {
	return domain.NewConnectionDirectory([]domain.Connection{
		{ID: "conn-binance", Type: "binance", Name: "Binance Main", Enabled: true},
		{ID: "conn-ledger", Type: "wallet", Name: "Cold Storage", HardwareType: "ledger", Enabled: true},
		{ID: "conn-metamask", Type: "metamask", Name: "MetaMask", Enabled: true},
	})
}

func TestClassifyDepositRouteDirection(t *testing.T) {
	c := New(testDirectory())

	route := c.Classify(domain.ActivityEvent{
		ID:           "evt-1",
		Activity:     domain.ActivityTransfer,
		Type:         "deposit",
		Amount:       decimal.NewFromInt(1),
		Symbol:       "BTC",
		ConnectionID: "conn-binance",
	})

	require.Equal(t, ExternalWalletLabel, route.FromLabel)
	require.Equal(t, "Binance Main", route.ToLabel)
	require.Equal(t, domain.EntityExchange, route.ToKind)
	require.Equal(t, "External wallet->Binance Main:BTC", route.Key("BTC"))
}

func TestClassifyWithdrawalUsesDestinationPlaceholder(t *testing.T) {
	c := New(testDirectory())

	route := c.Classify(domain.ActivityEvent{
		Activity:     domain.ActivityTransfer,
		Type:         "withdrawal",
		ConnectionID: "conn-binance",
	})

	require.Equal(t, "Binance Main", route.FromLabel)
	require.Equal(t, DestinationLabel, route.ToLabel)
	require.Equal(t, domain.EntityExchange, route.FromKind)
}

func TestClassifyWithdrawalToLinkedConnection(t *testing.T) {
	c := New(testDirectory())

	route := c.Classify(domain.ActivityEvent{
		Activity:       domain.ActivityTransfer,
		Type:           "withdrawal",
		ConnectionID:   "conn-binance",
		ToConnectionID: "conn-ledger",
	})

	require.Equal(t, "Cold Storage", route.ToLabel)
	require.Equal(t, domain.EntityHardwareWallet, route.ToKind)
}

func TestClassifyInternalMoveResolvesBothEnds(t *testing.T) {
	c := New(testDirectory())

	route := c.Classify(domain.ActivityEvent{
		Activity:         domain.ActivityInternal,
		Type:             "internal_transfer",
		FromConnectionID: "conn-binance",
		ToConnectionID:   "conn-metamask",
	})

	require.Equal(t, "Binance Main", route.FromLabel)
	require.Equal(t, "MetaMask", route.ToLabel)
	require.Equal(t, domain.EntityExchange, route.FromKind)
	require.Equal(t, domain.EntitySoftwareWallet, route.ToKind)
}

func TestClassifyTradeStaysOnVenue(t *testing.T) {
	c := New(testDirectory())

	route := c.Classify(domain.ActivityEvent{
		Activity: domain.ActivityTrade,
		Type:     "spot_trade",
		Exchange: "Kraken",
	})

	require.Equal(t, "Kraken", route.FromLabel)
	require.Equal(t, "Kraken", route.ToLabel)
	require.Equal(t, domain.EntityExchange, route.FromKind)
}

func TestClassifyLabelHeuristics(t *testing.T) {
	c := New(domain.ConnectionDirectory{})

	route := c.Classify(domain.ActivityEvent{
		Activity: domain.ActivityTransfer,
		Type:     "withdrawal",
		Exchange: "Bybit",
		To:       "My Trezor vault",
	})

	require.Equal(t, domain.EntityExchange, route.FromKind)
	require.Equal(t, domain.EntityHardwareWallet, route.ToKind)
}

func TestClassifyUnknownDegradesGracefully(t *testing.T) {
	c := New(domain.ConnectionDirectory{})

	route := c.Classify(domain.ActivityEvent{
		Activity: domain.ActivityTransfer,
		Type:     "mystery",
	})

	require.Equal(t, UnknownSourceLabel, route.FromLabel)
	require.Equal(t, DestinationLabel, route.ToLabel)
	require.Equal(t, domain.EntityUnknown, route.FromKind)
	require.Equal(t, domain.EntityUnknown, route.ToKind)
}
