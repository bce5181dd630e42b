package domain

import (
	"github.com/shopspring/decimal"
)

// ActivityKind is the coarse class of an account event.
type ActivityKind string

const (
	ActivityTrade    ActivityKind = "trade"
	ActivityTransfer ActivityKind = "transfer"
	ActivityInternal ActivityKind = "internal"
)

// TradeSide marks the direction of a trade event.
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// ActivityEvent is one raw account event as delivered by the ingestion layer:
// a trade, an external transfer, or an internal move between connections.
// Optional decimal fields use zero as "not present"; optional strings are empty.
type ActivityEvent struct {
	ID        string          `yaml:"id" json:"id"`
	Timestamp int64           `yaml:"timestamp" json:"timestamp"` // ms epoch
	Symbol    string          `yaml:"symbol" json:"symbol"`
	Asset     string          `yaml:"asset,omitempty" json:"asset,omitempty"` // alias of Symbol, some sources fill this instead
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	Activity  ActivityKind    `yaml:"activity_type" json:"activity_type"`
	Type      string          `yaml:"type" json:"type"` // raw provider type string, e.g. "deposit", "withdrawal"
	Side      TradeSide       `yaml:"side,omitempty" json:"side,omitempty"`

	Price  decimal.Decimal `yaml:"price,omitempty" json:"price,omitempty"`
	Fee    decimal.Decimal `yaml:"fee,omitempty" json:"fee,omitempty"`
	FeeUSD decimal.Decimal `yaml:"fee_usd,omitempty" json:"fee_usd,omitempty"`

	FeeAsset string `yaml:"fee_asset,omitempty" json:"fee_asset,omitempty"`

	ConnectionID     string `yaml:"connection_id,omitempty" json:"connection_id,omitempty"`
	FromConnectionID string `yaml:"from_connection_id,omitempty" json:"from_connection_id,omitempty"`
	ToConnectionID   string `yaml:"to_connection_id,omitempty" json:"to_connection_id,omitempty"`

	Exchange string `yaml:"exchange,omitempty" json:"exchange,omitempty"`
	From     string `yaml:"from,omitempty" json:"from,omitempty"`
	To       string `yaml:"to,omitempty" json:"to,omitempty"`

	Address string `yaml:"address,omitempty" json:"address,omitempty"`
	TxHash  string `yaml:"tx_hash,omitempty" json:"tx_hash,omitempty"`
	Network string `yaml:"network,omitempty" json:"network,omitempty"`
}

// NormalizedAsset returns the canonical upper-case asset symbol, preferring
// Symbol over the legacy Asset alias.
func (e ActivityEvent) NormalizedAsset() string {
	s := e.Symbol
	if s == "" {
		s = e.Asset
	}
	return NormalizeAsset(s)
}
