package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Confidence grades how directly an event's USD price was observed.
type Confidence string

const (
	// ConfidenceHigh means the event carried its own trade price or an exact
	// same-minute sample existed in the batch.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means the price was borrowed from a trade of the same
	// asset within the interpolation window.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow means a stale live quote was used, or no price resolved.
	ConfidenceLow Confidence = "low"
)

// ActivityEventEnriched is the canonical enriched event record. It is produced
// once by the enrichment pass and consumed read-only by every aggregator.
type ActivityEventEnriched struct {
	ID        string          `json:"id"`
	Timestamp int64           `json:"ts"`
	Asset     string          `json:"asset"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      ActivityKind    `json:"kind"`
	RawType   string          `json:"raw_type"`
	Side      TradeSide       `json:"side,omitempty"`

	FromLabel        string     `json:"from_label"`
	ToLabel          string     `json:"to_label"`
	FromKind         EntityKind `json:"from_kind"`
	ToKind           EntityKind `json:"to_kind"`
	FromConnectionID string     `json:"from_connection_id,omitempty"`
	ToConnectionID   string     `json:"to_connection_id,omitempty"`
	RouteKey         string     `json:"route_key"`

	Network string `json:"network,omitempty"`
	TxHash  string `json:"tx_hash,omitempty"`
	Address string `json:"address,omitempty"`

	FeeAsset  string          `json:"fee_asset,omitempty"`
	FeeAmount decimal.Decimal `json:"fee_amount"`
	FeeUSD    decimal.Decimal `json:"fee_usd"`

	// PriceUSD is meaningful only when Priced is true; consumers must treat an
	// unpriced event as "cannot value", not as zero.
	PriceUSD   decimal.Decimal `json:"price_usd"`
	Priced     bool            `json:"priced"`
	Confidence Confidence      `json:"confidence"`

	// CostBasisUSD is the per-unit average cost of the asset at the moment the
	// event happened, before the event's own basis transition. Zero means no
	// open position.
	CostBasisUSD   decimal.Decimal `json:"cost_basis_usd"`
	MarketValueUSD decimal.Decimal `json:"market_value_usd"`
	BasisValueUSD  decimal.Decimal `json:"basis_value_usd"`

	AmountBucket int    `json:"amount_bucket"`
	BucketID     string `json:"bucket_id"`

	// LastSimilarAt is the timestamp of the previous event sharing BucketID,
	// zero when this is the first of its bucket.
	LastSimilarAt           int64   `json:"last_similar_at,omitempty"`
	LastSimilarDeltaMinutes float64 `json:"last_similar_delta_minutes,omitempty"`
}

// RouteKeyFor builds the canonical directional route identity.
func RouteKeyFor(fromLabel, toLabel, asset string) string {
	return fmt.Sprintf("%s->%s:%s", fromLabel, toLabel, asset)
}
