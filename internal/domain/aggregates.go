package domain

import "github.com/shopspring/decimal"

// Range bounds an aggregation window in ms epoch. A zero bound is open.
type Range struct {
	FromMs int64 `json:"from_ms,omitempty"`
	ToMs   int64 `json:"to_ms,omitempty"`
}

// Contains reports whether ts falls inside the range.
func (r Range) Contains(ts int64) bool {
	if r.FromMs != 0 && ts < r.FromMs {
		return false
	}
	if r.ToMs != 0 && ts > r.ToMs {
		return false
	}
	return true
}

// Bounded reports whether both ends of the range are set.
func (r Range) Bounded() bool {
	return r.FromMs != 0 && r.ToMs != 0
}

// RouteMatrixRow aggregates one route over a window.
type RouteMatrixRow struct {
	RouteKey      string          `json:"route_key"`
	Count         int             `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TotalValueUSD decimal.Decimal `json:"total_value_usd"`
	TotalFeeUSD   decimal.Decimal `json:"total_fee_usd"`
	AvgFeeBps     decimal.Decimal `json:"avg_fee_bps"`
}

// MovementMemoryRow answers "does this route look like a recurring pattern":
// the two most recent sightings plus running averages per route.
type MovementMemoryRow struct {
	RouteKey    string          `json:"route_key"`
	LastAt      int64           `json:"last_at"`
	PrevAt      int64           `json:"prev_at,omitempty"`
	AvgAmount   decimal.Decimal `json:"avg_amount"`
	AvgFeeUSD   decimal.Decimal `json:"avg_fee_usd"`
	AvgPriceUSD decimal.Decimal `json:"avg_price_usd"`
	Samples     int             `json:"samples"`
}

// FeeDriftRow compares a route's fee level in the current window against an
// equal-length immediately preceding baseline window.
type FeeDriftRow struct {
	RouteKey        string          `json:"route_key"`
	CurrentBps      decimal.Decimal `json:"current_bps"`
	BaselineBps     decimal.Decimal `json:"baseline_bps"`
	DriftBps        decimal.Decimal `json:"drift_bps"`
	CurrentSamples  int             `json:"current_samples"`
	BaselineSamples int             `json:"baseline_samples"`
}

// ActivityKpiSummary is the headline trailing-window summary.
type ActivityKpiSummary struct {
	MovedUSD       decimal.Decimal `json:"moved_usd"`
	FeeUSD         decimal.Decimal `json:"fee_usd"`
	TopRoute       string          `json:"top_route,omitempty"`
	LastMovementAt int64           `json:"last_movement_at,omitempty"`
	Window         Range           `json:"window"`
}
