// Package costbasis keeps a running average-cost position per asset using
// weighted-average accounting. Transitions are path-dependent: callers must
// feed events in strictly ascending timestamp order.
package costbasis

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

type position struct {
	quantity     decimal.Decimal
	totalCostUSD decimal.Decimal
}

// Tracker is the per-asset cost-basis state machine.
type Tracker struct {
	positions map[string]position
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{positions: make(map[string]position)}
}

// AverageCost returns the current average USD cost per unit for the asset,
// zero when no position is open.
func (t *Tracker) AverageCost(asset string) decimal.Decimal {
	p, ok := t.positions[asset]
	if !ok || !p.quantity.IsPositive() {
		return decimal.Zero
	}
	return p.totalCostUSD.Div(p.quantity)
}

// Position returns the open quantity and accumulated USD cost for the asset.
func (t *Tracker) Position(asset string) (quantity, totalCostUSD decimal.Decimal) {
	p := t.positions[asset]
	if p.quantity.IsZero() {
		return decimal.Zero, decimal.Zero
	}
	return p.quantity, p.totalCostUSD
}

// Apply advances the asset's state with one event. priceUSD is the resolved
// market price at event time and is consulted only when the transition needs
// it; priced reports whether it is usable. Event shapes with no basis meaning
// are no-ops.
func (t *Tracker) Apply(event domain.ActivityEvent, priceUSD decimal.Decimal, priced bool) {
	asset := event.NormalizedAsset()
	if asset == "" || !event.Amount.IsPositive() {
		return
	}

	switch event.Activity {
	case domain.ActivityTrade:
		switch event.Side {
		case domain.SideBuy:
			// never fabricate basis from an unknown price
			if priced {
				t.acquire(asset, event.Amount, priceUSD, event.FeeUSD)
			}
		case domain.SideSell:
			t.consume(asset, event.Amount)
		}
	case domain.ActivityTransfer, domain.ActivityInternal:
		switch transferDirection(event.Type) {
		case directionOut:
			// a basis transfer out, not a realization
			t.consume(asset, event.Amount)
		case directionIn:
			avg := t.AverageCost(asset)
			if avg.IsPositive() {
				// shuffling between connections preserves the existing basis
				t.acquire(asset, event.Amount, avg, decimal.Zero)
			} else if priced {
				t.acquire(asset, event.Amount, priceUSD, decimal.Zero)
			}
		}
	}
}

func (t *Tracker) acquire(asset string, amount, priceUSD, feeUSD decimal.Decimal) {
	p := t.positions[asset]
	cost := amount.Mul(priceUSD)
	if feeUSD.IsPositive() {
		cost = cost.Add(feeUSD)
	}
	p.quantity = p.quantity.Add(amount)
	p.totalCostUSD = p.totalCostUSD.Add(cost)
	t.positions[asset] = p
}

// consume removes up to amount units at the current average cost. Oversells
// clamp to the available quantity so neither side ever goes negative.
func (t *Tracker) consume(asset string, amount decimal.Decimal) {
	p := t.positions[asset]
	if !p.quantity.IsPositive() {
		return
	}

	consumed := amount
	if consumed.GreaterThan(p.quantity) {
		consumed = p.quantity
	}

	avg := p.totalCostUSD.Div(p.quantity)
	p.quantity = p.quantity.Sub(consumed)
	if p.quantity.IsPositive() {
		p.totalCostUSD = p.totalCostUSD.Sub(consumed.Mul(avg))
	} else {
		p.quantity = decimal.Zero
		p.totalCostUSD = decimal.Zero
	}
	t.positions[asset] = p
}

type direction int

const (
	directionNone direction = iota
	directionIn
	directionOut
)

// transferDirection probes the raw type string for the movement direction.
func transferDirection(rawType string) direction {
	t := strings.ToLower(rawType)
	switch {
	case strings.Contains(t, "withdraw"), strings.Contains(t, "transfer_out"), strings.HasSuffix(t, "_out"):
		return directionOut
	case strings.Contains(t, "deposit"), strings.Contains(t, "transfer_in"), strings.HasSuffix(t, "_in"):
		return directionIn
	default:
		return directionNone
	}
}
