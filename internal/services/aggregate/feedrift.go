package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

type driftAccumulator struct {
	feeUSD   decimal.Decimal
	valueUSD decimal.Decimal
	samples  int
}

// FeeDrift compares each route's fee level in the current window against the
// equal-length immediately preceding baseline window. Rows are keyed off the
// current window only: a route seen solely in the baseline does not appear.
// The current range must be bounded; an unbounded range yields no rows.
func FeeDrift(events []domain.ActivityEventEnriched, current domain.Range) []domain.FeeDriftRow {
	if !current.Bounded() || current.ToMs <= current.FromMs {
		return nil
	}

	length := current.ToMs - current.FromMs
	baseline := domain.Range{FromMs: current.FromMs - length, ToMs: current.FromMs - 1}

	currentByRoute := make(map[string]*driftAccumulator)
	baselineByRoute := make(map[string]*driftAccumulator)
	for _, event := range events {
		switch {
		case current.Contains(event.Timestamp):
			accumulateDrift(currentByRoute, event)
		case baseline.Contains(event.Timestamp):
			accumulateDrift(baselineByRoute, event)
		}
	}

	rows := make([]domain.FeeDriftRow, 0, len(currentByRoute))
	for routeKey, cur := range currentByRoute {
		row := domain.FeeDriftRow{
			RouteKey:       routeKey,
			CurrentBps:     feeBps(cur.feeUSD, cur.valueUSD),
			CurrentSamples: cur.samples,
		}
		if base, ok := baselineByRoute[routeKey]; ok {
			row.BaselineBps = feeBps(base.feeUSD, base.valueUSD)
			row.BaselineSamples = base.samples
		}
		row.DriftBps = row.CurrentBps.Sub(row.BaselineBps)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].DriftBps.Abs().Cmp(rows[j].DriftBps.Abs()); c != 0 {
			return c > 0
		}
		return rows[i].RouteKey < rows[j].RouteKey
	})
	return rows
}

func accumulateDrift(byRoute map[string]*driftAccumulator, event domain.ActivityEventEnriched) {
	acc, ok := byRoute[event.RouteKey]
	if !ok {
		acc = &driftAccumulator{}
		byRoute[event.RouteKey] = acc
	}
	acc.feeUSD = acc.feeUSD.Add(event.FeeUSD)
	acc.valueUSD = acc.valueUSD.Add(event.MarketValueUSD)
	acc.samples++
}
