// Package aggregate contains the read-only reducers over the enriched event
// list: route matrix, movement memory, KPI summary, and fee-drift heatmap.
// Every reducer is a pure function of its input; re-running with the same
// arguments yields identical output.
package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

const bpsMultiplier = 10000

// RouteMatrix groups events by route key within the window and sums their
// notional, fee, and amount, sorted descending by total USD value.
func RouteMatrix(events []domain.ActivityEventEnriched, window domain.Range) []domain.RouteMatrixRow {
	byRoute := make(map[string]*domain.RouteMatrixRow)
	for _, event := range events {
		if !window.Contains(event.Timestamp) {
			continue
		}
		row, ok := byRoute[event.RouteKey]
		if !ok {
			row = &domain.RouteMatrixRow{RouteKey: event.RouteKey}
			byRoute[event.RouteKey] = row
		}
		row.Count++
		row.TotalAmount = row.TotalAmount.Add(event.Amount)
		row.TotalValueUSD = row.TotalValueUSD.Add(event.MarketValueUSD)
		row.TotalFeeUSD = row.TotalFeeUSD.Add(event.FeeUSD)
	}

	rows := make([]domain.RouteMatrixRow, 0, len(byRoute))
	for _, row := range byRoute {
		row.AvgFeeBps = feeBps(row.TotalFeeUSD, row.TotalValueUSD)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].TotalValueUSD.Cmp(rows[j].TotalValueUSD); c != 0 {
			return c > 0
		}
		return rows[i].RouteKey < rows[j].RouteKey
	})
	return rows
}

// feeBps is the fee level in basis points, zero when there is no notional.
func feeBps(feeUSD, valueUSD decimal.Decimal) decimal.Decimal {
	if !valueUSD.IsPositive() {
		return decimal.Zero
	}
	return feeUSD.Div(valueUSD).Mul(decimal.NewFromInt(bpsMultiplier))
}
