package aggregate

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

type memoryAccumulator struct {
	lastAt      int64
	prevAt      int64
	sumAmount   decimal.Decimal
	sumFeeUSD   decimal.Decimal
	sumPriceUSD decimal.Decimal
	samples     int
	priced      int
}

func (a *memoryAccumulator) observe(event domain.ActivityEventEnriched) {
	switch {
	case event.Timestamp > a.lastAt:
		a.prevAt = a.lastAt
		a.lastAt = event.Timestamp
	case event.Timestamp > a.prevAt:
		a.prevAt = event.Timestamp
	}

	a.sumAmount = a.sumAmount.Add(event.Amount)
	a.sumFeeUSD = a.sumFeeUSD.Add(event.FeeUSD)
	if event.Priced {
		a.sumPriceUSD = a.sumPriceUSD.Add(event.PriceUSD)
		a.priced++
	}
	a.samples++
}

// MovementMemory folds events into one recurrence row per route: the two most
// recent sightings plus running averages, sorted by recency.
func MovementMemory(events []domain.ActivityEventEnriched, window domain.Range) []domain.MovementMemoryRow {
	byRoute := make(map[string]*memoryAccumulator)
	for _, event := range events {
		if !window.Contains(event.Timestamp) {
			continue
		}
		acc, ok := byRoute[event.RouteKey]
		if !ok {
			acc = &memoryAccumulator{}
			byRoute[event.RouteKey] = acc
		}
		acc.observe(event)
	}

	rows := make([]domain.MovementMemoryRow, 0, len(byRoute))
	for routeKey, acc := range byRoute {
		samples := decimal.NewFromInt(int64(acc.samples))
		row := domain.MovementMemoryRow{
			RouteKey:  routeKey,
			LastAt:    acc.lastAt,
			PrevAt:    acc.prevAt,
			AvgAmount: acc.sumAmount.Div(samples),
			AvgFeeUSD: acc.sumFeeUSD.Div(samples),
			Samples:   acc.samples,
		}
		if acc.priced > 0 {
			row.AvgPriceUSD = acc.sumPriceUSD.Div(decimal.NewFromInt(int64(acc.priced)))
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LastAt != rows[j].LastAt {
			return rows[i].LastAt > rows[j].LastAt
		}
		return rows[i].RouteKey < rows[j].RouteKey
	})
	return rows
}
