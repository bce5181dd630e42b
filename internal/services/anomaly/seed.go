// Package anomaly folds aggregation outputs into a compact signal bundle for
// the AI context layer. Everything here is a cheap, explainable heuristic.
package anomaly

import (
	"sort"
	"time"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/shopspring/decimal"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

const (
	topRouteCount    = 5
	topDriftCount    = 5
	hourClusterCount = 8
	sampleCount      = 8

	// rapidRepeatMaxMinutes marks bucket recurrences under this delta as
	// rapid repeats.
	rapidRepeatMaxMinutes = 60.0

	// volumeTrendPeriod is the SMA period over the per-day moved-USD series.
	volumeTrendPeriod = 7

	dayMs = 24 * 60 * 60 * 1000
)

// BuildSeed assembles the anomaly seed from the enriched list (newest-first)
// and the already-computed route matrix and fee-drift outputs.
func BuildSeed(events []domain.ActivityEventEnriched, routes []domain.RouteMatrixRow, drift []domain.FeeDriftRow) domain.ActivityAnomalySeed {
	seed := domain.ActivityAnomalySeed{
		TopRoutes:           headRoutes(routes, topRouteCount),
		TopFeeDrift:         headDrift(drift, topDriftCount),
		HourClusters:        hourClusters(events),
		DailyVolumeTrendUSD: dailyVolumeTrend(events),
	}

	for _, event := range events {
		if event.LastSimilarAt > 0 && event.LastSimilarDeltaMinutes < rapidRepeatMaxMinutes {
			seed.RapidRepeats = append(seed.RapidRepeats, event)
		}
		if event.Confidence == domain.ConfidenceHigh && len(seed.HighConfidenceSamples) < sampleCount {
			seed.HighConfidenceSamples = append(seed.HighConfidenceSamples, event)
		}
	}

	return seed
}

func headRoutes(rows []domain.RouteMatrixRow, n int) []domain.RouteMatrixRow {
	if len(rows) > n {
		rows = rows[:n]
	}
	return append([]domain.RouteMatrixRow(nil), rows...)
}

func headDrift(rows []domain.FeeDriftRow, n int) []domain.FeeDriftRow {
	if len(rows) > n {
		rows = rows[:n]
	}
	return append([]domain.FeeDriftRow(nil), rows...)
}

// hourClusters counts events per hour-of-day and route, keeping the most
// frequent cells. This is frequency clustering, not a statistical test.
func hourClusters(events []domain.ActivityEventEnriched) []domain.HourRouteCount {
	type cell struct {
		hour  int
		route string
	}
	counts := make(map[cell]int)
	for _, event := range events {
		hour := time.UnixMilli(event.Timestamp).UTC().Hour()
		counts[cell{hour: hour, route: event.RouteKey}]++
	}

	clusters := make([]domain.HourRouteCount, 0, len(counts))
	for c, n := range counts {
		clusters = append(clusters, domain.HourRouteCount{Hour: c.hour, RouteKey: c.route, Count: n})
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Count != clusters[j].Count {
			return clusters[i].Count > clusters[j].Count
		}
		if clusters[i].Hour != clusters[j].Hour {
			return clusters[i].Hour < clusters[j].Hour
		}
		return clusters[i].RouteKey < clusters[j].RouteKey
	})
	if len(clusters) > hourClusterCount {
		clusters = clusters[:hourClusterCount]
	}
	return clusters
}

// dailyVolumeTrend computes an SMA over the per-day moved-USD series so the
// context layer can mention whether activity is picking up or cooling down.
func dailyVolumeTrend(events []domain.ActivityEventEnriched) []decimal.Decimal {
	if len(events) == 0 {
		return nil
	}

	byDay := make(map[int64]decimal.Decimal)
	minDay, maxDay := int64(0), int64(0)
	for _, event := range events {
		day := event.Timestamp / dayMs
		byDay[day] = byDay[day].Add(event.MarketValueUSD)
		if minDay == 0 || day < minDay {
			minDay = day
		}
		if day > maxDay {
			maxDay = day
		}
	}

	series := make([]float64, 0, maxDay-minDay+1)
	for day := minDay; day <= maxDay; day++ {
		series = append(series, byDay[day].InexactFloat64())
	}
	if len(series) < volumeTrendPeriod {
		return nil
	}

	sma := trend.NewSmaWithPeriod[float64](volumeTrendPeriod)
	smoothed := helper.ChanToSlice(sma.Compute(helper.SliceToChan(series)))

	out := make([]decimal.Decimal, len(smoothed))
	for i, v := range smoothed {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}
