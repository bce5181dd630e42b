// Package enrich runs the full activity enrichment pass: route classification,
// price resolution, cost-basis accounting, and recurrence back-fill over one
// batch of raw events.
package enrich

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/services/classifier"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/services/costbasis"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/services/pricer"
)

// bucketBase is the log base of the amount bucketing. Movements whose amounts
// fall into the same bucket over the same route count as "similar".
const bucketBase = 1.1

// Enrich transforms raw events into the canonical enriched record list,
// sorted newest-first. Internally everything runs in ascending timestamp
// order: average-cost accounting is path-dependent and must never observe
// events out of order.
func Enrich(events []domain.ActivityEvent, connections []domain.Connection, prices map[string]decimal.Decimal) []domain.ActivityEventEnriched {
	ascending := make([]domain.ActivityEvent, len(events))
	copy(ascending, events)
	sort.SliceStable(ascending, func(i, j int) bool {
		if ascending[i].Timestamp != ascending[j].Timestamp {
			return ascending[i].Timestamp < ascending[j].Timestamp
		}
		return ascending[i].ID < ascending[j].ID
	})

	cls := classifier.New(domain.NewConnectionDirectory(connections))
	resolver := pricer.NewResolver(ascending, prices)
	tracker := costbasis.NewTracker()

	enriched := make([]domain.ActivityEventEnriched, 0, len(ascending))
	for _, event := range ascending {
		asset := event.NormalizedAsset()
		if asset == "" || !event.Amount.IsPositive() {
			// not an error: unusable rows are filtered, never surfaced
			continue
		}

		route := cls.Classify(event)
		resolution := resolver.Resolve(event)

		// basis snapshot before this event's own transition
		basis := tracker.AverageCost(asset)
		tracker.Apply(event, resolution.PriceUSD, resolution.Priced)

		bucket := amountBucket(event.Amount)
		routeKey := route.Key(asset)

		row := domain.ActivityEventEnriched{
			ID:               event.ID,
			Timestamp:        event.Timestamp,
			Asset:            asset,
			Amount:           event.Amount,
			Kind:             event.Activity,
			RawType:          event.Type,
			Side:             event.Side,
			FromLabel:        route.FromLabel,
			ToLabel:          route.ToLabel,
			FromKind:         route.FromKind,
			ToKind:           route.ToKind,
			FromConnectionID: route.FromConnectionID,
			ToConnectionID:   route.ToConnectionID,
			RouteKey:         routeKey,
			Network:          event.Network,
			TxHash:           event.TxHash,
			Address:          event.Address,
			FeeAsset:         event.FeeAsset,
			FeeAmount:        event.Fee,
			FeeUSD:           feeUSD(event, asset, resolution),
			PriceUSD:         resolution.PriceUSD,
			Priced:           resolution.Priced,
			Confidence:       resolution.Confidence,
			CostBasisUSD:     basis,
			AmountBucket:     bucket,
			BucketID:         fmt.Sprintf("%s|%d", routeKey, bucket),
		}

		if resolution.Priced {
			row.MarketValueUSD = event.Amount.Mul(resolution.PriceUSD)
		}
		if basis.IsPositive() {
			row.BasisValueUSD = event.Amount.Mul(basis)
		}

		enriched = append(enriched, row)
	}

	backfillRecurrence(enriched)

	// output contract is newest-first
	for i, j := 0, len(enriched)-1; i < j; i, j = i+1, j-1 {
		enriched[i], enriched[j] = enriched[j], enriched[i]
	}
	return enriched
}

// backfillRecurrence links every event to the previous one sharing its bucket
// id with a single linear pass over the ascending list.
func backfillRecurrence(ascending []domain.ActivityEventEnriched) {
	lastSeen := make(map[string]int64)
	for i := range ascending {
		row := &ascending[i]
		if prev, ok := lastSeen[row.BucketID]; ok {
			row.LastSimilarAt = prev
			row.LastSimilarDeltaMinutes = float64(row.Timestamp-prev) / 60000.0
		}
		lastSeen[row.BucketID] = row.Timestamp
	}
}

// amountBucket bins the amount on a log scale so that movements of a similar
// magnitude land in the same bucket. The 1.1 base is a tuning parameter kept
// for compatibility with historical bucket ids.
func amountBucket(amount decimal.Decimal) int {
	return int(math.Round(math.Log(amount.InexactFloat64()) / math.Log(bucketBase)))
}

// feeUSD passes through an explicit USD fee, deriving one from the native fee
// amount only when the fee is paid in the event's own asset and a price
// resolved.
func feeUSD(event domain.ActivityEvent, asset string, resolution pricer.Resolution) decimal.Decimal {
	if event.FeeUSD.IsPositive() {
		return event.FeeUSD
	}
	if !event.Fee.IsPositive() || !resolution.Priced {
		return decimal.Zero
	}
	if event.FeeAsset == "" || domain.NormalizeAsset(event.FeeAsset) == asset {
		return event.Fee.Mul(resolution.PriceUSD)
	}
	return decimal.Zero
}
