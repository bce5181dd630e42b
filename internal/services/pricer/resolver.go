// Package pricer resolves best-effort USD prices for activity events. The
// batch resolver borrows prices from temporally nearby trades before falling
// back to live quotes; live quote providers for the supported exchanges live
// in this package as well.
package pricer

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

// maxSampleDistanceMs bounds how far a borrowed trade price may be from the
// event before the resolver rejects it and falls through to live quotes.
const maxSampleDistanceMs = 30 * 60 * 1000

const minuteMs = 60 * 1000

// Resolution is the outcome of a price lookup. PriceUSD is meaningful only
// when Priced is true.
type Resolution struct {
	PriceUSD   decimal.Decimal
	Confidence domain.Confidence
	Priced     bool
}

type sample struct {
	ts    int64
	price decimal.Decimal
}

// Resolver answers point-in-time USD price queries for one batch of events.
// It indexes every self-priced trade in the batch by asset and minute.
type Resolver struct {
	samples map[string][]sample
	minutes map[string]map[int64]decimal.Decimal
	live    map[string]decimal.Decimal
}

// NewResolver builds the per-asset price cache from all trade-priced events in
// the batch plus the latest known live quotes.
func NewResolver(events []domain.ActivityEvent, live map[string]decimal.Decimal) *Resolver {
	r := &Resolver{
		samples: make(map[string][]sample),
		minutes: make(map[string]map[int64]decimal.Decimal),
		live:    make(map[string]decimal.Decimal, len(live)),
	}
	for symbol, price := range live {
		if price.IsPositive() {
			r.live[domain.NormalizeAsset(symbol)] = price
		}
	}

	for _, event := range events {
		if event.Activity != domain.ActivityTrade || !event.Price.IsPositive() {
			continue
		}
		asset := event.NormalizedAsset()
		if asset == "" {
			continue
		}
		r.samples[asset] = append(r.samples[asset], sample{ts: event.Timestamp, price: event.Price})
		byMinute, ok := r.minutes[asset]
		if !ok {
			byMinute = make(map[int64]decimal.Decimal)
			r.minutes[asset] = byMinute
		}
		minute := event.Timestamp / minuteMs
		if _, exists := byMinute[minute]; !exists {
			byMinute[minute] = event.Price
		}
	}

	for asset := range r.samples {
		s := r.samples[asset]
		sort.Slice(s, func(i, j int) bool { return s[i].ts < s[j].ts })
	}

	return r
}

// Resolve walks the fallback tiers in order: the event's own trade price, an
// exact same-minute sample, the nearest sample within the interpolation
// window, then the latest live quote. An unresolvable price is reported as
// low-confidence and unpriced, never as zero.
func (r *Resolver) Resolve(event domain.ActivityEvent) Resolution {
	if event.Price.IsPositive() {
		return Resolution{PriceUSD: event.Price, Confidence: domain.ConfidenceHigh, Priced: true}
	}

	asset := event.NormalizedAsset()

	if byMinute, ok := r.minutes[asset]; ok {
		if price, ok := byMinute[event.Timestamp/minuteMs]; ok {
			return Resolution{PriceUSD: price, Confidence: domain.ConfidenceHigh, Priced: true}
		}
	}

	if nearest, ok := r.nearestSample(asset, event.Timestamp); ok {
		return Resolution{PriceUSD: nearest, Confidence: domain.ConfidenceMedium, Priced: true}
	}

	if price, ok := r.live[asset]; ok {
		return Resolution{PriceUSD: price, Confidence: domain.ConfidenceLow, Priced: true}
	}

	return Resolution{Confidence: domain.ConfidenceLow}
}

// nearestSample finds the closest-in-time sample for the asset, rejecting
// anything beyond the interpolation window.
func (r *Resolver) nearestSample(asset string, ts int64) (decimal.Decimal, bool) {
	s := r.samples[asset]
	if len(s) == 0 {
		return decimal.Decimal{}, false
	}

	i := sort.Search(len(s), func(i int) bool { return s[i].ts >= ts })

	best := -1
	bestDist := int64(maxSampleDistanceMs + 1)
	for _, candidate := range []int{i - 1, i} {
		if candidate < 0 || candidate >= len(s) {
			continue
		}
		dist := s[candidate].ts - ts
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}

	if best < 0 || bestDist > maxSampleDistanceMs {
		return decimal.Decimal{}, false
	}
	return s[best].price, true
}
