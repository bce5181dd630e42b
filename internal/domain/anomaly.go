package domain

import "github.com/shopspring/decimal"

// HourRouteCount is one cell of the hour-of-day x route frequency histogram.
type HourRouteCount struct {
	Hour     int    `json:"hour"`
	RouteKey string `json:"route_key"`
	Count    int    `json:"count"`
}

// ActivityAnomalySeed is a compact, explainable signal bundle handed to the AI
// context layer. It is a frequency/recency heuristic, not a statistical test.
type ActivityAnomalySeed struct {
	TopRoutes             []RouteMatrixRow        `json:"top_routes"`
	TopFeeDrift           []FeeDriftRow           `json:"top_fee_drift"`
	HourClusters          []HourRouteCount        `json:"hour_clusters"`
	RapidRepeats          []ActivityEventEnriched `json:"rapid_repeats"`
	HighConfidenceSamples []ActivityEventEnriched `json:"high_confidence_samples"`
	// DailyVolumeTrendUSD is a moving average over the per-day moved-USD
	// series, oldest day first.
	DailyVolumeTrendUSD []decimal.Decimal `json:"daily_volume_trend_usd,omitempty"`
}
