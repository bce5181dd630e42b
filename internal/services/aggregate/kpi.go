package aggregate

import (
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

const defaultKpiWindowMs = 24 * 60 * 60 * 1000

// TrailingDay is the default KPI window: the 24 hours ending at nowMs.
func TrailingDay(nowMs int64) domain.Range {
	return domain.Range{FromMs: nowMs - defaultKpiWindowMs, ToMs: nowMs}
}

// Kpi summarizes the window: USD moved, USD fees paid, the top route by
// notional inside the window, and the most recent movement seen anywhere in
// the list (the dashboard's "last activity" marker is not window-bound).
func Kpi(events []domain.ActivityEventEnriched, window domain.Range) domain.ActivityKpiSummary {
	summary := domain.ActivityKpiSummary{Window: window}

	for _, event := range events {
		if event.Timestamp > summary.LastMovementAt {
			summary.LastMovementAt = event.Timestamp
		}
		if !window.Contains(event.Timestamp) {
			continue
		}
		summary.MovedUSD = summary.MovedUSD.Add(event.MarketValueUSD)
		summary.FeeUSD = summary.FeeUSD.Add(event.FeeUSD)
	}

	if routes := RouteMatrix(events, window); len(routes) > 0 {
		summary.TopRoute = routes[0].RouteKey
	}
	return summary
}
