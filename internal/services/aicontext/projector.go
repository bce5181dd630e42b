// Package aicontext projects pipeline output into a compact JSON-serializable
// object sized for a language-model prompt. This is a boundary component: the
// analytical core never depends on it.
package aicontext

import (
	"github.com/shopspring/decimal"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

// Mode selects which slice of the report the assistant is being briefed on.
type Mode string

const (
	ModeOverview     Mode = "overview"
	ModeRouteHealth  Mode = "route_health"
	ModeFeeDrift     Mode = "fee_drift"
	ModeMemorySignal Mode = "memory_signal"
)

// ValidMode reports whether m is one of the supported projection modes.
func ValidMode(m Mode) bool {
	switch m {
	case ModeOverview, ModeRouteHealth, ModeFeeDrift, ModeMemorySignal:
		return true
	}
	return false
}

const topRouteCount = 5

// Filters echoes the UI filters active when the context was requested.
type Filters struct {
	Assets []string `json:"assets,omitempty"`
	Kinds  []string `json:"kinds,omitempty"`
}

// RouteSummary is one top route, rounded for prompt use.
type RouteSummary struct {
	Route     string  `json:"route"`
	Count     int     `json:"count"`
	ValueUSD  float64 `json:"valueUsd"`
	AvgFeeBps float64 `json:"avgFeeBps"`
}

// DriftSummary is one fee-drift row, rounded for prompt use.
type DriftSummary struct {
	Route           string  `json:"route"`
	CurrentBps      float64 `json:"currentBps"`
	BaselineBps     float64 `json:"baselineBps"`
	DriftBps        float64 `json:"driftBps"`
	CurrentSamples  int     `json:"currentSamples"`
	BaselineSamples int     `json:"baselineSamples"`
}

// MemorySignal is one recurrence row, rounded for prompt use.
type MemorySignal struct {
	Route     string  `json:"route"`
	LastAt    int64   `json:"lastAt"`
	PrevAt    int64   `json:"prevAt,omitempty"`
	AvgAmount float64 `json:"avgAmount"`
	Samples   int     `json:"samples"`
}

// Overview carries the overview-mode extras.
type Overview struct {
	RapidRepeatCount int                     `json:"rapidRepeatCount"`
	HourClusters     []domain.HourRouteCount `json:"hourClusters,omitempty"`
	DailyVolumeSMA   float64                 `json:"dailyVolumeSma,omitempty"`
}

// Context is the assistant hand-off object. All monetary fields are rounded
// to two decimals before serialization.
type Context struct {
	Mode        Mode           `json:"mode"`
	EventCount  int            `json:"eventCount"`
	MovedUSD24h float64        `json:"movedUsd24h"`
	FeeUSD24h   float64        `json:"feeUsd24h"`
	TopRoutes   []RouteSummary `json:"topRoutes"`
	Range       domain.Range   `json:"range"`
	Filters     Filters        `json:"filters"`

	Overview      *Overview      `json:"overview,omitempty"`
	RouteHealth   []RouteSummary `json:"routeHealth,omitempty"`
	FeeDrift      []DriftSummary `json:"feeDrift,omitempty"`
	MemorySignals []MemorySignal `json:"memorySignals,omitempty"`
}

// Project assembles the context object for the requested mode.
func Project(mode Mode, report domain.ActivityReport, filters Filters) Context {
	ctx := Context{
		Mode:        mode,
		EventCount:  len(report.Events),
		MovedUSD24h: round2(report.Kpi.MovedUSD),
		FeeUSD24h:   round2(report.Kpi.FeeUSD),
		TopRoutes:   routeSummaries(report.Routes, topRouteCount),
		Range:       report.Kpi.Window,
		Filters:     filters,
	}

	switch mode {
	case ModeOverview:
		overview := &Overview{
			RapidRepeatCount: len(report.Anomaly.RapidRepeats),
			HourClusters:     report.Anomaly.HourClusters,
		}
		if n := len(report.Anomaly.DailyVolumeTrendUSD); n > 0 {
			overview.DailyVolumeSMA = round2(report.Anomaly.DailyVolumeTrendUSD[n-1])
		}
		ctx.Overview = overview
	case ModeRouteHealth:
		ctx.RouteHealth = routeSummaries(report.Routes, topRouteCount)
	case ModeFeeDrift:
		rows := report.FeeDrift
		if len(rows) > topRouteCount {
			rows = rows[:topRouteCount]
		}
		for _, row := range rows {
			ctx.FeeDrift = append(ctx.FeeDrift, DriftSummary{
				Route:           row.RouteKey,
				CurrentBps:      round2(row.CurrentBps),
				BaselineBps:     round2(row.BaselineBps),
				DriftBps:        round2(row.DriftBps),
				CurrentSamples:  row.CurrentSamples,
				BaselineSamples: row.BaselineSamples,
			})
		}
	case ModeMemorySignal:
		rows := report.Memory
		if len(rows) > topRouteCount {
			rows = rows[:topRouteCount]
		}
		for _, row := range rows {
			ctx.MemorySignals = append(ctx.MemorySignals, MemorySignal{
				Route:     row.RouteKey,
				LastAt:    row.LastAt,
				PrevAt:    row.PrevAt,
				AvgAmount: round2(row.AvgAmount),
				Samples:   row.Samples,
			})
		}
	}

	return ctx
}

func routeSummaries(rows []domain.RouteMatrixRow, n int) []RouteSummary {
	if len(rows) > n {
		rows = rows[:n]
	}
	out := make([]RouteSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, RouteSummary{
			Route:     row.RouteKey,
			Count:     row.Count,
			ValueUSD:  round2(row.TotalValueUSD),
			AvgFeeBps: round2(row.AvgFeeBps),
		})
	}
	return out
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
