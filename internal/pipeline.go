package internal

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/services/aggregate"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/services/anomaly"
	"github.com/Trademarathon/portfolio-tracker-sub003/internal/services/enrich"
)

// Pipeline runs the full activity intelligence pass: enrichment, the four
// aggregations, and the anomaly seed. It is the only place the wall clock is
// read; every downstream computation receives explicit timestamps.
type Pipeline struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewPipeline creates a pipeline with the real clock.
func NewPipeline(logger *zap.Logger) *Pipeline {
	return &Pipeline{logger: logger, now: time.Now}
}

// NewPipelineAt creates a pipeline with a fixed clock, for deterministic runs.
func NewPipelineAt(logger *zap.Logger, now func() time.Time) *Pipeline {
	return &Pipeline{logger: logger, now: now}
}

// Run produces a full activity report for one batch of raw events.
func (p *Pipeline) Run(events []domain.ActivityEvent, connections []domain.Connection, prices map[string]decimal.Decimal) domain.ActivityReport {
	started := p.now()
	nowMs := started.UnixMilli()

	enriched := enrich.Enrich(events, connections, prices)

	window := aggregate.TrailingDay(nowMs)
	routes := aggregate.RouteMatrix(enriched, domain.Range{})
	memory := aggregate.MovementMemory(enriched, domain.Range{})
	kpi := aggregate.Kpi(enriched, window)
	drift := aggregate.FeeDrift(enriched, window)
	seed := anomaly.BuildSeed(enriched, routes, drift)

	report := domain.ActivityReport{
		GeneratedAt: nowMs,
		Events:      enriched,
		Routes:      routes,
		Memory:      memory,
		Kpi:         kpi,
		FeeDrift:    drift,
		Anomaly:     seed,
	}

	p.logger.Info("activity report built",
		zap.Int("raw_events", len(events)),
		zap.Int("enriched_events", len(enriched)),
		zap.Int("routes", len(routes)),
		zap.Int("fee_drift_rows", len(drift)),
		zap.Duration("took", p.now().Sub(started)))

	return report
}
