package domain

// ActivityReport bundles one full pipeline run: the enriched event list plus
// every aggregation output.
type ActivityReport struct {
	GeneratedAt int64                   `json:"generated_at"`
	Events      []ActivityEventEnriched `json:"events"`
	Routes      []RouteMatrixRow        `json:"routes"`
	Memory      []MovementMemoryRow     `json:"memory"`
	Kpi         ActivityKpiSummary      `json:"kpi"`
	FeeDrift    []FeeDriftRow           `json:"fee_drift"`
	Anomaly     ActivityAnomalySeed     `json:"anomaly"`
}

// ActivityReportRecord bundles a report with the log index it originated from.
type ActivityReportRecord struct {
	Index  uint64
	Report ActivityReport
}
