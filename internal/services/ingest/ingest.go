// Package ingest loads a raw activity snapshot (events, connections, price
// map) from a YAML file, the exchange-API ingestion layer's export format.
package ingest

import (
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

// Snapshot is the pipeline's full input boundary.
type Snapshot struct {
	Events      []domain.ActivityEvent     `yaml:"events"`
	Connections []domain.Connection        `yaml:"connections"`
	Prices      map[string]decimal.Decimal `yaml:"prices"`
}

// LoadFile reads and normalizes a snapshot from path.
func LoadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "failed to read activity snapshot %s", path)
	}
	return Load(data)
}

// Load parses and normalizes a YAML snapshot.
func Load(data []byte) (Snapshot, error) {
	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to parse activity snapshot")
	}

	normalize(&snapshot)
	return snapshot, nil
}

// normalize guards the invariants downstream code relies on: every event has
// a stable id and the price map is keyed by canonical symbols.
func normalize(snapshot *Snapshot) {
	for i := range snapshot.Events {
		if snapshot.Events[i].ID == "" {
			snapshot.Events[i].ID = uuid.New().String()
		}
	}

	if len(snapshot.Prices) == 0 {
		return
	}
	prices := make(map[string]decimal.Decimal, len(snapshot.Prices))
	for symbol, price := range snapshot.Prices {
		prices[domain.NormalizeAsset(symbol)] = price
	}
	snapshot.Prices = prices
}
