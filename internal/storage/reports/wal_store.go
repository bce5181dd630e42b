// Package reports persists activity reports in a WAL so the dashboard can
// stream history and survive restarts.
package reports

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/Trademarathon/portfolio-tracker-sub003/internal/domain"
)

const (
	defaultReportDir   = "./wal/reports"
	reportSegmentLimit = 1000
	reportMaxSegments  = 100
	reportKeyPrefix    = "activity_report_"
)

// WALStore is an append-only report log.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed report store under the provided directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultReportDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "report_",
		SegmentThreshold: reportSegmentLimit,
		MaxSegments:      reportMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init activity report WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Append writes one report to the log.
func (s *WALStore) Append(report domain.ActivityReport) error {
	if s == nil || s.wal == nil {
		return errors.New("activity report store is not initialized")
	}
	if report.GeneratedAt == 0 {
		return fmt.Errorf("activity report timestamp is required")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return errors.Wrap(err, "marshal activity report")
	}

	key := fmt.Sprintf("%s%d", reportKeyPrefix, report.GeneratedAt)

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// ReportsAfter returns all reports written after the provided WAL index.
func (s *WALStore) ReportsAfter(index uint64) ([]domain.ActivityReportRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("activity report store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.ActivityReportRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, reportKeyPrefix) {
			continue
		}
		var report domain.ActivityReport
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, errors.Wrap(err, "decode activity report")
		}
		records = append(records, domain.ActivityReportRecord{
			Index:  idx,
			Report: report,
		})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("activity report store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
