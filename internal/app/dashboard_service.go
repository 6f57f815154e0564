package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"teacher_hours_dashboard/internal/domain/lesson"
	"teacher_hours_dashboard/internal/domain/notify"
	"teacher_hours_dashboard/internal/domain/report"
)

// Custom application-level errors for the dashboard service.
var ErrNoReport = errors.New("no validation report available yet")
var ErrHistoryDisabled = errors.New("run history storage is not configured")

// DashboardService ties the pipeline together: fetch records from the source,
// run the validator, keep the latest snapshot for the API, persist a run
// summary and notify the admin when findings appear.
type DashboardService struct {
	source    lesson.Source
	validator *Validator
	runRepo   report.RunRepository // nil when history storage is disabled
	notifier  notify.Notifier      // nil when notifications are disabled
	logger    *logrus.Logger

	mu     sync.RWMutex
	latest *report.Snapshot
}

func NewDashboardService(
	source lesson.Source,
	validator *Validator,
	runRepo report.RunRepository,
	notifier notify.Notifier,
	logger *logrus.Logger,
) *DashboardService {
	return &DashboardService{
		source:    source,
		validator: validator,
		runRepo:   runRepo,
		notifier:  notifier,
		logger:    logger,
	}
}

// Refresh fetches a fresh record snapshot, validates it and replaces the
// cached report. A fetch failure leaves the previous snapshot in place.
func (s *DashboardService) Refresh(ctx context.Context) (*report.Snapshot, error) {
	records, err := s.source.Fetch(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch lesson records from source")
		return nil, fmt.Errorf("failed to fetch lesson records: %w", err)
	}

	rep := s.validator.Validate(records)
	snap := &report.Snapshot{
		FetchedAt: time.Now().UTC(),
		Report:    rep,
	}

	s.mu.Lock()
	prev := s.latest
	s.latest = snap
	s.mu.Unlock()

	counts := rep.Counts()
	s.logger.WithFields(logrus.Fields{
		"records":          counts.Records,
		"hour_mismatches":  counts.HourMismatches,
		"duplicate_groups": counts.DuplicateGroups,
		"overlaps":         counts.Overlaps,
		"malformed":        counts.Malformed,
	}).Info("validation pass complete")

	s.persistRun(ctx, snap)
	s.notifyIfChanged(ctx, prev, snap)

	return snap, nil
}

// Latest returns the most recent snapshot, or ErrNoReport before the first
// successful refresh.
func (s *DashboardService) Latest() (*report.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, ErrNoReport
	}
	return s.latest, nil
}

// RecentRuns returns the newest persisted run summaries.
func (s *DashboardService) RecentRuns(ctx context.Context, limit int) ([]*report.Run, error) {
	if s.runRepo == nil {
		return nil, ErrHistoryDisabled
	}
	runs, err := s.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list validation runs: %w", err)
	}
	return runs, nil
}

// persistRun stores a run summary. Storage failures are logged, never fatal:
// the dashboard keeps serving the in-memory snapshot.
func (s *DashboardService) persistRun(ctx context.Context, snap *report.Snapshot) {
	if s.runRepo == nil {
		return
	}
	counts := snap.Report.Counts()
	run := &report.Run{
		RunAt:               snap.FetchedAt,
		RecordCount:         counts.Records,
		HourMismatchCount:   counts.HourMismatches,
		DuplicateGroupCount: counts.DuplicateGroups,
		OverlapCount:        counts.Overlaps,
		MalformedCount:      counts.Malformed,
	}
	if err := s.runRepo.Create(ctx, run); err != nil {
		s.logger.WithError(err).Error("failed to persist validation run summary")
	}
}

// notifyIfChanged pings the admin when a refresh surfaces findings and the
// counts moved since the previous snapshot. Unchanged findings stay quiet so
// the 5-minute refresh does not spam the chat.
func (s *DashboardService) notifyIfChanged(ctx context.Context, prev, cur *report.Snapshot) {
	if s.notifier == nil || !cur.Report.HasFindings() {
		return
	}
	if prev != nil && prev.Report.Counts() == cur.Report.Counts() {
		return
	}
	counts := cur.Report.Counts()
	text := fmt.Sprintf(
		"Controllo ore: %d errori ore, %d gruppi duplicati, %d sovrapposizioni, %d righe scartate su %d record.",
		counts.HourMismatches, counts.DuplicateGroups, counts.Overlaps, counts.Malformed, counts.Records,
	)
	if err := s.notifier.Send(ctx, text); err != nil {
		s.logger.WithError(err).Error("failed to send findings notification")
	}
}
