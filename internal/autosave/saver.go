package autosave

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"quizbowl-match-service/internal/app/matches"
	"quizbowl-match-service/internal/logging"
	"quizbowl-match-service/internal/metrics"
)

const defaultInterval = 30 * time.Second

// Archive persists match records outside the in-memory registry.
type Archive interface {
	Name() string
	SaveMatch(ctx context.Context, record matches.MatchRecord) error
}

// Registry lists the records the saver sweeps on each pass.
type Registry interface {
	Matches() []matches.MatchRecord
}

// Saver sweeps the match registry on an interval and writes every record
// to the archive.
type Saver struct {
	registry Registry
	archive  Archive
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the autosave loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the saver has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Saver with sane defaults.
func New(registry Registry, archive Archive, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Saver {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Saver{
		registry: registry,
		archive:  archive,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the sweep loop until the context is cancelled or Stop is
// called.
func (s *Saver) Start(ctx context.Context) {
	s.startMu.Lock()
	if s.started {
		s.startMu.Unlock()
		return
	}
	s.started = true
	s.startMu.Unlock()

	s.ticker = time.NewTicker(s.interval)

	go func() {
		s.logInfo("autosave started",
			slog.String(logging.FieldBackend, s.archive.Name()),
			slog.Int64("interval_ms", s.interval.Milliseconds()),
		)
		// Initial sweep so restored matches are archived on boot.
		s.SaveAll(ctx)

		for {
			select {
			case <-ctx.Done():
				s.stopTicker()
				s.logInfo("autosave stopped")
				return
			case <-s.done:
				s.stopTicker()
				s.logInfo("autosave stopped")
				return
			case <-s.ticker.C:
				s.SaveAll(ctx)
			}
		}
	}()
}

// Stop halts the sweep loop.
func (s *Saver) Stop(context.Context) error {
	s.stopOnce.Do(func() {
		close(s.done)
		s.stopTicker()
	})
	return nil
}

// SaveAll writes every registered match to the archive and returns the
// first error encountered. It is also invoked directly by the admin
// refresh endpoint.
func (s *Saver) SaveAll(ctx context.Context) error {
	start := time.Now()
	s.recordAttempt(start)

	records := s.registry.Matches()
	var firstErr error
	for _, record := range records {
		saveStart := time.Now()
		err := s.archive.SaveMatch(ctx, record)
		if s.metrics != nil {
			s.metrics.RecordArchiveSave(s.archive.Name(), time.Since(saveStart), err)
		}
		if err != nil {
			s.logError("autosave write failed", err,
				slog.String(logging.FieldMatchID, record.ID),
				slog.String(logging.FieldBackend, s.archive.Name()),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if firstErr != nil {
		s.recordFailure(firstErr, start)
		return firstErr
	}
	s.recordSuccess(start)
	s.logInfo("autosave swept matches",
		logging.FieldCount, len(records),
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *Saver) stopTicker() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
}

func (s *Saver) logInfo(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}

func (s *Saver) logError(msg string, err error, attrs ...any) {
	if s.logger != nil {
		s.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (s *Saver) recordAttempt(at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.LastAttempt = at
}

func (s *Saver) recordSuccess(at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures = 0
	s.status.LastError = ""
	s.status.LastSuccess = at
}

func (s *Saver) recordFailure(err error, at time.Time) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.ConsecutiveFailures++
	if err != nil {
		s.status.LastError = err.Error()
	}
	s.status.LastAttempt = at
}

// Status returns a snapshot of the saver's recent health.
func (s *Saver) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}
