package metrics

import (
	"sync"
	"time"
)

type archiveStats struct {
	saves       int
	errors      int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about the service.
// Counters are readable for tests; the otel instruments mirror them to the
// configured exporters.
type Recorder struct {
	mu        sync.Mutex
	archives  map[string]*archiveStats
	mutations map[string]int
	otel      *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		archives:  make(map[string]*archiveStats),
		mutations: make(map[string]int),
		otel:      otel,
	}
}

// RecordArchiveSave tracks a snapshot save attempt against a backend.
func (r *Recorder) RecordArchiveSave(backend string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	stats := r.ensureStats(backend)
	r.mu.Lock()
	stats.saves++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordArchiveSave(backend, duration, err)
	}
}

// RecordMutation tracks a match mutation by kind (buzz, sub, protest, ...).
func (r *Recorder) RecordMutation(kind string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.mutations[kind]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordMutation(kind)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// ArchiveSaves returns the save attempts recorded for a backend.
func (r *Recorder) ArchiveSaves(backend string) int {
	return r.snapshot(backend).saves
}

// ArchiveErrors returns the failed saves recorded for a backend.
func (r *Recorder) ArchiveErrors(backend string) int {
	return r.snapshot(backend).errors
}

// LastSaveLatency returns the most recent save latency for a backend.
func (r *Recorder) LastSaveLatency(backend string) time.Duration {
	return r.snapshot(backend).lastLatency
}

// Mutations returns the count recorded for a mutation kind.
func (r *Recorder) Mutations(kind string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutations[kind]
}

func (r *Recorder) ensureStats(backend string) *archiveStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.archives[backend]
	if !ok {
		stats = &archiveStats{}
		r.archives[backend] = stats
	}
	return stats
}

func (r *Recorder) snapshot(backend string) archiveStats {
	if r == nil {
		return archiveStats{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.archives[backend]; ok && stats != nil {
		return *stats
	}
	return archiveStats{}
}
