// Package telemetry records lifecycle-phase latencies into per-role
// HDR histograms and exposes percentile snapshots. It is pure
// observability: recording a phase never affects scheduling, ordering,
// or propagation semantics of the engine it instruments.
package telemetry

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Role is a lifecycle phase tracked independently (beforeAll, test,
// afterAll, ...).
type Role string

const (
	RolePrepare    Role = "prepare"
	RoleBeforeAll  Role = "beforeAll"
	RoleBeforeEach Role = "beforeEach"
	RoleTest       Role = "test"
	RoleAfterEach  Role = "afterEach"
	RoleAfterAll   Role = "afterAll"
	RoleConclude   Role = "conclude"
)

// histogram range: 1 microsecond to 60 seconds, 3 significant digits,
// matching the precision/range used for request latencies elsewhere in
// the pack.
const (
	lowestValue        = 1
	highestValue       = 60_000_000
	significantFigures = 3
)

// Recorder owns one histogram per Role, safe for concurrent use by
// parallel argument workers.
type Recorder struct {
	mu         sync.Mutex
	histograms map[Role]*hdrhistogram.Histogram
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{histograms: make(map[Role]*hdrhistogram.Histogram)}
}

func (r *Recorder) histogramFor(role Role) *hdrhistogram.Histogram {
	h, ok := r.histograms[role]
	if !ok {
		h = hdrhistogram.New(lowestValue, highestValue, significantFigures)
		r.histograms[role] = h
	}
	return h
}

// Record adds one observed duration for role.
func (r *Recorder) Record(role Role, d time.Duration) {
	us := d.Microseconds()
	if us < lowestValue {
		us = lowestValue
	}
	if us > highestValue {
		us = highestValue
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.histogramFor(role).RecordValue(us)
}

// Timed runs fn, recording its wall-clock duration under role regardless
// of whether fn returns an error.
func (r *Recorder) Timed(role Role, fn func() error) error {
	start := time.Now()
	err := fn()
	r.Record(role, time.Since(start))
	return err
}

// Snapshot is a role's percentile summary at the moment Snapshot was
// called.
type Snapshot struct {
	Role  Role
	Count int64
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
	Max   time.Duration
}

// Snapshots returns one Snapshot per role that has recorded at least one
// observation, ordered by Role name for deterministic output.
func (r *Recorder) Snapshots() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Snapshot, 0, len(r.histograms))
	for role, h := range r.histograms {
		out = append(out, Snapshot{
			Role:  role,
			Count: h.TotalCount(),
			P50:   time.Duration(h.ValueAtQuantile(50)) * time.Microsecond,
			P95:   time.Duration(h.ValueAtQuantile(95)) * time.Microsecond,
			P99:   time.Duration(h.ValueAtQuantile(99)) * time.Microsecond,
			Max:   time.Duration(h.Max()) * time.Microsecond,
		})
	}
	sortSnapshots(out)
	return out
}

func sortSnapshots(s []Snapshot) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].Role > s[j].Role; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
