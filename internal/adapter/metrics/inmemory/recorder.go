package inmemory

import (
	"sync"

	"grindstone/internal/domain/minion"
)

type Snapshot struct {
	DispatchTotal uint64            `json:"dispatch_total"`
	ResolvedTotal uint64            `json:"resolved_total"`
	ConflictTotal uint64            `json:"conflict_total"`
	FailureTotal  uint64            `json:"failure_total"`
	ByType        map[string]uint64 `json:"by_type"`
}

type Recorder struct {
	mu        sync.Mutex
	dispatch  uint64
	resolved  uint64
	conflicts uint64
	failures  uint64
	byType    map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{byType: map[string]uint64{}}
}

func (r *Recorder) RecordDispatch(_ minion.ActivityType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatch++
}

func (r *Recorder) RecordResolved(activityType minion.ActivityType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved++
	r.byType[string(activityType)]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := Snapshot{
		DispatchTotal: r.dispatch,
		ResolvedTotal: r.resolved,
		ConflictTotal: r.conflicts,
		FailureTotal:  r.failures,
		ByType:        make(map[string]uint64, len(r.byType)),
	}
	for k, v := range r.byType {
		out.ByType[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
