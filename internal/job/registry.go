package job

import (
	"sort"
	"sync"
	"time"
)

// DefaultHistory bounds terminal jobs retained when no capacity is configured.
const DefaultHistory = 50

// Registry is an in-memory job store keyed by job ID. Resubmitting a job ID
// replaces the previous record. Terminal jobs beyond the history capacity are
// pruned oldest-first; in-flight jobs are never pruned.
type Registry struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	history int
}

// NewRegistry creates a registry retaining up to history terminal jobs.
func NewRegistry(history int) *Registry {
	if history <= 0 {
		history = DefaultHistory
	}
	return &Registry{
		jobs:    make(map[string]*Job),
		history: history,
	}
}

// Add inserts a job record, replacing any previous record with the same ID.
func (r *Registry) Add(j Job) {
	now := time.Now().UTC()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = now
	}
	j.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = &j
	r.pruneLocked()
}

// Update applies fn to the stored job under the registry lock and bumps
// UpdatedAt. It reports whether the job was found.
func (r *Registry) Update(id string, fn func(*Job)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.jobs[id]
	if !ok {
		return false
	}
	fn(stored)
	stored.UpdatedAt = time.Now().UTC()
	return true
}

// Get returns a copy of the job with the given ID.
func (r *Registry) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *stored, true
}

// List returns copies of all tracked jobs, newest first.
func (r *Registry) List() []Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Job, 0, len(r.jobs))
	for _, stored := range r.jobs {
		out = append(out, *stored)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Active returns copies of all non-terminal jobs, newest first.
func (r *Registry) Active() []Job {
	all := r.List()
	out := all[:0]
	for _, j := range all {
		if !j.Status.IsTerminal() {
			out = append(out, j)
		}
	}
	return out
}

// FailActive marks every non-terminal job failed with the given message.
// Used during daemon shutdown so no job is left reporting an in-flight state.
func (r *Registry) FailActive(message string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	now := time.Now().UTC()
	for _, stored := range r.jobs {
		if stored.Status.IsTerminal() {
			continue
		}
		stored.SetFailed(message)
		stored.UpdatedAt = now
		count++
	}
	return count
}

func (r *Registry) pruneLocked() {
	var terminal []*Job
	for _, stored := range r.jobs {
		if stored.Status.IsTerminal() {
			terminal = append(terminal, stored)
		}
	}
	if len(terminal) <= r.history {
		return
	}
	sort.Slice(terminal, func(i, j int) bool {
		return terminal[i].UpdatedAt.Before(terminal[j].UpdatedAt)
	})
	for _, stored := range terminal[:len(terminal)-r.history] {
		delete(r.jobs, stored.ID)
	}
}
