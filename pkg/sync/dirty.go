package sync

import "sync"

// DirtyTracker remembers whether in-memory state has diverged from the remote
// copy. Every local mutation bumps a generation counter; a save only clears
// the dirty flag if no further mutation happened while the save was in
// flight, so edits made mid-save are never silently marked clean.
type DirtyTracker struct {
	mu         sync.Mutex
	dirty      bool
	generation uint64
}

func (d *DirtyTracker) MarkDirty() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = true
	d.generation++
}

func (d *DirtyTracker) IsDirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dirty
}

// SaveAttempt returns the generation the caller is about to save.
func (d *DirtyTracker) SaveAttempt() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// SaveSucceeded clears the dirty flag unless the state moved on since gen.
func (d *DirtyTracker) SaveSucceeded(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation == gen {
		d.dirty = false
	}
}

// SaveFailed keeps the dirty flag set. It exists so call sites read as a
// complete protocol rather than an omission.
func (d *DirtyTracker) SaveFailed() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = true
}
