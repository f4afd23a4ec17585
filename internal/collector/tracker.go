package collector

import (
	"sync"
	"time"

	"github.com/ozwatts/gridwatch/internal/collector/domain"
)

// Tracker serializes collection runs. Checking and claiming the running
// flag happens under one lock so concurrent starts cannot both win.
type Tracker struct {
	mu        sync.Mutex
	running   bool
	lastRun   *time.Time
	lastError *string
	progress  string
}

func NewTracker() *Tracker {
	return &Tracker{progress: "idle"}
}

// TryStart claims the running flag. The attempt time is recorded as the
// last run regardless of how the run ends.
func (t *Tracker) TryStart(now time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return domain.ErrAlreadyRunning
	}
	t.running = true
	attempted := now.UTC()
	t.lastRun = &attempted
	t.lastError = nil
	t.progress = "starting"
	return nil
}

func (t *Tracker) SetProgress(progress string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = progress
}

func (t *Tracker) Succeed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.lastError = nil
	t.progress = "completed"
}

func (t *Tracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	if err != nil {
		msg := err.Error()
		t.lastError = &msg
	}
	t.progress = "failed"
}

func (t *Tracker) Status() domain.Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	status := domain.Status{
		IsRunning: t.running,
		Progress:  t.progress,
	}
	if t.lastRun != nil {
		lastRun := *t.lastRun
		status.LastRun = &lastRun
	}
	if t.lastError != nil {
		lastError := *t.lastError
		status.LastError = &lastError
	}
	return status
}
