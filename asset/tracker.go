package asset

import "sync"

// Tracker counts outstanding loads for the loading indicator
type Tracker struct {
	mu      sync.Mutex
	pending map[string]struct{}
	loaded  int
	failed  map[string]error
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		pending: make(map[string]struct{}),
		failed:  make(map[string]error),
	}
}

// Progress is a point-in-time view of the tracker
type Progress struct {
	Pending int
	Loaded  int
	Failed  int
}

// Total is the number of loads ever started
func (p Progress) Total() int {
	return p.Pending + p.Loaded + p.Failed
}

// Done reports that nothing is still loading
func (p Progress) Done() bool {
	return p.Pending == 0
}

// Fraction is completed/total, 1 when nothing was tracked
func (p Progress) Fraction() float64 {
	if p.Total() == 0 {
		return 1
	}
	return float64(p.Loaded+p.Failed) / float64(p.Total())
}

// Track registers a named future and records its outcome when it completes
func Track[T any](t *Tracker, name string, f *Future[T]) *Future[T] {
	t.mu.Lock()
	t.pending[name] = struct{}{}
	t.mu.Unlock()

	go func() {
		<-f.Done()
		_, _, err := f.Poll()
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.pending, name)
		if err != nil {
			t.failed[name] = err
			return
		}
		t.loaded++
	}()
	return f
}

// Progress returns current counts
func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Progress{Pending: len(t.pending), Loaded: t.loaded, Failed: len(t.failed)}
}

// Failures returns a copy of the failed loads by name
func (t *Tracker) Failures() map[string]error {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]error, len(t.failed))
	for k, v := range t.failed {
		out[k] = v
	}
	return out
}
