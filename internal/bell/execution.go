package bell

import (
	"iter"
	"sync"
)

// Execution describes one shell command run. The host terminal subsystem
// owns executions; the bell only reads from them and tags them as having
// already rung.
type Execution interface {
	// ID is a stable host-issued identifier for this execution.
	ID() string
	// CommandLine is the text the user submitted.
	CommandLine() string
	// Output streams the live output chunks, or nil when the host cannot
	// read output. The sequence is consumed at most once.
	Output() iter.Seq2[string, error]
	// ExitCode reports the exit status once the execution has ended.
	ExitCode() (int, bool)
}

// dedupSet tracks executions that already rang, so the start-path and
// end-path detection cannot both fire for the same run. Entries are keyed by
// execution ID rather than by handle so the set never owns execution
// lifetime; the orchestrator forgets an ID once its end event is handled.
type dedupSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newDedupSet() *dedupSet {
	return &dedupSet{ids: make(map[string]struct{})}
}

func (s *dedupSet) mark(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	s.ids[id] = struct{}{}
	s.mu.Unlock()
}

func (s *dedupSet) seen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *dedupSet) forget(id string) {
	s.mu.Lock()
	delete(s.ids, id)
	s.mu.Unlock()
}
