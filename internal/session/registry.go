package session

import "sync"

// Registry is the process-wide map from CallSid to live session, insertion
// ordered. Inserts happen on the owning session's loop at start; deletes on
// its teardown. The health endpoint and graceful shutdown read it from other
// goroutines, hence the lock.
type Registry struct {
	mu     sync.Mutex
	order  []string
	byCall map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{byCall: map[string]*Session{}}
}

func (r *Registry) Add(callSID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byCall[callSID]; !exists {
		r.order = append(r.order, callSID)
	}
	r.byCall[callSID] = s
}

func (r *Registry) Remove(callSID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byCall[callSID]; !exists {
		return
	}
	delete(r.byCall, callSID)
	for i, id := range r.order {
		if id == callSID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Registry) Get(callSID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byCall[callSID]
	return s, ok
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byCall)
}

// Sessions returns the live sessions in insertion order.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		if s, ok := r.byCall[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// TerminateAll asks every live session to run its close path. Used by
// graceful shutdown; sessions drain on their own loops.
func (r *Registry) TerminateAll() {
	for _, s := range r.Sessions() {
		s.Terminate()
	}
}
