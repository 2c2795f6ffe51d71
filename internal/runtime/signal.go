package runtime

import (
	"sync"
	"sync/atomic"
)

// Signal is a one-shot shutdown request. Nodes hold it to stop the whole
// network without knowing the network itself.
type Signal struct {
	mu       sync.Mutex
	fn       func()
	attached bool
	once     sync.Once
	sent     atomic.Bool
}

func NewSignal() *Signal {
	return &Signal{}
}

// Attach sets the function run on the first Send. If Send was called before,
// fn runs right away.
func (s *Signal) Attach(fn func()) error {
	s.mu.Lock()
	if s.attached {
		s.mu.Unlock()
		return ErrSignalAttached
	}
	s.attached = true
	s.fn = fn
	pending := s.sent.Load()
	s.mu.Unlock()

	if pending {
		s.fire()
	}
	return nil
}

// Send requests shutdown. Safe to call any number of times from any
// goroutine; the attached function runs once.
func (s *Signal) Send() {
	s.mu.Lock()
	s.sent.Store(true)
	attached := s.attached
	s.mu.Unlock()

	if attached {
		s.fire()
	}
}

// Sent reports whether Send has been called.
func (s *Signal) Sent() bool {
	return s.sent.Load()
}

func (s *Signal) fire() {
	s.once.Do(func() {
		if s.fn != nil {
			s.fn()
		}
	})
}
