package crawl

import (
	"sync"
	"time"
)

// Stamper issues keyword timestamps in Unix milliseconds. Successive
// stamps from one Stamper are strictly increasing even when the wall clock
// stalls or steps back, so no two keywords stamped by this process share a
// timestamp and batch selection always advances.
type Stamper struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewStamper returns a Stamper reading the wall clock.
func NewStamper() *Stamper {
	return &Stamper{now: time.Now}
}

var defaultStamper = NewStamper()

// DefaultStamper returns the process-wide Stamper shared by all engines.
func DefaultStamper() *Stamper { return defaultStamper }

// Next returns the next timestamp.
func (s *Stamper) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.now().UnixMilli()
	if ts <= s.last {
		ts = s.last + 1
	}
	s.last = ts
	return ts
}
