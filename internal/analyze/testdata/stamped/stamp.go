package stamped

import "time"

// Stamp wraps a point in time.
type Stamp struct {
	at time.Time
}

func (s *Stamp) Deref() *time.Time   { return &s.at }
func (s *Stamp) Rewrap(at time.Time) { s.at = at }
