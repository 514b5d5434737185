// Package clock abstracts the wall clock so periods and timestamps are testable.
package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// System reads the real time in a fixed location
type System struct {
	Location *time.Location
}

func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(s.Location)
}

// Fixed always returns the same instant
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// Stepping advances by Step on every call, giving strictly increasing timestamps
type Stepping struct {
	mu   sync.Mutex
	next time.Time
	Step time.Duration
}

func NewStepping(start time.Time, step time.Duration) *Stepping {
	return &Stepping{next: start, Step: step}
}

func (s *Stepping) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.next
	s.next = s.next.Add(s.Step)
	return t
}

// CurrentPeriod returns the English month name and year of c's now
func CurrentPeriod(c Clock) (string, int) {
	now := c.Now()
	return now.Month().String(), now.Year()
}

// PreviousPeriod returns the calendar month before c's now
func PreviousPeriod(c Clock) (string, int) {
	now := c.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	return prev.Month().String(), prev.Year()
}
