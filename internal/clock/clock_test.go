package clock

import (
	"testing"
	"time"
)

func TestPeriods(t *testing.T) {
	c := Fixed(time.Date(2025, time.January, 15, 8, 0, 0, 0, time.UTC))
	if m, y := CurrentPeriod(c); m != "January" || y != 2025 {
		t.Errorf("CurrentPeriod = %s %d, want January 2025", m, y)
	}
	if m, y := PreviousPeriod(c); m != "December" || y != 2024 {
		t.Errorf("PreviousPeriod = %s %d, want December 2024", m, y)
	}

	c = Fixed(time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC))
	if m, y := PreviousPeriod(c); m != "February" || y != 2025 {
		t.Errorf("PreviousPeriod(Mar 31) = %s %d, want February 2025", m, y)
	}
}

func TestStepping(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStepping(start, time.Second)
	a, b := s.Now(), s.Now()
	if !a.Equal(start) || b.Sub(a) != time.Second {
		t.Errorf("Stepping = %v, %v", a, b)
	}
}
