package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func newLimiter(perMinute, perHour int) (*RateLimiter, *fakeNow) {
	clock := &fakeNow{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(perMinute, perHour, true)
	rl.now = clock.now
	return rl, clock
}

func TestAllowPerKeyMinuteWindow(t *testing.T) {
	rl, clock := newLimiter(2, 100)

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Fatal("third request within a minute should be blocked")
	}
	if !rl.Allow("b") {
		t.Fatal("other client should not share the window")
	}

	clock.t = clock.t.Add(61 * time.Second)
	if !rl.Allow("a") {
		t.Fatal("request after the minute window should pass")
	}

	stats := rl.GetStats("a")
	if stats.RequestsLastMinute != 1 || stats.RequestsLastHour != 3 || stats.RemainingThisMinute != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestAllowHourWindow(t *testing.T) {
	rl, clock := newLimiter(10, 3)
	for i := 0; i < 3; i++ {
		if !rl.Allow("a") {
			t.Fatalf("request %d should pass", i)
		}
		clock.t = clock.t.Add(2 * time.Minute)
	}
	if rl.Allow("a") {
		t.Fatal("fourth request within the hour should be blocked")
	}
}

func TestDisabled(t *testing.T) {
	rl := NewRateLimiter(1, 1, false)
	for i := 0; i < 5; i++ {
		if !rl.Allow("a") {
			t.Fatal("disabled limiter blocked a request")
		}
	}
	if rl.GetStats("a").Enabled {
		t.Error("stats should report disabled")
	}
}

func TestSweep(t *testing.T) {
	rl, clock := newLimiter(10, 10)
	rl.Allow("a")
	clock.t = clock.t.Add(30 * time.Minute)
	rl.Allow("b")
	clock.t = clock.t.Add(31 * time.Minute)

	if removed := rl.Sweep(); removed != 1 {
		t.Errorf("Sweep removed %d, want 1", removed)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl, _ := newLimiter(1, 10)
	r := gin.New()
	r.POST("/x", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	for i, want := range []int{http.StatusCreated, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != want {
			t.Fatalf("request %d: expected %d, got %d", i, want, resp.Code)
		}
	}
}
