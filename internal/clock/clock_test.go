package clock

import (
	"testing"
	"time"
)

func TestFake_SleepAdvances(t *testing.T) {
	start := time.Unix(1000, 0)
	c := NewFake(start)

	c.Sleep(1500 * time.Millisecond)
	c.Advance(-time.Hour)

	if got := c.Since(start); got != 1500*time.Millisecond {
		t.Errorf("Since(start) = %v, want 1.5s", got)
	}
}

func TestReal_Monotonic(t *testing.T) {
	var c Real
	a := c.Now()
	c.Sleep(time.Millisecond)
	if b := c.Now(); !b.After(a) {
		t.Errorf("Now did not advance: %v then %v", a, b)
	}
}
