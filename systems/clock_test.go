package systems

import (
	"testing"
	"time"
)

func TestSimClock_Advance(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewSimClock(start)

	if !c.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", c.Now(), start)
	}

	for i := 0; i < 3; i++ {
		c.Advance(250 * time.Millisecond)
	}

	if got := c.Now().Sub(start); got != 750*time.Millisecond {
		t.Errorf("Now() - start = %v, want 750ms", got)
	}
}
