package drivertest

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestScheduler_Advance(t *testing.T) {
	s := NewScheduler()

	var order []string
	s.AfterFunc(2*time.Second, func() { order = append(order, "b") })
	s.AfterFunc(time.Second, func() {
		order = append(order, "a")
		s.AfterFunc(time.Second, func() { order = append(order, "c") })
	})
	stopped := s.AfterFunc(time.Second, func() { order = append(order, "x") })
	testutil.AssertEqual(t, "stop", stopped.Stop(), true)
	testutil.AssertEqual(t, "stop twice", stopped.Stop(), false)

	s.Advance(1500 * time.Millisecond)
	testutil.AssertEqual(t, "fired", len(order), 1)
	testutil.AssertEqual(t, "pending", s.Pending(), 2)

	s.Advance(time.Second)
	testutil.AssertEqual(t, "fired", len(order), 3)
	testutil.AssertEqual(t, "first", order[0], "a")
	testutil.AssertEqual(t, "second", order[1], "b")
	testutil.AssertEqual(t, "third", order[2], "c")
	testutil.AssertEqual(t, "now", s.Now(), 2500*time.Millisecond)
	testutil.AssertEqual(t, "pending", s.Pending(), 0)
}
