package driver

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/pixil98/go-testutil"
)

type countingTicker struct {
	ticks int
	err   error
}

func (c *countingTicker) Tick(context.Context) error {
	c.ticks++
	return c.err
}

// startLoop runs l in the background and returns a func that stops it and waits.
func startLoop(t *testing.T, l *Loop) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Start(ctx)
	}()
	return func() error {
		cancel()
		return <-errCh
	}
}

func TestLoop_Tick(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ct := &countingTicker{}
		l := NewLoop(nil, WithTickLength(time.Second))
		l.Register(ct)
		stop := startLoop(t, l)

		time.Sleep(3*time.Second + time.Millisecond)
		synctest.Wait()

		var ticks int
		if err := l.Do(context.Background(), func() { ticks = ct.ticks }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "ticks", ticks, 3)

		if err := stop(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestLoop_TickErrorStopsLoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		boom := errors.New("boom")
		l := NewLoop([]Ticker{&countingTicker{err: boom}}, WithTickLength(time.Second))

		err := l.Start(context.Background())
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		testutil.AssertEqual(t, "post after stop", l.Post(func() {}), ErrStopped)
	})
}

func TestLoop_DoRunsInOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := NewLoop(nil)
		stop := startLoop(t, l)
		defer stop()

		var order []int
		for i := range 5 {
			if err := l.Post(func() { order = append(order, i) }); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		var got []int
		if err := l.Do(context.Background(), func() { got = append(got, order...) }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		testutil.AssertEqual(t, "task count", len(got), 5)
		for i, v := range got {
			testutil.AssertEqual(t, "task", v, i)
		}
	})
}

func TestLoop_AfterFunc(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := NewLoop(nil)
		stop := startLoop(t, l)
		defer stop()

		fired := make(chan time.Time, 1)
		start := time.Now()
		_ = l.Do(context.Background(), func() {
			l.AfterFunc(5*time.Second, func() { fired <- time.Now() })
		})

		at := <-fired
		testutil.AssertEqual(t, "elapsed", at.Sub(start), 5*time.Second)
	})
}

func TestLoop_StoppedTimerNeverRuns(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := NewLoop(nil)
		stop := startLoop(t, l)
		defer stop()

		ran := false
		var stopped bool
		_ = l.Do(context.Background(), func() {
			tm := l.AfterFunc(time.Second, func() { ran = true })
			stopped = tm.Stop()
		})

		time.Sleep(2 * time.Second)
		synctest.Wait()

		var got bool
		_ = l.Do(context.Background(), func() { got = ran })
		testutil.AssertEqual(t, "stopped", stopped, true)
		testutil.AssertEqual(t, "ran", got, false)
	})
}

func TestLoop_StopAfterDeadlineStillCancels(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := NewLoop(nil)
		stop := startLoop(t, l)
		defer stop()

		ran := false
		var stopped bool
		_ = l.Do(context.Background(), func() {
			tm := l.AfterFunc(time.Second, func() { ran = true })

			// Hold the loop past the deadline so the callback is queued behind us.
			time.Sleep(2 * time.Second)
			stopped = tm.Stop()
		})

		var got bool
		_ = l.Do(context.Background(), func() { got = ran })
		testutil.AssertEqual(t, "stopped", stopped, true)
		testutil.AssertEqual(t, "ran", got, false)
	})
}

func TestLoop_StopAfterFireReportsFalse(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := NewLoop(nil)
		stop := startLoop(t, l)
		defer stop()

		var tm Timer
		_ = l.Do(context.Background(), func() {
			tm = l.AfterFunc(time.Second, func() {})
		})

		time.Sleep(2 * time.Second)
		synctest.Wait()

		var stopped bool
		_ = l.Do(context.Background(), func() { stopped = tm.Stop() })
		testutil.AssertEqual(t, "stopped", stopped, false)
	})
}

func TestLoop_DoAfterStop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		l := NewLoop(nil)
		stop := startLoop(t, l)
		if err := stop(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err := l.Do(context.Background(), func() {})
		testutil.AssertEqual(t, "err", err, ErrStopped)
	})
}
