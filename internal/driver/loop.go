package driver

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultTickLength = time.Second * 2
	DefaultQueueSize  = 1024
)

var ErrStopped = errors.New("loop stopped")

// Ticker is called on the loop goroutine once per tick.
type Ticker interface {
	Tick(context.Context) error
}

// Timer is a scheduled callback that can be canceled.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback already ran or
	// was already stopped.
	Stop() bool
}

// Scheduler runs fn on its loop after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Loop is the single goroutine that owns all game state. Every task posted to it,
// every timer callback and every tick runs on that goroutine, one at a time.
type Loop struct {
	tickLength time.Duration
	tickers    []Ticker
	queueSize  int

	tasks chan func()
	done  chan struct{}
}

func NewLoop(tickers []Ticker, opts ...LoopOpt) *Loop {
	l := &Loop{
		tickLength: DefaultTickLength,
		tickers:    tickers,
		queueSize:  DefaultQueueSize,
	}

	for _, opt := range opts {
		opt(l)
	}

	l.tasks = make(chan func(), l.queueSize)
	l.done = make(chan struct{})

	return l
}

// Register adds a ticker. It must be called before Start.
func (l *Loop) Register(t Ticker) {
	l.tickers = append(l.tickers, t)
}

func (l *Loop) Start(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			err := l.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (l *Loop) Tick(ctx context.Context) error {
	for _, t := range l.tickers {
		err := t.Tick(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// Post queues fn to run on the loop without waiting for it.
func (l *Loop) Post(fn func()) error {
	if l.stopped() {
		return ErrStopped
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Do runs fn on the loop and waits until it has returned.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if l.stopped() {
		return ErrStopped
	}

	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.tasks <- task:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// AfterFunc schedules fn to run on the loop once d has elapsed. Stop must only be
// called from the loop; once it returns true fn will not run, even if the deadline
// already passed and the callback is waiting in the queue.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		_ = l.Post(func() {
			if t.fired {
				return
			}
			t.fired = true
			fn()
		})
	})
	return t
}

type loopTimer struct {
	timer *time.Timer
	fired bool // set on the loop when the callback runs or is canceled
}

func (t *loopTimer) Stop() bool {
	if t.fired {
		return false
	}
	t.fired = true
	t.timer.Stop()
	return true
}
