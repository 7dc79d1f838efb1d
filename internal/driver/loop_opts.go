package driver

import "time"

type LoopOpt func(*Loop)

// WithTickLength sets how often the loop calls its tickers.
func WithTickLength(tickLength time.Duration) LoopOpt {
	return func(l *Loop) {
		l.tickLength = tickLength
	}
}

// WithQueueSize sets how many tasks may wait for the loop before Post blocks.
func WithQueueSize(n int) LoopOpt {
	return func(l *Loop) {
		if n > 0 {
			l.queueSize = n
		}
	}
}
