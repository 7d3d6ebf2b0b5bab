package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

// OrderMetrics tracks the engine's hot counters. Stock conflicts are
// counted separately because they are the signal that two orders raced
// on the same product.
type OrderMetrics struct {
	OrdersCreated   Counter
	OrdersCancelled Counter
	StockConflicts  Counter
}

func NewOrderMetrics() *OrderMetrics {
	return &OrderMetrics{}
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
