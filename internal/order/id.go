package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// lastMillis is the process-local monotonic guard: two generations in the
// same millisecond still get distinct timestamps.
var lastMillis int64

func nextMillis() int64 {
	now := time.Now().UnixMilli()
	for {
		last := atomic.LoadInt64(&lastMillis)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastMillis, last, now) {
			return now
		}
	}
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(suffixAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// fallback: time-based entropy
			idx = big.NewInt(time.Now().UnixNano() % int64(len(suffixAlphabet)))
		}
		b[i] = suffixAlphabet[idx.Int64()]
	}
	return string(b)
}

// NewOrderID returns an id of the form ord_<epoch-millis>_<9-char suffix>.
func NewOrderID() string {
	return fmt.Sprintf("ord_%d_%s", nextMillis(), randomSuffix(9))
}

// NewOrderNumber returns a human-readable number of the form CC-<epoch-millis>.
func NewOrderNumber() string {
	return fmt.Sprintf("CC-%d", nextMillis())
}
