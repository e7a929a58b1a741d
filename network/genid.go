package network

import (
	"sync/atomic"

	"golang.org/x/sys/unix"
)

var lastGenID uint64 // atomic

// nextGenID mints a strictly increasing generation id from the monotonic
// clock. CLOCK_MONOTONIC counts from boot, so a restarted process mints a
// larger generation than its previous life and the peer can detect the
// restart. Wall clock is never consulted; it can jump backwards.
func nextGenID() GenID {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		panic("cannot read monotonic clock: " + err.Error())
	}
	now := uint64(ts.Sec)*1_000_000_000 + uint64(ts.Nsec)

	for {
		last := atomic.LoadUint64(&lastGenID)
		next := now
		if next <= last {
			next = last + 1
		}
		if atomic.CompareAndSwapUint64(&lastGenID, last, next) {
			return GenID(next)
		}
	}
}
