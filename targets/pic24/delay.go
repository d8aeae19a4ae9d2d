package pic24

import "bsp24/core"

// TimerDelay returns a microsecond delay driven by a free-running timer
// counting ticksPerMicrosecond ticks per microsecond up to its period.
// Unlike WaitUntil it copes with the counter wrapping during the wait.
func TimerDelay(t *Timer, ticksPerMicrosecond uint32, period uint32) core.DelayFunc {
	return func(us uint32) {
		remaining := us * ticksPerMicrosecond
		last := t.GetValue()
		for remaining > 0 {
			now := t.GetValue()
			var elapsed uint32
			if now >= last {
				elapsed = now - last
			} else {
				elapsed = period - last + now + 1
			}
			last = now
			if elapsed >= remaining {
				return
			}
			remaining -= elapsed
		}
	}
}
