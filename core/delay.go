package core

// DelayFunc busy-waits for the given number of microseconds
type DelayFunc func(us uint32)

var delayFunc DelayFunc = defaultDelay

// SetDelayFunc installs the platform microsecond delay. Target code calls this
// once a free-running timer is configured; tests install a simulated clock.
func SetDelayFunc(f DelayFunc) {
	if f == nil {
		f = defaultDelay
	}
	delayFunc = f
}

// DelayMicroseconds waits for at least us microseconds
func DelayMicroseconds(us uint32) {
	delayFunc(us)
}
