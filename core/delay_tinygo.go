//go:build tinygo

package core

// Rough loop count per microsecond at Fcy = 16 MHz. Only used until the
// target installs a timer-backed delay.
const spinsPerMicrosecond = 4

var spinSink uint32

// defaultDelay spins the CPU
func defaultDelay(us uint32) {
	for i := uint32(0); i < us*spinsPerMicrosecond; i++ {
		spinSink++
	}
}
