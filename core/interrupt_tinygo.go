//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks all interrupts and returns the previous mask
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts puts back a mask returned by disableInterrupts
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
