//go:build !tinygo

package core

// State stands in for the saved interrupt mask on host builds
type State uintptr

// Host builds have no interrupt controller; masking is a no-op
func disableInterrupts() State { return 0 }

func restoreInterrupts(State) {}
