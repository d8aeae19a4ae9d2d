//go:build !tinygo

package core

import "time"

// defaultDelay sleeps on the host
func defaultDelay(us uint32) {
	time.Sleep(time.Duration(us) * time.Microsecond)
}
