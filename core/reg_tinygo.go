//go:build tinygo

package core

import (
	"runtime/volatile"
	"unsafe"
)

// MMIO binds the 16-bit special function register at addr.
func MMIO(addr uintptr) Reg16 {
	return (*volatile.Register16)(unsafe.Pointer(addr))
}
