// Descriptor routing
// Maps the small integer descriptor space onto UART ports and USB CDC
// functions, with the three standard streams redirected at startup.
package core

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
)

// FD is a descriptor in the routing layer's byte-sized descriptor space
type FD int

// Descriptor space layout. The high nibble selects the backend, the low
// nibble selects the instance within it.
const (
	FDStdin  FD = 0
	FDStdout FD = 1
	FDStderr FD = 2

	FDUARTBase FD = 0x10 // UART1..UART3
	FDACMBase  FD = 0x20 // Nth active CDC-ACM function
	FDNCMBase  FD = 0x40 // Nth active CDC-NCM function
	FDECMBase  FD = 0x80 // CDC-ECM, reserved

	// FDUnassigned marks a standard stream with no redirection
	FDUnassigned FD = -1

	fdRangeMask    = 0xF0
	fdInstanceMask = 0x0F
)

// Instance limits per range
const (
	MaxUARTs        = 3
	MaxUSBFunctions = 4
)

var (
	ErrRouterSealed  = errors.New("router already in use")
	ErrBadDescriptor = errors.New("bad descriptor")
	ErrUnknownFD     = errors.New("unknown descriptor name")
)

// UARTPort is the blocking byte transport a UART backend offers. Both calls
// return the number of bytes moved; Receive may return a short count.
type UARTPort interface {
	Transmit(p []byte) int
	Receive(p []byte) int
}

// USBClass identifies the class of an active USB function
type USBClass uint8

const (
	USBClassACM USBClass = iota + 1
	USBClassNCM
	USBClassECM
)

// SerialFunction is the data path of a USB class driver context
type SerialFunction interface {
	Read(ctx context.Context, p []byte) (int, error)
	Write(ctx context.Context, p []byte) (int, error)
}

// USBFunction is one entry of the active USB function registry
type USBFunction struct {
	Class  USBClass
	Driver SerialFunction
}

// Backend identifies which transport a descriptor resolved to
type Backend uint8

const (
	BackendNone Backend = iota
	BackendUART
	BackendACM
	BackendNCM
)

// Route is the result of resolving a descriptor
type Route struct {
	FD      FD      // descriptor after stdio rewriting
	Backend Backend // selected transport
	Index   int     // UART instance (0-based) or registry index of the USB function
}

// Router owns the descriptor partition, the stdio redirection slots and the
// active USB function registry. It is configured during startup; the first
// Read or Write seals it and later mutation is refused.
type Router struct {
	stdio  [3]FD
	uarts  [MaxUARTs]UARTPort
	usb    []USBFunction
	sealed atomic.Bool
}

// NewRouter creates a router with every standard stream unassigned
func NewRouter() *Router {
	return &Router{stdio: [3]FD{FDUnassigned, FDUnassigned, FDUnassigned}}
}

// AttachUART installs the port serving UART instance n (1-based: UART1 is
// descriptor 0x10).
func (r *Router) AttachUART(n int, port UARTPort) error {
	if r.sealed.Load() {
		return ErrRouterSealed
	}
	if n < 1 || n > MaxUARTs {
		return ErrBadDescriptor
	}
	r.uarts[n-1] = port
	return nil
}

// AddUSBFunction appends f to the active function registry. Registration
// order fixes which descriptor reaches which function.
func (r *Router) AddUSBFunction(f USBFunction) error {
	if r.sealed.Load() {
		return ErrRouterSealed
	}
	r.usb = append(r.usb, f)
	return nil
}

// AssignStdio redirects a standard stream to a concrete descriptor. Passing
// FDUnassigned clears the redirection.
func (r *Router) AssignStdio(stream, target FD) error {
	if r.sealed.Load() {
		return ErrRouterSealed
	}
	if stream < FDStdin || stream > FDStderr {
		return ErrBadDescriptor
	}
	if target <= 0 {
		target = FDUnassigned
	}
	r.stdio[stream] = target
	return nil
}

// Stdio returns the current redirection of a standard stream
func (r *Router) Stdio(stream FD) FD {
	if stream < FDStdin || stream > FDStderr {
		return FDUnassigned
	}
	return r.stdio[stream]
}

// USBFunctions returns a copy of the active function registry
func (r *Router) USBFunctions() []USBFunction {
	out := make([]USBFunction, len(r.usb))
	copy(out, r.usb)
	return out
}

// Sealed reports whether routing has started
func (r *Router) Sealed() bool {
	return r.sealed.Load()
}

// Resolve rewrites a standard stream and matches the result against the
// descriptor ranges in priority order: UART, CDC-ACM, CDC-NCM.
func (r *Router) Resolve(fd FD) (Route, bool) {
	route, kind := r.resolve(fd)
	return route, kind == 0
}

func (r *Router) resolve(fd FD) (Route, uint8) {
	target := fd
	if fd >= FDStdin && fd <= FDStderr {
		target = r.stdio[fd]
		if target <= 0 {
			return Route{FD: FDUnassigned}, EvtStdioUnassigned
		}
	}
	route := Route{FD: target, Index: -1}
	instance := int(target & fdInstanceMask)

	switch {
	case inRange(target, FDUARTBase):
		if !uartRouting {
			return route, EvtExcluded
		}
		if instance >= MaxUARTs || r.uarts[instance] == nil {
			return route, EvtNoInstance
		}
		route.Backend = BackendUART
		route.Index = instance

	case inRange(target, FDACMBase):
		if !usbRouting {
			return route, EvtExcluded
		}
		idx := r.nthFunction(USBClassACM, instance)
		if idx < 0 {
			return route, EvtNoInstance
		}
		route.Backend = BackendACM
		route.Index = idx

	case inRange(target, FDNCMBase):
		if !usbRouting {
			return route, EvtExcluded
		}
		idx := r.nthFunction(USBClassNCM, instance)
		if idx < 0 {
			return route, EvtNoInstance
		}
		route.Backend = BackendNCM
		route.Index = idx

	default:
		// CDC-ECM and everything else
		return route, EvtNoBackend
	}
	return route, 0
}

// nthFunction scans the registry for the nth function of class, counting
// only matching entries, and returns its registry index or -1.
func (r *Router) nthFunction(class USBClass, n int) int {
	if n >= MaxUSBFunctions {
		return -1
	}
	seen := 0
	for i, f := range r.usb {
		if f.Class != class || f.Driver == nil {
			continue
		}
		if seen == n {
			return i
		}
		seen++
	}
	return -1
}

// inRange matches the whole high nibble so the ranges stay disjoint; 0x30
// is neither UART nor ACM.
func inRange(fd, base FD) bool {
	return fd >= 0 && fd <= 0xFF && fd&fdRangeMask == base
}

// Write sends p to the backend behind fd and returns the number of bytes
// written, or -1 when the descriptor does not route anywhere.
func (r *Router) Write(fd FD, p []byte) int {
	r.sealed.Store(true)
	route, kind := r.resolve(fd)
	if kind != 0 {
		r.fail("write", kind, fd, route.FD, len(p))
		return -1
	}
	if route.Backend == BackendUART {
		return r.uarts[route.Index].Transmit(p)
	}
	n, err := r.usb[route.Index].Driver.Write(context.Background(), p)
	return r.usbResult("write", fd, route.FD, len(p), n, err)
}

// Read fills p from the backend behind fd and returns the number of bytes
// read, or -1 when the descriptor does not route anywhere. UART reads may be
// short when the line goes idle.
func (r *Router) Read(fd FD, p []byte) int {
	r.sealed.Store(true)
	route, kind := r.resolve(fd)
	if kind != 0 {
		r.fail("read", kind, fd, route.FD, len(p))
		return -1
	}
	if route.Backend == BackendUART {
		return r.uarts[route.Index].Receive(p)
	}
	n, err := r.usb[route.Index].Driver.Read(context.Background(), p)
	return r.usbResult("read", fd, route.FD, len(p), n, err)
}

func (r *Router) usbResult(op string, fd, target FD, count, n int, err error) int {
	if err == nil {
		return n
	}
	r.fail(op, EvtBackendError, fd, target, count)
	if n > 0 {
		return n
	}
	return -1
}

func (r *Router) fail(op string, kind uint8, fd, target FD, count int) {
	RecordIOEvent(kind, fd, target, count)
	// stderr itself may be the failing descriptor; a debug writer pointed at
	// it must not recurse.
	if fd == FDStderr || (r.stdio[FDStderr] > 0 && target == r.stdio[FDStderr]) {
		return
	}
	DebugPrintln("[FDIO] " + op + " " + fd.String() + ": " + ioEventName(kind))
}

// File returns an io.ReadWriter over fd. Failed routing surfaces as
// ErrBadDescriptor.
func (r *Router) File(fd FD) io.ReadWriter {
	return &fdFile{router: r, fd: fd}
}

type fdFile struct {
	router *Router
	fd     FD
}

func (f *fdFile) Write(p []byte) (int, error) {
	n := f.router.Write(f.fd, p)
	if n < 0 {
		return 0, ErrBadDescriptor
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

func (f *fdFile) Read(p []byte) (int, error) {
	n := f.router.Read(f.fd, p)
	if n < 0 {
		return 0, ErrBadDescriptor
	}
	return n, nil
}

// Global router used by the POSIX-style hooks
var defaultRouter *Router

// SetRouter is called by board setup code to install the process router
func SetRouter(r *Router) {
	defaultRouter = r
}

// DefaultRouter returns the installed router or nil
func DefaultRouter() *Router {
	return defaultRouter
}

// Write forwards to the installed router; -1 if none is installed
func Write(fd FD, p []byte) int {
	if defaultRouter == nil {
		return -1
	}
	return defaultRouter.Write(fd, p)
}

// Read forwards to the installed router; -1 if none is installed
func Read(fd FD, p []byte) int {
	if defaultRouter == nil {
		return -1
	}
	return defaultRouter.Read(fd, p)
}
