package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// IOEvent captures a routing failure for post-mortem analysis
type IOEvent struct {
	Kind   uint8 // Event kind code
	FD     FD    // Descriptor as passed by the caller
	Target FD    // Descriptor after stdio rewriting
	Count  int32 // Requested byte count
}

// Event kind codes
const (
	EvtStdioUnassigned = 1 // stdio descriptor with no redirection
	EvtNoBackend       = 2 // descriptor outside every configured range
	EvtNoInstance      = 3 // range matched but no such instance
	EvtBackendError    = 4 // backend returned an error
	EvtExcluded        = 5 // backend compiled out
)

const (
	IOEventRingSize = 16 // Keep last 16 failures
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether debug output is active
	debugEnabled bool

	ioRing     [IOEventRingSize]IOEvent
	ioRingHead uint8
	ioRingUsed bool

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function. Firmware
// usually points it at the stderr descriptor of the router.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		writer = func(string) {}
	}
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitAsyncDebug starts the goroutine that drains DebugAsync messages
func InitAsyncDebug() {
	debugChan = make(chan string, 16)
	go debugOutputWorker(debugChan)
}

func debugOutputWorker(ch chan string) {
	for msg := range ch {
		debugPrintln(msg)
	}
}

// DebugPrintln writes a debug message using the platform-specific writer.
// It blocks for as long as the writer does; interrupt handlers use DebugAsync.
func DebugPrintln(msg string) {
	if debugEnabled {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message without blocking. Messages are dropped
// when the queue is full or InitAsyncDebug was never called.
func DebugAsync(msg string) {
	if !debugEnabled || debugChan == nil {
		return
	}
	select {
	case debugChan <- msg:
	default:
	}
}

// RecordIOEvent stores a routing failure in the ring buffer
func RecordIOEvent(kind uint8, fd, target FD, count int) {
	idx := ioRingHead
	ioRing[idx] = IOEvent{Kind: kind, FD: fd, Target: target, Count: int32(count)}
	ioRingHead = (idx + 1) % IOEventRingSize
	ioRingUsed = true
}

// IOEvents returns the recorded failures, oldest first
func IOEvents() []IOEvent {
	if !ioRingUsed {
		return nil
	}
	out := make([]IOEvent, 0, IOEventRingSize)
	for i := uint8(0); i < IOEventRingSize; i++ {
		evt := ioRing[(ioRingHead+i)%IOEventRingSize]
		if evt.Kind == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// DumpIOEvents writes the ring through the debug writer (call on shutdown/error)
func DumpIOEvents() {
	debugPrintln("[FDIO] === Routing failures ===")
	for _, evt := range IOEvents() {
		debugPrintln("[FDIO] " + ioEventName(evt.Kind) +
			" fd=" + evt.FD.String() +
			" target=" + evt.Target.String() +
			" count=" + itoa(int(evt.Count)))
	}
	debugPrintln("[FDIO] === End ===")
}

// ClearIOEvents empties the ring
func ClearIOEvents() {
	for i := range ioRing {
		ioRing[i] = IOEvent{}
	}
	ioRingHead = 0
	ioRingUsed = false
}

func ioEventName(kind uint8) string {
	switch kind {
	case EvtStdioUnassigned:
		return "STDIO_UNASSIGNED"
	case EvtNoBackend:
		return "NO_BACKEND"
	case EvtNoInstance:
		return "NO_INSTANCE"
	case EvtBackendError:
		return "BACKEND_ERROR"
	case EvtExcluded:
		return "EXCLUDED"
	default:
		return "UNKNOWN"
	}
}
