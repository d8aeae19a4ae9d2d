package pic24

import "bsp24/core"

// TimerFlags configures a timer at Initialize
type TimerFlags uint16

const (
	TimerIdleStop      TimerFlags = 1 << iota // stop in CPU idle (TSIDL)
	Timer32Bit                                // chain with the upper timer (T32)
	TimerGated                                // gated time accumulation (TGATE)
	TimerExternalClock                        // count the TxCK pin (TCS)
	TimerSync                                 // synchronise the external clock (TSYNC)
)

// Timer prescale values for SetSpeedByPrescaler
const (
	TimerPrescale1   = 0
	TimerPrescale8   = 1
	TimerPrescale64  = 2
	TimerPrescale256 = 3
)

// MaxTimers bounds the timer instance ids
const MaxTimers = 5

var timerCallbacks = core.NewCallbackTable(MaxTimers)

// Timer is the handle of one timer instance. Upper links a type B timer to
// the type C timer that forms its high half; it is nil for timers that are
// not wired as a pair. HLD is the holding register of this timer when it
// serves as an upper half.
type Timer struct {
	ID    uint8
	CON   core.Reg16
	TMR   core.Reg16
	PR    core.Reg16
	HLD   core.Reg16
	IRQ   core.IRQLine
	Upper *Timer
}

// Initialize resets the control register and applies flags. The timer is
// left stopped.
func (t *Timer) Initialize(flags TimerFlags) {
	t.CON.Set(0)
	core.SetFlag(t.CON, TimerConTSIDL, flags&TimerIdleStop != 0)
	core.SetFlag(t.CON, TimerConT32, flags&Timer32Bit != 0 && t.Upper != nil)
	core.SetFlag(t.CON, TimerConTGATE, flags&TimerGated != 0)
	core.SetFlag(t.CON, TimerConTCS, flags&TimerExternalClock != 0)
	core.SetFlag(t.CON, TimerConTSYNC, flags&TimerSync != 0)
}

// SetSpeedByPrescaler writes the TCKPS field
func (t *Timer) SetSpeedByPrescaler(prescale uint16) {
	core.WriteField(t.CON, TimerConTCKPS, prescale)
}

// Chained reports whether the timer runs as the low half of a 32-bit pair
func (t *Timer) Chained() bool {
	return t.Upper != nil && core.HasFlag(t.CON, TimerConT32)
}

// Start sets TON
func (t *Timer) Start() {
	core.WriteField(t.CON, TimerConTON, 1)
}

// Stop clears TON
func (t *Timer) Stop() {
	core.WriteField(t.CON, TimerConTON, 0)
}

// Running reports whether TON is set
func (t *Timer) Running() bool {
	return core.HasFlag(t.CON, TimerConTON)
}

// SetPeriod programs the period match value. The high half goes to the
// upper timer only in 32-bit mode.
func (t *Timer) SetPeriod(value uint32) {
	t.PR.Set(uint16(value))
	if t.Chained() {
		t.Upper.PR.Set(uint16(value >> 16))
	}
}

// SetValue loads the counter. The counter is not safely writable while
// running, so the timer is stopped around the write. In 32-bit mode the high
// half is staged in the upper holding register and moves into the upper
// counter when the low half is written.
func (t *Timer) SetValue(value uint32) {
	running := t.Running()
	t.Stop()
	if t.Chained() {
		t.Upper.HLD.Set(uint16(value >> 16))
	}
	t.TMR.Set(uint16(value))
	if running {
		t.Start()
	}
}

// GetValue reads the counter. In 32-bit mode reading the low half latches
// the upper counter into its holding register, which is read second.
func (t *Timer) GetValue() uint32 {
	low := uint32(t.TMR.Get())
	if !t.Chained() {
		return low
	}
	return uint32(t.Upper.HLD.Get())<<16 | low
}

// WaitUntil spins while the counter is below target. Wraparound is the
// caller's problem: a target past the period never arrives.
func (t *Timer) WaitUntil(target uint32) {
	for t.GetValue() < target {
	}
}

// irq returns the line that fires for this timer. A 32-bit pair raises the
// upper timer's flag.
func (t *Timer) irq() core.IRQLine {
	if t.Chained() && t.Upper.IRQ.Valid() {
		return t.Upper.IRQ
	}
	return t.IRQ
}

// SetInterrupt clears any pending flag, then enables or disables the timer
// interrupt. Clearing first keeps a stale flag from firing on enable.
func (t *Timer) SetInterrupt(enabled bool) {
	line := t.irq()
	line.Clear()
	line.SetEnabled(enabled)
}

// ClearInterrupt acknowledges a pending timer interrupt
func (t *Timer) ClearInterrupt() {
	t.irq().Clear()
}

// InterruptPending reports whether the timer flag is set
func (t *Timer) InterruptPending() bool {
	return t.irq().Pending()
}

// Poll runs the callback if the timer flag is set, clearing the flag first.
// The flag sets whether or not the line is enabled, so a main loop can
// dispatch with the enable bit left clear.
func (t *Timer) Poll() bool {
	if !t.InterruptPending() {
		return false
	}
	t.ClearInterrupt()
	t.RunCallback()
	return true
}

// SetCallback registers the handler run by RunCallback. A nil handler
// unregisters.
func (t *Timer) SetCallback(h core.Handler, ctx any) {
	timerCallbacks.Register(int(t.ID), h, ctx)
}

// RunCallback is called from the timer interrupt vector
func (t *Timer) RunCallback() {
	timerCallbacks.Invoke(int(t.ID))
}
