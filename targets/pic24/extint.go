package pic24

import "bsp24/core"

// Edge selects which transition of the INTx pin raises the interrupt
type Edge uint8

const (
	EdgeRising  Edge = 0
	EdgeFalling Edge = 1
)

// MaxExtInts bounds the external interrupt instance ids
const MaxExtInts = 5

var extIntCallbacks = core.NewCallbackTable(MaxExtInts)

// ExtInt is the handle of one external interrupt pin
type ExtInt struct {
	ID   uint8
	CON  core.Reg16 // INTCON2
	Edge core.Field // INTxEP in CON
	IRQ  core.IRQLine
}

// Initialize stores the callback, programs the edge and clears any pending
// flag. The interrupt stays disabled until Enable.
func (e *ExtInt) Initialize(h core.Handler, ctx any, edge Edge) {
	extIntCallbacks.Register(int(e.ID), h, ctx)
	core.WriteField(e.CON, e.Edge, uint16(edge))
	e.IRQ.Clear()
}

// Enable sets INTxIE
func (e *ExtInt) Enable() {
	e.IRQ.SetEnabled(true)
}

// Disable clears INTxIE
func (e *ExtInt) Disable() {
	e.IRQ.SetEnabled(false)
}

// Poll is the main-loop counterpart of the INTx vector: when the flag is set
// it clears it and runs the callback.
func (e *ExtInt) Poll() bool {
	if !e.IRQ.Pending() {
		return false
	}
	e.IRQ.Clear()
	e.RunCallback()
	return true
}

// RunCallback is called from the INTx vector. Nothing happens when no
// callback is registered.
func (e *ExtInt) RunCallback() {
	extIntCallbacks.Invoke(int(e.ID))
}
