package core

// Handler is the capability invoked when a peripheral raises its interrupt.
// Handlers run in interrupt context: they must not block and must not call
// back into a polling transport operation.
type Handler interface {
	Handle(ctx any)
}

// HandlerFunc adapts a plain function to Handler
type HandlerFunc func(ctx any)

// Handle calls f(ctx)
func (f HandlerFunc) Handle(ctx any) { f(ctx) }

// registration pairs a handler with the opaque context it is invoked with.
// A nil handler is the unregistered state.
type registration struct {
	handler Handler
	ctx     any
}

// CallbackTable holds one registration per peripheral instance, indexed by
// the instance id. Peripheral handles stay passive; their callbacks live here.
type CallbackTable struct {
	slots []registration
}

// NewCallbackTable creates a table with room for n instances
func NewCallbackTable(n int) *CallbackTable {
	return &CallbackTable{slots: make([]registration, n)}
}

// Register replaces the registration for instance id. Passing a nil handler
// returns the slot to the unregistered state. Out of range ids are ignored.
func (t *CallbackTable) Register(id int, h Handler, ctx any) {
	if id < 0 || id >= len(t.slots) {
		return
	}
	// Keep the handler/context pair consistent for an ISR that fires mid-update
	state := disableInterrupts()
	t.slots[id] = registration{handler: h, ctx: ctx}
	restoreInterrupts(state)
}

// Registered reports whether instance id has a handler
func (t *CallbackTable) Registered(id int) bool {
	if id < 0 || id >= len(t.slots) {
		return false
	}
	return t.slots[id].handler != nil
}

// Invoke runs the handler registered for id. It is a no-op when nothing is
// registered.
func (t *CallbackTable) Invoke(id int) {
	if id < 0 || id >= len(t.slots) {
		return
	}
	reg := t.slots[id]
	if reg.handler == nil {
		return
	}
	reg.handler.Handle(reg.ctx)
}
