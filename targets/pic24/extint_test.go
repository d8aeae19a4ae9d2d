package pic24

import (
	"testing"

	"bsp24/core"
)

func newExtInt(id uint8) (*ExtInt, *core.Cell, *core.Cell, *core.Cell) {
	con, ifs, iec := &core.Cell{}, &core.Cell{}, &core.Cell{}
	e := &ExtInt{
		ID:   id,
		CON:  con,
		Edge: core.Bit(id),
		IRQ:  core.IRQLine{Flag: ifs, Enable: iec, Bit: 0},
	}
	return e, con, ifs, iec
}

func TestExtIntInitialize(t *testing.T) {
	e, con, ifs, iec := newExtInt(2)
	t.Cleanup(func() { e.Initialize(nil, nil, EdgeRising) })
	con.Set(0x0001)
	ifs.Set(0x0001)

	var got any
	e.Initialize(core.HandlerFunc(func(ctx any) { got = ctx }), 42, EdgeFalling)

	if con.Get() != 0x0005 {
		t.Errorf("INTCON2 = %#04x, want 0x0005", con.Get())
	}
	if ifs.Get() != 0 {
		t.Error("pending flag not cleared")
	}
	if iec.Get() != 0 {
		t.Error("Initialize enabled the interrupt")
	}

	e.RunCallback()
	if got != 42 {
		t.Errorf("callback context = %v", got)
	}

	e.Initialize(nil, nil, EdgeRising)
	if core.HasFlag(con, core.Bit(2)) {
		t.Error("rising edge left INT2EP set")
	}
}

func TestExtIntEnableDisable(t *testing.T) {
	e, _, _, iec := newExtInt(0)
	e.Enable()
	if iec.Get() != 1 {
		t.Fatal("Enable did not set the enable bit")
	}
	e.Disable()
	if iec.Get() != 0 {
		t.Fatal("Disable did not clear the enable bit")
	}
}

func TestExtIntRunCallbackUnregistered(t *testing.T) {
	e, _, _, _ := newExtInt(4)
	e.RunCallback()
}

func TestExtIntPoll(t *testing.T) {
	e, _, ifs, iec := newExtInt(1)
	t.Cleanup(func() { e.Initialize(nil, nil, EdgeRising) })
	calls := 0
	e.Initialize(core.HandlerFunc(func(any) { calls++ }), nil, EdgeFalling)

	if e.Poll() {
		t.Fatal("Poll with no flag set")
	}
	ifs.Set(1)
	if !e.Poll() || calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
	if ifs.Get() != 0 || iec.Get() != 0 {
		t.Fatalf("IFS %#x IEC %#x after Poll", ifs.Get(), iec.Get())
	}
}
