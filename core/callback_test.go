package core

import "testing"

func TestCallbackTableInvoke(t *testing.T) {
	table := NewCallbackTable(2)

	var got any
	calls := 0
	table.Register(1, HandlerFunc(func(ctx any) {
		calls++
		got = ctx
	}), "ctx-1")

	table.Invoke(1)
	table.Invoke(1)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if got != "ctx-1" {
		t.Errorf("ctx = %v, want ctx-1", got)
	}
}

func TestCallbackTableUnregisteredIsNoop(t *testing.T) {
	table := NewCallbackTable(2)

	// Must not panic
	table.Invoke(0)
	table.Invoke(-1)
	table.Invoke(5)

	if table.Registered(0) {
		t.Error("slot 0 registered without Register")
	}
}

func TestCallbackTableReRegistration(t *testing.T) {
	table := NewCallbackTable(1)
	first, second := 0, 0

	table.Register(0, HandlerFunc(func(any) { first++ }), nil)
	table.Register(0, HandlerFunc(func(any) { second++ }), nil)
	table.Invoke(0)

	if first != 0 || second != 1 {
		t.Errorf("first=%d second=%d, want 0 and 1", first, second)
	}

	table.Register(0, nil, nil)
	if table.Registered(0) {
		t.Error("nil handler left slot registered")
	}
	table.Invoke(0)
	if second != 1 {
		t.Errorf("unregistered slot still dispatched")
	}
}

func TestCallbackTableOutOfRangeRegister(t *testing.T) {
	table := NewCallbackTable(1)
	table.Register(3, HandlerFunc(func(any) {}), nil)
	if table.Registered(3) {
		t.Error("out of range id registered")
	}
}
