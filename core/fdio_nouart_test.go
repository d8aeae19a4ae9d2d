//go:build nouart

package core

import "testing"

func TestUARTDescriptorsExcluded(t *testing.T) {
	r := NewRouter()
	u := &mockUART{rx: []byte("ab")}
	r.AttachUART(1, u)
	r.AssignStdio(FDStdout, FDUARTBase)

	for _, fd := range []FD{0x10, 0x11, 0x12, FDStdout} {
		ClearIOEvents()
		if n := r.Write(fd, []byte("x")); n != -1 {
			t.Errorf("write(%v) = %d, want -1", fd, n)
		}
		if n := r.Read(fd, make([]byte, 2)); n != -1 {
			t.Errorf("read(%v) = %d, want -1", fd, n)
		}
		events := IOEvents()
		if len(events) != 2 || events[0].Kind != EvtExcluded || events[1].Kind != EvtExcluded {
			t.Errorf("%v events = %+v, want two EXCLUDED", fd, events)
		}
	}
	if u.tx.Len() != 0 || len(u.rx) != 2 {
		t.Error("excluded UART backend was reached")
	}
	if _, ok := r.Resolve(0x10); ok {
		t.Error("0x10 resolved with UART routing compiled out")
	}
}
