//go:build !nouart

package core

import (
	"errors"
	"io"
	"testing"
)

func TestWriteStdoutMatchesUART1(t *testing.T) {
	direct := &mockUART{}
	viaStdout := &mockUART{}

	r1 := NewRouter()
	r1.AttachUART(1, direct)
	r2 := NewRouter()
	r2.AttachUART(1, viaStdout)
	if err := r2.AssignStdio(FDStdout, FDUARTBase); err != nil {
		t.Fatalf("AssignStdio: %v", err)
	}

	n1 := r1.Write(0x10, []byte("hi"))
	n2 := r2.Write(FDStdout, []byte("hi"))
	if n1 != 2 || n2 != 2 {
		t.Fatalf("write counts %d and %d, want 2 and 2", n1, n2)
	}
	if direct.tx.String() != viaStdout.tx.String() {
		t.Errorf("stdout wrote %q, uart1 wrote %q", viaStdout.tx.String(), direct.tx.String())
	}
}

func TestUARTInstanceSelection(t *testing.T) {
	r := NewRouter()
	ports := []*mockUART{{}, {}, {}}
	for i, p := range ports {
		r.AttachUART(i+1, p)
	}

	r.Write(0x11, []byte("two"))
	r.Write(0x12, []byte("three"))

	if ports[0].tx.Len() != 0 {
		t.Errorf("uart1 got %q", ports[0].tx.String())
	}
	if ports[1].tx.String() != "two" {
		t.Errorf("uart2 got %q, want two", ports[1].tx.String())
	}
	if ports[2].tx.String() != "three" {
		t.Errorf("uart3 got %q, want three", ports[2].tx.String())
	}

	if n := r.Write(0x13, []byte("x")); n != -1 {
		t.Errorf("write(0x13) = %d, want -1", n)
	}
}

func TestReadShortCountFromUART(t *testing.T) {
	r := NewRouter()
	r.AttachUART(2, &mockUART{rx: []byte("ab")})
	r.AssignStdio(FDStdin, 0x11)

	buf := make([]byte, 8)
	if n := r.Read(FDStdin, buf); n != 2 || string(buf[:n]) != "ab" {
		t.Errorf("read(stdin) = %d %q, want 2 \"ab\"", n, buf[:n])
	}
	if n := r.Read(FDStdin, buf); n != 0 {
		t.Errorf("read on drained uart = %d, want 0", n)
	}
}

func TestFileAdapter(t *testing.T) {
	r := NewRouter()
	u := &mockUART{}
	r.AttachUART(1, u)

	f := r.File(0x10)
	if _, err := io.WriteString(f, "hello"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if u.tx.String() != "hello" {
		t.Errorf("uart got %q", u.tx.String())
	}

	if _, err := r.File(0x30).Write([]byte("x")); !errors.Is(err, ErrBadDescriptor) {
		t.Errorf("unrouted file write: %v, want ErrBadDescriptor", err)
	}
}

func TestDefaultRouter(t *testing.T) {
	SetRouter(nil)
	if n := Write(0x10, []byte("x")); n != -1 {
		t.Errorf("Write with no router = %d, want -1", n)
	}

	r := NewRouter()
	u := &mockUART{}
	r.AttachUART(1, u)
	SetRouter(r)
	defer SetRouter(nil)

	if n := Write(0x10, []byte("ok")); n != 2 {
		t.Errorf("Write = %d, want 2", n)
	}
	if DefaultRouter() != r {
		t.Error("DefaultRouter did not return the installed router")
	}
}
