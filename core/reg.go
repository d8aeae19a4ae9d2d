package core

// Reg16 is a 16-bit peripheral register. Device builds back it with a
// volatile memory-mapped location (see MMIO); host builds and tests use Cell
// or a simulated register.
type Reg16 interface {
	Get() uint16
	Set(value uint16)
}

// Cell is a plain storage register with no side effects.
type Cell struct {
	value uint16
}

// Get returns the stored value
func (c *Cell) Get() uint16 { return c.value }

// Set stores value
func (c *Cell) Set(value uint16) { c.value = value }

// Field is a contiguous bit range inside a 16-bit register.
type Field struct {
	Offset uint8
	Width  uint8
}

// Bit returns a single-bit field at position n
func Bit(n uint8) Field {
	return Field{Offset: n, Width: 1}
}

// Max returns the largest value the field can hold
func (f Field) Max() uint16 {
	return uint16(1)<<f.Width - 1
}

// Mask returns the field's bits in register position
func (f Field) Mask() uint16 {
	return f.Max() << f.Offset
}

// Get extracts the field from word
func (f Field) Get(word uint16) uint16 {
	return (word >> f.Offset) & f.Max()
}

// Put returns word with the field replaced by v. Bits of v above the field
// width are dropped.
func (f Field) Put(word, v uint16) uint16 {
	return (word &^ f.Mask()) | (v&f.Max())<<f.Offset
}

// ReadField reads r once and extracts f
func ReadField(r Reg16, f Field) uint16 {
	return f.Get(r.Get())
}

// WriteField performs a read-modify-write of f in r, leaving other bits intact
func WriteField(r Reg16, f Field, v uint16) {
	r.Set(f.Put(r.Get(), v))
}

// SetFlag writes 1 or 0 into a single-bit field
func SetFlag(r Reg16, f Field, on bool) {
	if on {
		WriteField(r, f, 1)
	} else {
		WriteField(r, f, 0)
	}
}

// HasFlag reports whether any bit of f is set in r
func HasFlag(r Reg16, f Field) bool {
	return r.Get()&f.Mask() != 0
}
