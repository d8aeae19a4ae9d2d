package core

// IRQLine describes where a peripheral interrupt lives inside the interrupt
// controller: a bit in an IFSx flag register and the same bit in the matching
// IECx enable register.
type IRQLine struct {
	Flag   Reg16
	Enable Reg16
	Bit    uint8
}

// Valid reports whether the line is wired
func (l IRQLine) Valid() bool {
	return l.Flag != nil && l.Enable != nil
}

// Pending reports whether the interrupt flag is set
func (l IRQLine) Pending() bool {
	return HasFlag(l.Flag, Bit(l.Bit))
}

// Clear clears the interrupt flag
func (l IRQLine) Clear() {
	WriteField(l.Flag, Bit(l.Bit), 0)
}

// SetEnabled sets or clears the interrupt enable bit
func (l IRQLine) SetEnabled(on bool) {
	SetFlag(l.Enable, Bit(l.Bit), on)
}

// Enabled reports whether the interrupt enable bit is set
func (l IRQLine) Enabled() bool {
	return HasFlag(l.Enable, Bit(l.Bit))
}
