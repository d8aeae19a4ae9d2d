package core

var rangeNames = [...]struct {
	base  FD
	name  string
	first int // instance number printed for low nibble 0
}{
	{FDUARTBase, "uart", 1},
	{FDACMBase, "acm", 0},
	{FDNCMBase, "ncm", 0},
	{FDECMBase, "ecm", 0},
}

// String returns the conventional name of a descriptor, e.g. "stdout",
// "uart1" or "acm0"; descriptors outside the named ranges print as hex.
func (fd FD) String() string {
	switch fd {
	case FDStdin:
		return "stdin"
	case FDStdout:
		return "stdout"
	case FDStderr:
		return "stderr"
	case FDUnassigned:
		return "unassigned"
	}
	if fd < 0 || fd > 0xFF {
		return itoa(int(fd))
	}
	for _, rn := range rangeNames {
		limit := MaxUSBFunctions
		if rn.base == FDUARTBase {
			limit = MaxUARTs
		}
		if fd&fdRangeMask == rn.base && int(fd&fdInstanceMask) < limit {
			return rn.name + itoa(int(fd&fdInstanceMask)+rn.first)
		}
	}
	return hex8(uint8(fd))
}

// ParseFD converts a descriptor name back into its value. It accepts the
// names produced by String as well as decimal or 0x-prefixed literals.
func ParseFD(name string) (FD, error) {
	switch name {
	case "stdin":
		return FDStdin, nil
	case "stdout":
		return FDStdout, nil
	case "stderr":
		return FDStderr, nil
	case "", "none", "unassigned":
		return FDUnassigned, nil
	}
	for _, rn := range rangeNames {
		if len(name) != len(rn.name)+1 || name[:len(rn.name)] != rn.name {
			continue
		}
		n := int(name[len(rn.name)]-'0') - rn.first
		if n < 0 || n >= MaxUSBFunctions || (rn.base == FDUARTBase && n >= MaxUARTs) {
			return FDUnassigned, ErrUnknownFD
		}
		return rn.base + FD(n), nil
	}
	if v, ok := parseUint(name); ok && v <= 0xFF {
		return FD(v), nil
	}
	return FDUnassigned, ErrUnknownFD
}
