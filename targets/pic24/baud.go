package pic24

// BaudDivisor is a UxBRG value for BRGH=1: baud = Fcy / (4 * (BRG + 1))
type BaudDivisor uint16

// Divisors for the standard rates at Fcy = 16 MHz
const (
	Baud1200    BaudDivisor = 0xD04 // +0.01%
	Baud2400    BaudDivisor = 0x682 // -0.02%
	Baud4800    BaudDivisor = 0x340 // +0.04%
	Baud9600    BaudDivisor = 0x1A0 // -0.08%
	Baud19200   BaudDivisor = 0xCF  // +0.16%
	Baud38400   BaudDivisor = 0x67  // +0.16%
	Baud57600   BaudDivisor = 0x44  // +0.64%
	Baud115200  BaudDivisor = 0x22  // -0.79%
	Baud230400  BaudDivisor = 0x10  // +2.12%
	Baud250000  BaudDivisor = 0x0F  // exact
	Baud460800  BaudDivisor = 0x08  // -3.55%
	Baud500000  BaudDivisor = 0x07  // exact
	Baud1000000 BaudDivisor = 0x03  // exact
)

// BaudEntry documents one row of the baud table
type BaudEntry struct {
	Name    string
	Rate    uint32
	Divisor BaudDivisor
	// Error of the generated rate against Rate, in hundredths of a percent
	ErrorCentiPercent int16
}

// BaudTable lists the supported rates in ascending order
var BaudTable = []BaudEntry{
	{"1200", 1200, Baud1200, 1},
	{"2400", 2400, Baud2400, -2},
	{"4800", 4800, Baud4800, 4},
	{"9600", 9600, Baud9600, -8},
	{"19200", 19200, Baud19200, 16},
	{"38400", 38400, Baud38400, 16},
	{"57600", 57600, Baud57600, 64},
	{"115200", 115200, Baud115200, -79},
	{"230400", 230400, Baud230400, 212},
	{"250000", 250000, Baud250000, 0},
	{"460800", 460800, Baud460800, -355},
	{"500000", 500000, Baud500000, 0},
	{"1000000", 1000000, Baud1000000, 0},
}

// LookupBaud finds a table entry by its symbolic name
func LookupBaud(name string) (BaudEntry, bool) {
	for _, e := range BaudTable {
		if e.Name == name {
			return e, true
		}
	}
	return BaudEntry{}, false
}

// ActualBaud returns the rate the generator produces for d
func ActualBaud(d BaudDivisor) float64 {
	return float64(Fcy) / (4 * (float64(d) + 1))
}

// RxTimeoutMicroseconds is the per-byte receive budget Receive uses for d,
// roughly one character time.
func RxTimeoutMicroseconds(d BaudDivisor) uint32 {
	return uint32(d) * 3
}
