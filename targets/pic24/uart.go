package pic24

import "bsp24/core"

// UARTFlags selects frame format and flow control at Initialize
type UARTFlags uint16

const (
	UARTStop2       UARTFlags = 1 << iota // two stop bits
	UARTParityEven                        // 8 data bits, even parity
	UARTParityOdd                         // 8 data bits, odd parity
	UART9Bit                              // 9 data bits, no parity; overrides the parity flags
	UARTFlowControl                       // RTS/CTS hardware flow control
)

// rxPollStep is the delay between URXDA polls in Receive
const rxPollStep = 1 // microseconds

// UART is the handle of one UART instance
type UART struct {
	ID    uint8
	MODE  core.Reg16
	STA   core.Reg16
	TXREG core.Reg16
	RXREG core.Reg16
	BRG   core.Reg16
}

var _ core.UARTPort = (*UART)(nil)

// Initialize disables the UART, programs the frame format and baud divisor,
// then enables the UART and its transmitter.
func (u *UART) Initialize(flags UARTFlags, divisor BaudDivisor) {
	core.WriteField(u.MODE, UARTModeUARTEN, 0)

	core.SetFlag(u.MODE, UARTModeSTSEL, flags&UARTStop2 != 0)
	switch {
	case flags&UART9Bit != 0:
		core.WriteField(u.MODE, UARTModePDSEL, pdsel9None)
	case flags&UARTParityEven != 0:
		core.WriteField(u.MODE, UARTModePDSEL, pdsel8Even)
	case flags&UARTParityOdd != 0:
		core.WriteField(u.MODE, UARTModePDSEL, pdsel8Odd)
	default:
		core.WriteField(u.MODE, UARTModePDSEL, pdsel8None)
	}

	// Divisors in BaudTable assume the high speed generator
	core.WriteField(u.MODE, UARTModeBRGH, 1)
	core.WriteField(u.MODE, UARTModeLPBACK, 0)
	core.WriteField(u.MODE, UARTModeWAKE, 0)
	core.WriteField(u.MODE, UARTModeIREN, 0)
	core.WriteField(u.MODE, UARTModeUSIDL, 0)

	if flags&UARTFlowControl != 0 {
		core.WriteField(u.MODE, UARTModeUEN, uenTxRxRTSCTS)
		core.WriteField(u.MODE, UARTModeRTSMD, 0)
	} else {
		core.WriteField(u.MODE, UARTModeUEN, uenTxRx)
	}

	u.STA.Set(0)
	u.BRG.Set(uint16(divisor))

	core.WriteField(u.MODE, UARTModeUARTEN, 1)
	core.WriteField(u.STA, UARTStaUTXEN, 1)
}

// SetSpeed reprograms the baud rate generator only
func (u *UART) SetSpeed(divisor BaudDivisor) {
	u.BRG.Set(uint16(divisor))
}

// Transmit writes p, waiting for FIFO space before each byte
func (u *UART) Transmit(p []byte) int {
	for _, b := range p {
		for core.HasFlag(u.STA, UARTStaUTXBF) {
		}
		u.TXREG.Set(uint16(b))
	}
	return len(p)
}

// Receive fills p and returns the number of bytes read. Each byte gets a
// fresh budget of about one character time (BRG x 3 us); when a byte does
// not arrive within it, Receive returns the short count. An overrun seen
// after a byte is read is cleared and not reported.
func (u *UART) Receive(p []byte) int {
	budget := RxTimeoutMicroseconds(BaudDivisor(u.BRG.Get()))
	for n := range p {
		var waited uint32
		for !core.HasFlag(u.STA, UARTStaURXDA) {
			if waited >= budget {
				return n
			}
			core.DelayMicroseconds(rxPollStep)
			waited += rxPollStep
		}
		p[n] = byte(u.RXREG.Get())
		if core.HasFlag(u.STA, UARTStaOERR) {
			core.WriteField(u.STA, UARTStaOERR, 0)
		}
	}
	return len(p)
}

// Write implements io.Writer over Transmit
func (u *UART) Write(p []byte) (int, error) {
	return u.Transmit(p), nil
}

// Read implements io.Reader over Receive. A quiet line yields 0, nil.
func (u *UART) Read(p []byte) (int, error) {
	return u.Receive(p), nil
}

// Flush waits until the last byte has left the shift register
func (u *UART) Flush() error {
	for !core.HasFlag(u.STA, UARTStaTRMT) {
	}
	return nil
}
