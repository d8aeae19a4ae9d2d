// Package pic24 holds the register layouts, peripheral handles and polling
// drivers for the PIC24FJ-class target: SPI, UART, timers and external
// interrupts. Handles are passive: they carry register references and
// interrupt wiring, nothing else.
package pic24

import "bsp24/core"

// Fcy is the instruction clock all peripherals run from
const Fcy = 16000000

// SPIxSTAT
var (
	SPIStatSPIRBF  = core.Bit(0)                     // receive buffer full
	SPIStatSPITBF  = core.Bit(1)                     // transmit buffer full (unreliable, see SPIStatSPIBEC)
	SPIStatSISEL   = core.Field{Offset: 2, Width: 3} // buffer interrupt mode
	SPIStatSRXMPT  = core.Bit(5)                     // receive FIFO empty
	SPIStatSPIROV  = core.Bit(6)                     // receive overflow
	SPIStatSRMPT   = core.Bit(7)                     // shift register empty
	SPIStatSPIBEC  = core.Field{Offset: 8, Width: 3} // pending transmit element count
	SPIStatSPISIDL = core.Bit(13)                    // stop in idle
	SPIStatSPIEN   = core.Bit(15)                    // module enable

	// single-bit view of SISEL<2:0>
	SPIStatSISEL0 = core.Bit(2)
	SPIStatSISEL1 = core.Bit(3)
	SPIStatSISEL2 = core.Bit(4)

	// single-bit view of SPIBEC<2:0>
	SPIStatSPIBEC0 = core.Bit(8)
	SPIStatSPIBEC1 = core.Bit(9)
	SPIStatSPIBEC2 = core.Bit(10)
)

// SPIxCON1
var (
	SPICon1PPRE   = core.Field{Offset: 0, Width: 2} // primary prescale
	SPICon1SPRE   = core.Field{Offset: 2, Width: 3} // secondary prescale
	SPICon1MSTEN  = core.Bit(5)
	SPICon1CKP    = core.Bit(6) // clock idle high
	SPICon1SSEN   = core.Bit(7) // slave select enable
	SPICon1CKE    = core.Bit(8) // output changes on active-to-idle edge
	SPICon1SMP    = core.Bit(9) // sample phase
	SPICon1MODE16 = core.Bit(10)
	SPICon1DISSDO = core.Bit(11)
	SPICon1DISSCK = core.Bit(12)

	SPICon1PPRE0 = core.Bit(0)
	SPICon1PPRE1 = core.Bit(1)
	SPICon1SPRE0 = core.Bit(2)
	SPICon1SPRE1 = core.Bit(3)
	SPICon1SPRE2 = core.Bit(4)
)

// SPIxCON2
var (
	SPICon2SPIBEN  = core.Bit(0) // enhanced buffer
	SPICon2SPIFE   = core.Bit(1)
	SPICon2SPIFPOL = core.Bit(13)
	SPICon2SPIFSD  = core.Bit(14)
	SPICon2FRMEN   = core.Bit(15)
)

// UxMODE
var (
	UARTModeSTSEL  = core.Bit(0)                     // two stop bits
	UARTModePDSEL  = core.Field{Offset: 1, Width: 2} // parity and data size
	UARTModeBRGH   = core.Bit(3)
	UARTModeRXINV  = core.Bit(4)
	UARTModeABAUD  = core.Bit(5)
	UARTModeLPBACK = core.Bit(6)
	UARTModeWAKE   = core.Bit(7)
	UARTModeUEN    = core.Field{Offset: 8, Width: 2} // pin usage / flow control
	UARTModeRTSMD  = core.Bit(11)
	UARTModeIREN   = core.Bit(12)
	UARTModeUSIDL  = core.Bit(13)
	UARTModeUARTEN = core.Bit(15)

	UARTModePDSEL0 = core.Bit(1)
	UARTModePDSEL1 = core.Bit(2)
	UARTModeUEN0   = core.Bit(8)
	UARTModeUEN1   = core.Bit(9)
)

// PDSEL values
const (
	pdsel8None = 0
	pdsel8Even = 1
	pdsel8Odd  = 2
	pdsel9None = 3
)

// UEN values
const (
	uenTxRx       = 0
	uenTxRxRTSCTS = 2
)

// UxSTA
var (
	UARTStaURXDA    = core.Bit(0) // receive data available
	UARTStaOERR     = core.Bit(1) // receive overrun
	UARTStaFERR     = core.Bit(2)
	UARTStaPERR     = core.Bit(3)
	UARTStaRIDLE    = core.Bit(4)
	UARTStaADDEN    = core.Bit(5)
	UARTStaURXISEL  = core.Field{Offset: 6, Width: 2}
	UARTStaTRMT     = core.Bit(8) // transmit shift register empty
	UARTStaUTXBF    = core.Bit(9) // transmit FIFO full
	UARTStaUTXEN    = core.Bit(10)
	UARTStaUTXBRK   = core.Bit(11)
	UARTStaUTXISEL0 = core.Bit(13)
	UARTStaUTXINV   = core.Bit(14)
	UARTStaUTXISEL1 = core.Bit(15)

	UARTStaURXISEL0 = core.Bit(6)
	UARTStaURXISEL1 = core.Bit(7)
)

// TxCON
var (
	TimerConTCS   = core.Bit(1) // external clock source
	TimerConTSYNC = core.Bit(2)
	TimerConT32   = core.Bit(3) // chain with the next timer
	TimerConTCKPS = core.Field{Offset: 4, Width: 2}
	TimerConTGATE = core.Bit(6)
	TimerConTSIDL = core.Bit(13)
	TimerConTON   = core.Bit(15)

	TimerConTCKPS0 = core.Bit(4)
	TimerConTCKPS1 = core.Bit(5)
)

// INTCON2 edge polarity bits, one per external interrupt
var (
	IntCon2INT0EP = core.Bit(0)
	IntCon2INT1EP = core.Bit(1)
	IntCon2INT2EP = core.Bit(2)
	IntCon2INT3EP = core.Bit(3)
	IntCon2INT4EP = core.Bit(4)
)
