//go:build tinygo

package pic24

import "bsp24/core"

// Special function register addresses
const (
	addrINTCON2 = 0x0082
	addrIFS0    = 0x0084
	addrIFS1    = 0x0086
	addrIFS3    = 0x008A
	addrIEC0    = 0x0094
	addrIEC1    = 0x0096
	addrIEC3    = 0x009A

	addrTMR1    = 0x0100
	addrPR1     = 0x0102
	addrT1CON   = 0x0104
	addrTMR2    = 0x0106
	addrTMR3HLD = 0x0108
	addrTMR3    = 0x010A
	addrPR2     = 0x010C
	addrPR3     = 0x010E
	addrT2CON   = 0x0110
	addrT3CON   = 0x0112
	addrTMR4    = 0x0114
	addrTMR5HLD = 0x0116
	addrTMR5    = 0x0118
	addrPR4     = 0x011A
	addrPR5     = 0x011C
	addrT4CON   = 0x011E
	addrT5CON   = 0x0120

	addrU1MODE = 0x0220
	addrU2MODE = 0x0230
	addrU3MODE = 0x0250

	addrSPI1STAT = 0x0240
	addrSPI2STAT = 0x0260
)

// UART register offsets from UxMODE
const (
	uartSTA   = 0x2
	uartTXREG = 0x4
	uartRXREG = 0x6
	uartBRG   = 0x8
)

// SPI register offsets from SPIxSTAT
const (
	spiCON1 = 0x2
	spiCON2 = 0x4
	spiBUF  = 0x8
)

func uartAt(id uint8, base uintptr) *UART {
	return &UART{
		ID:    id,
		MODE:  core.MMIO(base),
		STA:   core.MMIO(base + uartSTA),
		TXREG: core.MMIO(base + uartTXREG),
		RXREG: core.MMIO(base + uartRXREG),
		BRG:   core.MMIO(base + uartBRG),
	}
}

func spiAt(id uint8, base uintptr) *SPI {
	return &SPI{
		ID:   id,
		STAT: core.MMIO(base),
		CON1: core.MMIO(base + spiCON1),
		CON2: core.MMIO(base + spiCON2),
		BUF:  core.MMIO(base + spiBUF),
	}
}

func irqAt(flag, enable uintptr, bit uint8) core.IRQLine {
	return core.IRQLine{Flag: core.MMIO(flag), Enable: core.MMIO(enable), Bit: bit}
}

// Peripheral instances. Addresses are fixed for the life of the program.
var (
	UART1 = uartAt(0, addrU1MODE)
	UART2 = uartAt(1, addrU2MODE)
	UART3 = uartAt(2, addrU3MODE)

	SPI1 = spiAt(0, addrSPI1STAT)
	SPI2 = spiAt(1, addrSPI2STAT)

	Timer1 = &Timer{
		ID:  0,
		CON: core.MMIO(addrT1CON),
		TMR: core.MMIO(addrTMR1),
		PR:  core.MMIO(addrPR1),
		IRQ: irqAt(addrIFS0, addrIEC0, 3),
	}
	Timer3 = &Timer{
		ID:  2,
		CON: core.MMIO(addrT3CON),
		TMR: core.MMIO(addrTMR3),
		PR:  core.MMIO(addrPR3),
		HLD: core.MMIO(addrTMR3HLD),
		IRQ: irqAt(addrIFS0, addrIEC0, 8),
	}
	Timer2 = &Timer{
		ID:    1,
		CON:   core.MMIO(addrT2CON),
		TMR:   core.MMIO(addrTMR2),
		PR:    core.MMIO(addrPR2),
		IRQ:   irqAt(addrIFS0, addrIEC0, 7),
		Upper: Timer3,
	}
	Timer5 = &Timer{
		ID:  4,
		CON: core.MMIO(addrT5CON),
		TMR: core.MMIO(addrTMR5),
		PR:  core.MMIO(addrPR5),
		HLD: core.MMIO(addrTMR5HLD),
		IRQ: irqAt(addrIFS1, addrIEC1, 12),
	}
	Timer4 = &Timer{
		ID:    3,
		CON:   core.MMIO(addrT4CON),
		TMR:   core.MMIO(addrTMR4),
		PR:    core.MMIO(addrPR4),
		IRQ:   irqAt(addrIFS1, addrIEC1, 11),
		Upper: Timer5,
	}

	INT0 = &ExtInt{ID: 0, CON: core.MMIO(addrINTCON2), Edge: IntCon2INT0EP, IRQ: irqAt(addrIFS0, addrIEC0, 0)}
	INT1 = &ExtInt{ID: 1, CON: core.MMIO(addrINTCON2), Edge: IntCon2INT1EP, IRQ: irqAt(addrIFS1, addrIEC1, 4)}
	INT2 = &ExtInt{ID: 2, CON: core.MMIO(addrINTCON2), Edge: IntCon2INT2EP, IRQ: irqAt(addrIFS1, addrIEC1, 13)}
	INT3 = &ExtInt{ID: 3, CON: core.MMIO(addrINTCON2), Edge: IntCon2INT3EP, IRQ: irqAt(addrIFS3, addrIEC3, 5)}
	INT4 = &ExtInt{ID: 4, CON: core.MMIO(addrINTCON2), Edge: IntCon2INT4EP, IRQ: irqAt(addrIFS3, addrIEC3, 6)}
)

// UARTs indexes the UART instances by port number minus one
var UARTs = [...]*UART{UART1, UART2, UART3}

// SPIs indexes the SPI instances by bus number minus one
var SPIs = [...]*SPI{SPI1, SPI2}
