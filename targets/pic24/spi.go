package pic24

import (
	"bsp24/core"

	"tinygo.org/x/drivers"
)

// SPIFlags selects the role, pin usage, word width and clocking of an SPI
// instance at Initialize.
type SPIFlags uint16

const (
	SPIMaster        SPIFlags = 1 << iota // master mode (MSTEN)
	SPIDisableSDO                         // SDOx pin not driven (DISSDO)
	SPIDisableSCK                         // SCKx pin not driven (DISSCK)
	SPISlaveSelect                        // SSx pin used in slave mode (SSEN)
	SPIWord16                             // 16-bit words (MODE16)
	SPIClockEdge                          // data changes on active-to-idle clock edge (CKE)
	SPIClockIdleHigh                      // clock idles high (CKP)
)

// Fixed values programmed by Initialize. CON2 selects enhanced buffer mode;
// STAT starts disabled with overflow cleared.
const (
	spiCon2Init uint16 = 0x0001
	spiStatInit uint16 = 0x0000
)

// spiTxHighWater is the SPIBEC count at which the transmit FIFO counts as
// full. SPITBF can misreport space under back-to-back writes, so the element
// count is used instead.
const spiTxHighWater = 7

// Dummy words clocked out when the caller has nothing to send
const (
	spiDummy8  uint8  = 0xFF
	spiDummy16 uint16 = 0xFFFF
)

// SPIModeFlags converts a conventional SPI mode (0-3, CPOL<<1|CPHA) into
// clock flags. CKE is the inverse of CPHA on this part.
func SPIModeFlags(mode uint8) SPIFlags {
	var f SPIFlags
	if mode&0x2 != 0 {
		f |= SPIClockIdleHigh
	}
	if mode&0x1 == 0 {
		f |= SPIClockEdge
	}
	return f
}

// SPI is the handle of one SPI instance
type SPI struct {
	ID   uint8
	STAT core.Reg16
	CON1 core.Reg16
	CON2 core.Reg16
	BUF  core.Reg16
}

var _ drivers.SPI = (*SPI)(nil)

// Discard cells for received words nobody asked for
var (
	spiScratch8  [1]uint8
	spiScratch16 [1]uint16
)

// Initialize resets CON1 and applies flags. The module is left disabled.
func (s *SPI) Initialize(flags SPIFlags) {
	s.CON1.Set(0)
	core.SetFlag(s.CON1, SPICon1MSTEN, flags&SPIMaster != 0)
	core.SetFlag(s.CON1, SPICon1DISSDO, flags&SPIDisableSDO != 0)
	core.SetFlag(s.CON1, SPICon1DISSCK, flags&SPIDisableSCK != 0)
	core.SetFlag(s.CON1, SPICon1SSEN, flags&SPISlaveSelect != 0)
	core.SetFlag(s.CON1, SPICon1MODE16, flags&SPIWord16 != 0)
	core.SetFlag(s.CON1, SPICon1CKE, flags&SPIClockEdge != 0)
	core.SetFlag(s.CON1, SPICon1CKP, flags&SPIClockIdleHigh != 0)
	// Slave mode requires SMP clear; master sampling stays at mid-bit too
	core.WriteField(s.CON1, SPICon1SMP, 0)

	s.CON2.Set(spiCon2Init)
	s.STAT.Set(spiStatInit)
}

// SetSpeedByPrescaler writes the primary (PPRE) and secondary (SPRE)
// prescaler fields as given.
func (s *SPI) SetSpeedByPrescaler(primary, secondary uint16) {
	core.WriteField(s.CON1, SPICon1PPRE, primary)
	core.WriteField(s.CON1, SPICon1SPRE, secondary)
}

// Enable turns the module on
func (s *SPI) Enable() {
	core.WriteField(s.STAT, SPIStatSPIEN, 1)
}

// Disable turns the module off
func (s *SPI) Disable() {
	core.WriteField(s.STAT, SPIStatSPIEN, 0)
}

// TransmitReceive clocks n bytes in both directions. A nil tx sends the
// dummy byte, a nil rx throws received bytes away. It returns the number of
// bytes transmitted and blocks until all n have been received; a peer that
// never clocks data back hangs the caller.
func (s *SPI) TransmitReceive(tx, rx []byte, n int) int {
	return transfer(s, tx, rx, n, spiDummy8, spiScratch8[:])
}

// TransmitReceive16 is TransmitReceive for an instance initialized with
// SPIWord16.
func (s *SPI) TransmitReceive16(tx, rx []uint16, n int) int {
	return transfer(s, tx, rx, n, spiDummy16, spiScratch16[:])
}

// Transmit sends p and discards whatever comes back
func (s *SPI) Transmit(p []byte) int {
	return s.TransmitReceive(p, nil, len(p))
}

// Receive fills p while clocking out dummy bytes
func (s *SPI) Receive(p []byte) int {
	return s.TransmitReceive(nil, p, len(p))
}

// Tx implements drivers.SPI. Buffers of different lengths transfer the
// longer of the two; the short side sends dummies or discards.
func (s *SPI) Tx(w, r []byte) error {
	n := len(w)
	if len(r) > n {
		n = len(r)
	}
	if len(w) > 0 && len(w) < n {
		w = padTx(w, n)
	}
	if len(w) == 0 {
		w = nil
	}
	if len(r) > 0 && len(r) < n {
		tmp := make([]byte, n)
		s.TransmitReceive(w, tmp, n)
		copy(r, tmp)
		return nil
	}
	if len(r) == 0 {
		r = nil
	}
	s.TransmitReceive(w, r, n)
	return nil
}

// Transfer implements drivers.SPI for a single byte
func (s *SPI) Transfer(b byte) (byte, error) {
	var tx, rx [1]byte
	tx[0] = b
	s.TransmitReceive(tx[:], rx[:], 1)
	return rx[0], nil
}

func padTx(w []byte, n int) []byte {
	out := make([]byte, n)
	copy(out, w)
	for i := len(w); i < n; i++ {
		out[i] = spiDummy8
	}
	return out
}

type spiWord interface {
	~uint8 | ~uint16
}

// transfer is the duplex loop shared by the byte and word variants
func transfer[T spiWord](s *SPI, tx, rx []T, n int, dummy T, scratch []T) int {
	txCount, rxCount := 0, 0
	for txCount < n {
		if core.ReadField(s.STAT, SPIStatSPIBEC) < spiTxHighWater {
			if tx != nil {
				s.BUF.Set(uint16(tx[txCount]))
			} else {
				s.BUF.Set(uint16(dummy))
			}
			txCount++
		}
		rxCount = drainRX(s, rx, rxCount, n, scratch)
	}
	for rxCount < n {
		rxCount = drainRX(s, rx, rxCount, n, scratch)
	}
	return txCount
}

// drainRX is the opportunistic drain: it reads until SRXMPT is set instead of
// taking a single element, because back-to-back transmits can otherwise
// overflow the receive FIFO. Elements past n, or all of them when rx is nil,
// land in scratch. It returns the updated receive count.
func drainRX[T spiWord](s *SPI, rx []T, rxCount, n int, scratch []T) int {
	for !core.HasFlag(s.STAT, SPIStatSRXMPT) {
		v := T(s.BUF.Get())
		if rx != nil && rxCount < n {
			rx[rxCount] = v
		} else {
			scratch[0] = v
		}
		rxCount++
	}
	return rxCount
}
