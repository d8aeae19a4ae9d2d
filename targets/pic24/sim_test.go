package pic24

import "bsp24/core"

// Simulated peripherals for host tests. Each fake computes its status bits
// on read the way the silicon does, so drivers see the same flag sequences.

// --- recording register ---

type recordingReg struct {
	core.Cell
	writes []uint16
}

func (r *recordingReg) Set(v uint16) {
	r.writes = append(r.writes, v)
	r.Cell.Set(v)
}

// seqReg logs every write under a name into a shared trace
type seqReg struct {
	core.Cell
	name  string
	trace *[]string
}

func (r *seqReg) Set(v uint16) {
	*r.trace = append(*r.trace, r.name)
	r.Cell.Set(v)
}

// --- SPI ---

// fakeSPI models the enhanced buffer: written words wait in a transmit FIFO
// and are shifted out one per `period` status reads; each shift clocks a
// word from the peer into the receive FIFO.
type fakeSPI struct {
	ctrl    uint16
	pending []uint16
	rx      []uint16
	sent    []uint16
	peer    func(i int) uint16
	shifted int
	period  int
	polls   int

	overflow  bool
	underflow bool
	maxRx     int
}

const fakeSPIFifoDepth = 8

func newFakeSPI(period int, peer func(i int) uint16) *fakeSPI {
	return &fakeSPI{period: period, peer: peer}
}

func (f *fakeSPI) handle() *SPI {
	return &SPI{
		ID:   0,
		STAT: spiStatReg{f},
		CON1: &core.Cell{},
		CON2: &core.Cell{},
		BUF:  spiBufReg{f},
	}
}

func (f *fakeSPI) tick() {
	f.polls++
	if f.polls%f.period != 0 || len(f.pending) == 0 {
		return
	}
	f.pending = f.pending[1:]
	v := f.peer(f.shifted)
	f.shifted++
	if len(f.rx) >= fakeSPIFifoDepth {
		f.overflow = true
		return
	}
	f.rx = append(f.rx, v)
	if len(f.rx) > f.maxRx {
		f.maxRx = len(f.rx)
	}
}

type spiStatReg struct{ f *fakeSPI }

func (r spiStatReg) Get() uint16 {
	f := r.f
	f.tick()
	v := f.ctrl
	count := len(f.pending)
	if count > 7 {
		count = 7
	}
	v = SPIStatSPIBEC.Put(v, uint16(count))
	if len(f.rx) == 0 {
		v |= SPIStatSRXMPT.Mask()
	}
	if f.overflow {
		v |= SPIStatSPIROV.Mask()
	}
	return v
}

func (r spiStatReg) Set(v uint16) {
	r.f.ctrl = v &^ (SPIStatSPIBEC.Mask() | SPIStatSRXMPT.Mask() | SPIStatSPIRBF.Mask() | SPIStatSPITBF.Mask() | SPIStatSRMPT.Mask())
	if v&SPIStatSPIROV.Mask() == 0 {
		r.f.overflow = false
	}
	r.f.ctrl &^= SPIStatSPIROV.Mask()
}

type spiBufReg struct{ f *fakeSPI }

func (r spiBufReg) Get() uint16 {
	f := r.f
	if len(f.rx) == 0 {
		f.underflow = true
		return 0
	}
	v := f.rx[0]
	f.rx = f.rx[1:]
	return v
}

func (r spiBufReg) Set(v uint16) {
	f := r.f
	if len(f.pending) >= fakeSPIFifoDepth {
		f.overflow = true
		return
	}
	f.pending = append(f.pending, v)
	f.sent = append(f.sent, v)
}

// --- UART ---

// simClock is advanced only by the delay function installed in core
type simClock struct {
	now uint32
}

func (c *simClock) delay(us uint32) {
	c.now += us
}

type arrival struct {
	at uint32
	b  byte
}

const fakeUARTFifoDepth = 4

// fakeUART delivers scheduled bytes into a 4-deep receive FIFO as the
// simulated clock passes their arrival time.
type fakeUART struct {
	clock    *simClock
	arrivals []arrival
	rx       []byte
	oerr     bool
	ctrl     uint16
	tx       []byte
	txBusy   int // status reads UTXBF stays set after a write
	busyLeft int
}

const uartStaReadOnly = 1<<0 | 1<<2 | 1<<3 | 1<<4 | 1<<8 | 1<<9

func (f *fakeUART) handle(mode core.Reg16) *UART {
	return &UART{
		ID:    0,
		MODE:  mode,
		STA:   uartStaReg{f},
		TXREG: uartTxReg{f},
		RXREG: uartRxReg{f},
		BRG:   &core.Cell{},
	}
}

func (f *fakeUART) deliver() {
	for len(f.arrivals) > 0 && f.arrivals[0].at <= f.clock.now {
		if len(f.rx) >= fakeUARTFifoDepth {
			f.oerr = true
		} else {
			f.rx = append(f.rx, f.arrivals[0].b)
		}
		f.arrivals = f.arrivals[1:]
	}
}

type uartStaReg struct{ f *fakeUART }

func (r uartStaReg) Get() uint16 {
	f := r.f
	f.deliver()
	v := f.ctrl
	if len(f.rx) > 0 {
		v |= UARTStaURXDA.Mask()
	}
	if f.oerr {
		v |= UARTStaOERR.Mask()
	}
	if f.busyLeft > 0 {
		f.busyLeft--
		v |= UARTStaUTXBF.Mask()
	} else {
		v |= UARTStaTRMT.Mask()
	}
	return v
}

func (r uartStaReg) Set(v uint16) {
	if v&UARTStaOERR.Mask() == 0 {
		r.f.oerr = false
	}
	r.f.ctrl = v &^ (uartStaReadOnly | UARTStaOERR.Mask())
}

type uartTxReg struct{ f *fakeUART }

func (r uartTxReg) Get() uint16 { return 0 }

func (r uartTxReg) Set(v uint16) {
	r.f.tx = append(r.f.tx, byte(v))
	r.f.busyLeft = r.f.txBusy
}

type uartRxReg struct{ f *fakeUART }

func (r uartRxReg) Get() uint16 {
	f := r.f
	if len(f.rx) == 0 {
		return 0
	}
	b := f.rx[0]
	f.rx = f.rx[1:]
	return uint16(b)
}

func (r uartRxReg) Set(uint16) {}

// --- Timer ---

// fakeTimerPair models a type B/type C pair. Reading the low counter while
// running advances the 32-bit count by step and latches the high half into
// the holding register; writing the low counter loads the high counter from
// the holding register.
type fakeTimerPair struct {
	lowCON  *core.Cell
	low     uint16
	high    uint16
	hold    uint16
	step    uint32
	readsLo int
}

func newFakeTimerPair(step uint32) *fakeTimerPair {
	return &fakeTimerPair{lowCON: &core.Cell{}, step: step}
}

func (p *fakeTimerPair) value() uint32 {
	return uint32(p.high)<<16 | uint32(p.low)
}

func (p *fakeTimerPair) handles() (*Timer, *Timer) {
	var ifs, iec core.Cell
	upper := &Timer{
		ID:  2,
		CON: &core.Cell{},
		TMR: timerHighReg{p},
		PR:  &core.Cell{},
		HLD: timerHoldReg{p},
		IRQ: core.IRQLine{Flag: &ifs, Enable: &iec, Bit: 8},
	}
	lower := &Timer{
		ID:    1,
		CON:   p.lowCON,
		TMR:   timerLowReg{p},
		PR:    &core.Cell{},
		IRQ:   core.IRQLine{Flag: &ifs, Enable: &iec, Bit: 7},
		Upper: upper,
	}
	return lower, upper
}

type timerLowReg struct{ p *fakeTimerPair }

func (r timerLowReg) Get() uint16 {
	p := r.p
	p.readsLo++
	if core.HasFlag(p.lowCON, TimerConTON) {
		v := p.value() + p.step
		if !core.HasFlag(p.lowCON, TimerConT32) {
			p.low = uint16(v)
		} else {
			p.low, p.high = uint16(v), uint16(v>>16)
		}
	}
	p.hold = p.high
	return p.low
}

func (r timerLowReg) Set(v uint16) {
	r.p.low = v
	r.p.high = r.p.hold
}

type timerHighReg struct{ p *fakeTimerPair }

func (r timerHighReg) Get() uint16  { return r.p.high }
func (r timerHighReg) Set(v uint16) { r.p.high = v }

type timerHoldReg struct{ p *fakeTimerPair }

func (r timerHoldReg) Get() uint16  { return r.p.hold }
func (r timerHoldReg) Set(v uint16) { r.p.hold = v }

// wrapCounter is a 16-bit counter that advances by step per read and wraps
// after period
type wrapCounter struct {
	value  uint32
	step   uint32
	period uint32
	total  uint32
}

func (c *wrapCounter) Get() uint16 {
	c.value = (c.value + c.step) % (c.period + 1)
	c.total += c.step
	return uint16(c.value)
}

func (c *wrapCounter) Set(v uint16) { c.value = uint32(v) }
