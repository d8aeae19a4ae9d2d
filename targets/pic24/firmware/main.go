//go:build tinygo

package main

import (
	_ "embed"
	"runtime"
	"sync/atomic"

	"bsp24/config"
	"bsp24/core"
	"bsp24/targets/pic24"

	"tinygo.org/x/drivers"
)

//go:embed board.json
var boardJSON []byte

// Free-running 32-bit timebase on Timer2/3 at Fcy with 1:1 prescale
const ticksPerMicrosecond = pic24.Fcy / 1000000

var (
	router *core.Router

	buttonPresses uint32
	heartbeats    uint32
)

func main() {
	cfg, err := config.LoadConfig(boardJSON)
	if err != nil {
		cfg = config.DefaultBoardConfig()
	}

	InitTimebase()

	router = core.NewRouter()
	InitUARTs(cfg)
	InitSPI(cfg)
	InitStdio(cfg)
	core.SetRouter(router)

	core.SetDebugEnabled(cfg.DebugLog)
	core.SetDebugWriter(func(s string) {
		core.Write(core.FDStderr, []byte(s+"\r\n"))
	})
	core.InitAsyncDebug()
	core.DebugPrintln("[BOOT] bsp24 up")

	InitHeartbeat()
	InitButton()

	if len(cfg.SPI) > 0 {
		reportJEDEC(pic24.SPIs[cfg.SPI[0].Bus-1])
	}

	buf := make([]byte, 64)
	for {
		pollInterrupts()

		n := core.Read(core.FDStdin, buf)
		if n > 0 {
			core.Write(core.FDStdout, buf[:n])
		}

		// Let the async debug worker drain
		runtime.Gosched()
	}
}

// InitTimebase starts Timer2/3 as a 32-bit free-running counter and makes it
// the microsecond delay source.
func InitTimebase() {
	t := pic24.Timer2
	t.Initialize(pic24.Timer32Bit)
	t.SetSpeedByPrescaler(pic24.TimerPrescale1)
	t.SetPeriod(0xFFFFFFFF)
	t.SetValue(0)
	t.Start()
	core.SetDelayFunc(pic24.TimerDelay(t, ticksPerMicrosecond, 0xFFFFFFFF))
}

// InitUARTs brings up every configured port and attaches it to the router
func InitUARTs(cfg *config.BoardConfig) {
	for _, u := range cfg.UARTs {
		flags, divisor, err := u.Flags()
		if err != nil {
			continue
		}
		port := pic24.UARTs[u.Port-1]
		port.Initialize(flags, divisor)
		_ = router.AttachUART(u.Port, port)
	}
}

// InitSPI configures and enables every configured bus
func InitSPI(cfg *config.BoardConfig) {
	for _, s := range cfg.SPI {
		bus := pic24.SPIs[s.Bus-1]
		bus.Initialize(s.Flags())
		bus.SetSpeedByPrescaler(s.Prescalers())
		bus.Enable()
	}
}

// InitStdio applies the standard stream redirections
func InitStdio(cfg *config.BoardConfig) {
	targets, err := cfg.StdioTargets()
	if err != nil {
		return
	}
	for stream, fd := range targets {
		_ = router.AssignStdio(core.FD(stream), fd)
	}
}

// InitHeartbeat programs Timer1 for a 10 ms period. The flag is polled from
// the main loop; the enable bit stays clear because no vector is installed.
func InitHeartbeat() {
	t := pic24.Timer1
	t.Initialize(0)
	t.SetSpeedByPrescaler(pic24.TimerPrescale64)
	t.SetPeriod(pic24.Fcy / 64 / 100)
	t.SetValue(0)
	t.SetCallback(core.HandlerFunc(func(any) {
		atomic.AddUint32(&heartbeats, 1)
	}), nil)
	t.SetInterrupt(false)
	t.Start()
}

// InitButton arms INT0 on the falling edge, polled like the heartbeat
func InitButton() {
	pic24.INT0.Initialize(core.HandlerFunc(func(ctx any) {
		n := atomic.AddUint32(ctx.(*uint32), 1)
		core.DebugAsync("[INT0] press " + core.Utoa(n))
	}), &buttonPresses, pic24.EdgeFalling)
}

// pollInterrupts dispatches pending timer and INT0 flags from the main loop
func pollInterrupts() {
	pic24.Timer1.Poll()
	pic24.INT0.Poll()
}

// reportJEDEC reads the JEDEC id of a flash part on bus and logs it
func reportJEDEC(bus drivers.SPI) {
	id := make([]byte, 4)
	if err := bus.Tx([]byte{0x9F, 0, 0, 0}, id); err != nil {
		return
	}
	core.DebugPrintln("[SPI] jedec " + core.Utoa(uint32(id[1])) + " " + core.Utoa(uint32(id[2])) + " " + core.Utoa(uint32(id[3])))
}
