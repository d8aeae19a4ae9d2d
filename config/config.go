// Package config loads the JSON board description used at startup: which
// UARTs and SPI buses to bring up and where the standard streams go.
package config

import (
	"encoding/json"
	"errors"
	"fmt"

	"bsp24/core"
	"bsp24/targets/pic24"
)

// StdioConfig names the descriptor each standard stream is redirected to
type StdioConfig struct {
	Stdin  string `json:"stdin"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// UARTConfig describes one UART port
type UARTConfig struct {
	Port        int    `json:"port"` // 1..3
	Baud        string `json:"baud"` // BaudTable name, e.g. "115200"
	Parity      string `json:"parity"`
	StopBits    int    `json:"stop_bits"`
	NineBit     bool   `json:"nine_bit"`
	FlowControl bool   `json:"flow_control"`
}

// SPIConfig describes one SPI bus
type SPIConfig struct {
	Bus       int    `json:"bus"`  // 1..2
	Mode      uint8  `json:"mode"` // 0..3
	Master    bool   `json:"master"`
	Word16    bool   `json:"word16"`
	// Prescaler fields as written to PPRE/SPRE. Zero is a valid value
	// (64:1, 8:1), so absence is told apart by nil.
	Primary   *uint16 `json:"primary_prescale"`
	Secondary *uint16 `json:"secondary_prescale"`
}

// BoardConfig is the complete startup description
type BoardConfig struct {
	Stdio    StdioConfig  `json:"stdio"`
	UARTs    []UARTConfig `json:"uarts"`
	SPI      []SPIConfig  `json:"spi"`
	DebugLog bool         `json:"debug_log"`
}

var (
	ErrBadPort   = errors.New("port out of range")
	ErrBadBaud   = errors.New("unknown baud rate")
	ErrBadParity = errors.New("unknown parity")
	ErrBadStop   = errors.New("stop bits must be 1 or 2")
	ErrBadMode   = errors.New("SPI mode must be 0-3")
)

const (
	defaultPrimaryPrescale   uint16 = 1 // 16:1
	defaultSecondaryPrescale uint16 = 7 // 1:1
)

func prescale(v uint16) *uint16 { return &v }

// LoadConfig parses a JSON configuration, applies defaults and validates it
func LoadConfig(jsonData []byte) (*BoardConfig, error) {
	var cfg BoardConfig

	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *BoardConfig) {
	for i := range cfg.UARTs {
		u := &cfg.UARTs[i]
		if u.Baud == "" {
			u.Baud = "115200"
		}
		if u.Parity == "" {
			u.Parity = "none"
		}
		if u.StopBits == 0 {
			u.StopBits = 1
		}
	}
	for i := range cfg.SPI {
		s := &cfg.SPI[i]
		// Unset prescalers give 16:1 * 1:1, 1 MHz at Fcy
		if s.Primary == nil {
			s.Primary = prescale(defaultPrimaryPrescale)
		}
		if s.Secondary == nil {
			s.Secondary = prescale(defaultSecondaryPrescale)
		}
	}
}

// Validate checks ports, rates and descriptor names
func (c *BoardConfig) Validate() error {
	for _, name := range []string{c.Stdio.Stdin, c.Stdio.Stdout, c.Stdio.Stderr} {
		if _, err := core.ParseFD(name); err != nil {
			return fmt.Errorf("stdio %q: %w", name, err)
		}
	}
	for _, u := range c.UARTs {
		if u.Port < 1 || u.Port > core.MaxUARTs {
			return fmt.Errorf("uart %d: %w", u.Port, ErrBadPort)
		}
		if _, ok := pic24.LookupBaud(u.Baud); !ok {
			return fmt.Errorf("uart %d baud %q: %w", u.Port, u.Baud, ErrBadBaud)
		}
		if _, err := parityFlags(u.Parity); err != nil {
			return fmt.Errorf("uart %d: %w", u.Port, err)
		}
		if u.StopBits != 1 && u.StopBits != 2 {
			return fmt.Errorf("uart %d: %w", u.Port, ErrBadStop)
		}
	}
	for _, s := range c.SPI {
		if s.Bus < 1 || s.Bus > 2 {
			return fmt.Errorf("spi %d: %w", s.Bus, ErrBadPort)
		}
		if s.Mode > 3 {
			return fmt.Errorf("spi %d: %w", s.Bus, ErrBadMode)
		}
	}
	return nil
}

// Flags converts the port description to UART driver flags and divisor
func (u UARTConfig) Flags() (pic24.UARTFlags, pic24.BaudDivisor, error) {
	entry, ok := pic24.LookupBaud(u.Baud)
	if !ok {
		return 0, 0, ErrBadBaud
	}
	flags, err := parityFlags(u.Parity)
	if err != nil {
		return 0, 0, err
	}
	if u.StopBits == 2 {
		flags |= pic24.UARTStop2
	}
	if u.NineBit {
		flags |= pic24.UART9Bit
	}
	if u.FlowControl {
		flags |= pic24.UARTFlowControl
	}
	return flags, entry.Divisor, nil
}

// Prescalers returns the PPRE and SPRE values, falling back to the defaults
// for fields the description leaves out.
func (s SPIConfig) Prescalers() (primary, secondary uint16) {
	primary, secondary = defaultPrimaryPrescale, defaultSecondaryPrescale
	if s.Primary != nil {
		primary = *s.Primary
	}
	if s.Secondary != nil {
		secondary = *s.Secondary
	}
	return primary, secondary
}

// Flags converts the bus description to SPI driver flags
func (s SPIConfig) Flags() pic24.SPIFlags {
	flags := pic24.SPIModeFlags(s.Mode)
	if s.Master {
		flags |= pic24.SPIMaster
	}
	if s.Word16 {
		flags |= pic24.SPIWord16
	}
	return flags
}

// StdioTargets resolves the stdio names into descriptors, indexed by stream
func (c *BoardConfig) StdioTargets() ([3]core.FD, error) {
	var out [3]core.FD
	for i, name := range []string{c.Stdio.Stdin, c.Stdio.Stdout, c.Stdio.Stderr} {
		fd, err := core.ParseFD(name)
		if err != nil {
			return out, fmt.Errorf("stdio %q: %w", name, err)
		}
		out[i] = fd
	}
	return out, nil
}

func parityFlags(parity string) (pic24.UARTFlags, error) {
	switch parity {
	case "none":
		return 0, nil
	case "even":
		return pic24.UARTParityEven, nil
	case "odd":
		return pic24.UARTParityOdd, nil
	default:
		return 0, ErrBadParity
	}
}

// DefaultBoardConfig returns UART1 at 115200 8N1 carrying all three
// standard streams and SPI1 as a mode 0 master.
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Stdio: StdioConfig{Stdin: "uart1", Stdout: "uart1", Stderr: "uart1"},
		UARTs: []UARTConfig{
			{Port: 1, Baud: "115200", Parity: "none", StopBits: 1},
		},
		SPI: []SPIConfig{
			{
				Bus:       1,
				Mode:      0,
				Master:    true,
				Primary:   prescale(defaultPrimaryPrescale),
				Secondary: prescale(defaultSecondaryPrescale),
			},
		},
	}
}
