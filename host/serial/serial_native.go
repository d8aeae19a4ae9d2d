//go:build !wasm

package serial

import (
	"errors"
	"fmt"
	"time"

	"github.com/tarm/serial"
)

var ErrNineBit = errors.New("9-bit frames are not supported by the host port")

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// nativeConfig converts cfg into the tarm/serial form
func nativeConfig(cfg *Config) (*serial.Config, error) {
	if cfg.NineBit {
		return nil, ErrNineBit
	}
	sc := &serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		Size:        8,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
	}
	switch cfg.Parity {
	case ParityEven:
		sc.Parity = serial.ParityEven
	case ParityOdd:
		sc.Parity = serial.ParityOdd
	default:
		sc.Parity = serial.ParityNone
	}
	if cfg.StopBits == 2 {
		sc.StopBits = serial.Stop2
	} else {
		sc.StopBits = serial.Stop1
	}
	return sc, nil
}

// Open opens a native serial port
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	serialConfig, err := nativeConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("serial port %s: %w", cfg.Device, err)
	}

	port, err := serial.OpenPort(serialConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{
		port: port,
		cfg:  cfg,
	}, nil
}

// Read reads data from the serial port
func (p *NativePort) Read(b []byte) (int, error) {
	return p.port.Read(b)
}

// Write writes data to the serial port
func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards unread input; tarm/serial exposes no output drain
func (p *NativePort) Flush() error {
	return p.port.Flush()
}
