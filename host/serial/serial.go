// Package serial is the host side of a board UART or CDC-ACM port.
package serial

import (
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Parity mirrors the board's UART parity setting
type Parity byte

const (
	ParityNone Parity = 'N'
	ParityEven Parity = 'E'
	ParityOdd  Parity = 'O'
)

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate; must match the board's BRG setting for a real UART
	Baud int

	// Frame format
	NineBit  bool
	Parity   Parity
	StopBits int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns 115200 8N1, the board's default console setting
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		Parity:      ParityNone,
		StopBits:    1,
		ReadTimeout: 100,
	}
}
