package serial

import (
	"fmt"

	"bsp24/config"
	"bsp24/targets/pic24"
)

// ConfigFromBoard builds a host configuration matching one UART of a board
// description. The host baud rate is the nominal table rate; the board's
// generator error stays within the table's documented margin.
func ConfigFromBoard(device string, u config.UARTConfig) (*Config, error) {
	entry, ok := pic24.LookupBaud(u.Baud)
	if !ok {
		return nil, fmt.Errorf("uart %d baud %q: %w", u.Port, u.Baud, config.ErrBadBaud)
	}
	cfg := DefaultConfig(device)
	cfg.Baud = int(entry.Rate)
	cfg.NineBit = u.NineBit
	cfg.StopBits = u.StopBits
	switch u.Parity {
	case "even":
		cfg.Parity = ParityEven
	case "odd":
		cfg.Parity = ParityOdd
	case "", "none":
		cfg.Parity = ParityNone
	default:
		return nil, fmt.Errorf("uart %d: %w", u.Port, config.ErrBadParity)
	}
	return cfg, nil
}
