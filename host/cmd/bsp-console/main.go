package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode/utf8"

	"bsp24/config"
	"bsp24/host/serial"
	"bsp24/targets/pic24"

	tty "github.com/mattn/go-tty"
)

// Ctrl-] leaves the console, as in telnet
const escapeRune = 0x1D

var (
	device    = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud      = flag.String("baud", "115200", "Baud rate name from the board baud table")
	boardFile = flag.String("config", "", "Board JSON; takes frame format from -uart")
	uartPort  = flag.Int("uart", 1, "UART port in -config to match")
	listBauds = flag.Bool("list-bauds", false, "Print the baud table and exit")
	verbose   = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *listBauds {
		printBaudTable(os.Stdout)
		return
	}

	cfg, err := portConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.Debug("opening port", "device", cfg.Device, "baud", cfg.Baud,
		"parity", string(cfg.Parity), "stop_bits", cfg.StopBits)

	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	term, err := tty.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		os.Exit(1)
	}
	defer term.Close()

	restore, err := term.Raw()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to enter raw mode: %v\n", err)
		os.Exit(1)
	}
	defer restore()

	fmt.Fprintf(term.Output(), "Connected to %s at %d baud. Ctrl-] to quit.\r\n", cfg.Device, cfg.Baud)

	go pump(log, port, term.Output())

	if err := keyboard(term, port); err != nil {
		log.Error("console stopped", "err", err)
	}
}

// portConfig builds the port settings from flags and the optional board file
func portConfig() (*serial.Config, error) {
	if *boardFile == "" {
		entry, ok := pic24.LookupBaud(*baud)
		if !ok {
			return nil, fmt.Errorf("baud %q: %w", *baud, config.ErrBadBaud)
		}
		cfg := serial.DefaultConfig(*device)
		cfg.Baud = int(entry.Rate)
		return cfg, nil
	}

	data, err := os.ReadFile(*boardFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", *boardFile, err)
	}
	board, err := config.LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid board config %s: %w", *boardFile, err)
	}
	for _, u := range board.UARTs {
		if u.Port == *uartPort {
			return serial.ConfigFromBoard(*device, u)
		}
	}
	return nil, fmt.Errorf("uart %d not in %s: %w", *uartPort, *boardFile, config.ErrBadPort)
}

// pump copies board output to the terminal until the port fails
func pump(log *slog.Logger, port io.Reader, out io.Writer) {
	buf := make([]byte, 256)
	for {
		n, err := port.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				log.Error("terminal write failed", "err", werr)
				return
			}
		}
		if err != nil && !errors.Is(err, io.EOF) {
			log.Error("serial read failed", "err", err)
			return
		}
	}
}

// keyboard forwards key presses to the port until the escape key
func keyboard(term *tty.TTY, port io.Writer) error {
	var enc [utf8.UTFMax]byte
	for {
		r, err := term.ReadRune()
		if err != nil {
			return err
		}
		if r == escapeRune {
			return nil
		}
		n := utf8.EncodeRune(enc[:], r)
		if _, err := port.Write(enc[:n]); err != nil {
			return err
		}
	}
}

func printBaudTable(w io.Writer) {
	fmt.Fprintf(w, "%-8s %-8s %-9s %s\n", "rate", "divisor", "actual", "error")
	for _, e := range pic24.BaudTable {
		fmt.Fprintf(w, "%-8s 0x%04X   %-9.0f %+.2f%%\n",
			e.Name, uint16(e.Divisor), pic24.ActualBaud(e.Divisor), float64(e.ErrorCentiPercent)/100)
	}
}
