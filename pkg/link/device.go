package link

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/itohio/goldr/pkg/ldr"
	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate matches the firmware UART configuration.
	DefaultBaudRate = 9600
	// DefaultBufferSize is the default size for the reports channel buffer.
	DefaultBufferSize = 100
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the reporter MCU.
type Serial struct {
	port     string
	baudRate int
	bufSize  int
	log      zerolog.Logger

	conn      serial.Port
	reports   chan Report
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new Serial device with the specified port, baud rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		log:       zerolog.Nop(),
		reports:   make(chan Report, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// SetLogger sets the logger used for dropped lines and transport errors.
func (d *Serial) SetLogger(l zerolog.Logger) {
	d.log = l.With().Str("port", d.port).Logger()
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// mode returns the fixed 8N1 line settings of the firmware.
func (d *Serial) mode() *serial.Mode {
	return &serial.Mode{
		BaudRate: d.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Connect opens the serial port and starts reading reports.
// A Serial is single use: once closed or lost, create a new one.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return ErrAlreadyConnected
	}
	if d.ctx.Err() != nil || d.done != nil {
		return ErrDeviceClosed
	}

	port, err := serial.Open(d.port, d.mode())
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true
	d.done = make(chan struct{})

	go d.readReports(port, d.done)

	d.log.Info().Int("baud", d.baudRate).Msg("Serial port opened")
	return nil
}

// Close closes the connection and stops reading reports.
// The reports channel is closed once the reader has exited.
func (d *Serial) Close() error {
	d.mu.Lock()
	if !d.connected {
		d.mu.Unlock()
		return nil
	}

	d.cancel()

	var closeErr error
	if d.conn != nil {
		// Unblocks the scanner in readReports
		closeErr = d.conn.Close()
		d.conn = nil
	}
	d.connected = false
	done := d.done
	d.mu.Unlock()

	<-done
	d.closeReports()

	if closeErr != nil {
		return fmt.Errorf("failed to close serial port: %w", closeErr)
	}
	return nil
}

// Reports returns the channel for reading reports.
func (d *Serial) Reports() <-chan Report {
	return d.reports
}

// Increase asks the firmware to lengthen the reporting interval by one step.
func (d *Serial) Increase() error {
	return d.send(ldr.CommandIncrease)
}

// Decrease asks the firmware to shorten the reporting interval by one step.
func (d *Serial) Decrease() error {
	return d.send(ldr.CommandDecrease)
}

func (d *Serial) send(cmd byte) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return ErrNotConnected
	}

	if _, err := d.conn.Write([]byte{cmd}); err != nil {
		return fmt.Errorf("failed to send command %q: %w", cmd, err)
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readReports reads lines from r until it fails or the device is closed.
// If the port fails on its own the device is marked lost and the reports
// channel is closed.
func (d *Serial) readReports(r io.Reader, done chan struct{}) {
	defer close(done)
	defer d.readerExited()
	defer func() {
		if rec := recover(); rec != nil {
			d.log.Error().Interface("panic", rec).Msg("Panic in readReports")
		}
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if d.ctx.Err() != nil {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		report, err := parseReport(line, time.Now())
		if err != nil {
			d.log.Warn().Err(err).Str("line", line).Msg("Dropping malformed line")
			continue
		}

		d.deliver(report)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && d.ctx.Err() == nil {
		d.log.Error().Err(err).Msg("Error reading from serial port")
	}
}

// readerExited handles a reader that stopped without Close being called.
func (d *Serial) readerExited() {
	if d.ctx.Err() != nil {
		return
	}

	d.mu.Lock()
	d.cancel()
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			d.log.Debug().Err(err).Msg("Failed to close lost serial port")
		}
		d.conn = nil
	}
	d.connected = false
	d.mu.Unlock()

	d.log.Warn().Msg("Serial port lost")
	d.closeReports()
}

func (d *Serial) closeReports() {
	d.closeOnce.Do(func() {
		close(d.reports)
	})
}

// deliver sends a report without blocking the reader.
func (d *Serial) deliver(report Report) {
	select {
	case d.reports <- report:
	case <-d.ctx.Done():
	default:
		d.log.Warn().Msg("Reports channel full, dropping report")
	}
}
