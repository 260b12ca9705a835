package engine

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Trigger marks frame onsets on external recording equipment.
type Trigger interface {
	Pulse(line byte) error
	Close() error
}

const (
	dlpPing     = 0x27
	dlpPong     = 'Q'
	dlpBinary   = 0x5C
	dlpBaudRate = 9600
)

// Lines '1'..'8' are raised with their digit and lowered with the key
// below it on a QWERTY keyboard.
var dlpUnset = map[byte]byte{
	'1': 'Q', '2': 'W', '3': 'E', '4': 'R',
	'5': 'T', '6': 'Y', '7': 'U', '8': 'I',
}

// DLPIO8G drives a DLP-IO8-G USB trigger box over its serial port.
type DLPIO8G struct {
	port  serial.Port
	width time.Duration
}

func NewDLPIO8G(device string, pulseWidth time.Duration) (*DLPIO8G, error) {
	mode := &serial.Mode{
		BaudRate: dlpBaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}

	d := &DLPIO8G{port: port, width: pulseWidth}
	if !d.Ping() {
		port.Close()
		return nil, fmt.Errorf("%s did not respond to ping", device)
	}
	if _, err := port.Write([]byte{dlpBinary}); err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

func (d *DLPIO8G) Close() error {
	if d.port == nil {
		return nil
	}
	return d.port.Close()
}

func (d *DLPIO8G) Ping() bool {
	if _, err := d.port.Write([]byte{dlpPing}); err != nil {
		return false
	}
	buf := make([]byte, 1)
	n, err := d.port.Read(buf)
	return err == nil && n == 1 && buf[0] == dlpPong
}

func (d *DLPIO8G) Set(line byte) error {
	if _, ok := dlpUnset[line]; !ok {
		return fmt.Errorf("dlp: no trigger line %q", line)
	}
	_, err := d.port.Write([]byte{line})
	return err
}

func (d *DLPIO8G) Unset(line byte) error {
	off, ok := dlpUnset[line]
	if !ok {
		return fmt.Errorf("dlp: no trigger line %q", line)
	}
	_, err := d.port.Write([]byte{off})
	return err
}

// Pulse raises line for the configured width and lowers it again.
func (d *DLPIO8G) Pulse(line byte) error {
	if err := d.Set(line); err != nil {
		return err
	}
	time.Sleep(d.width)
	return d.Unset(line)
}
