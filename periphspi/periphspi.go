// Package periphspi adapts periph.io SPI and GPIO host drivers to the
// capability interfaces the nina package requires: nina.Bus,
// nina.OutPin, nina.InPin, and nina.Delayer.
package periphspi

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Bus adapts a spi.Conn to nina.Bus: one byte out, one byte in, per
// Transfer call.
type Bus struct {
	conn spi.Conn
	rx   [1]byte
}

func (b *Bus) Transfer(buf []byte) error {
	if err := b.conn.Tx(buf, b.rx[:]); err != nil {
		return err
	}
	buf[0] = b.rx[0]
	return nil
}

type outPin struct{ pin gpio.PinIO }

func (p outPin) SetHigh() error { return p.pin.Out(gpio.High) }
func (p outPin) SetLow() error  { return p.pin.Out(gpio.Low) }

type inPin struct{ pin gpio.PinIO }

func (p inPin) IsHigh() (bool, error) {
	return p.pin.Read() == gpio.High, nil
}

// ControlPins wraps the chip-select, reset, and boot-mode outputs and
// the shared ready/ack input as the nina package's pin capabilities.
type ControlPins struct {
	CS   outPin
	Rst  outPin
	Boot outPin
	Ack  inPin
}

// Delay implements nina.Delayer with time.Sleep.
type Delay struct{}

func (Delay) DelayMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// Handle bundles the open SPI port and GPIO pins backing a live
// connection; Close releases the SPI port.
type Handle struct {
	port  spi.PortCloser
	Bus   *Bus
	Pins  ControlPins
	Delay Delay
}

func (h *Handle) Close() error {
	return h.port.Close()
}

// Open initializes the periph.io host, connects to spiPort at 4MHz SPI
// mode 0 (the NINA firmware's documented SPI ceiling), and resolves
// csName, rstName, gpio0Name (the boot-strap pin), and ackName as GPIO
// lines. spiPort may be empty to select the first available SPI port,
// matching spireg.Open's own convention.
func Open(spiPort, csName, rstName, gpio0Name, ackName string) (*Handle, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periphspi: host init: %w", err)
	}
	p, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("periphspi: open %q: %w", spiPort, err)
	}
	conn, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("periphspi: connect: %w", err)
	}

	resolve := func(name string) (gpio.PinIO, error) {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("periphspi: no such gpio pin %q", name)
		}
		return pin, nil
	}
	cs, err := resolve(csName)
	if err != nil {
		p.Close()
		return nil, err
	}
	rst, err := resolve(rstName)
	if err != nil {
		p.Close()
		return nil, err
	}
	boot, err := resolve(gpio0Name)
	if err != nil {
		p.Close()
		return nil, err
	}
	ack, err := resolve(ackName)
	if err != nil {
		p.Close()
		return nil, err
	}
	if err := ack.In(gpio.PullUp, gpio.NoEdge); err != nil {
		p.Close()
		return nil, fmt.Errorf("periphspi: configure %q as input: %w", ackName, err)
	}

	return &Handle{
		port: p,
		Bus:  &Bus{conn: conn},
		Pins: ControlPins{
			CS:   outPin{pin: cs},
			Rst:  outPin{pin: rst},
			Boot: outPin{pin: boot},
			Ack:  inPin{pin: ack},
		},
	}, nil
}
