// Package nina implements the host-side protocol engine for an
// ESP32-WROOM Wi-Fi coprocessor running the NINA firmware: framing,
// the chip-select/ready/ack/reset handshake, parameter encoding, and
// the streaming TCP receive path.
package nina

import (
	"fmt"
	"time"
)

// OutPin is a single driven digital output, e.g. chip-select or reset.
type OutPin interface {
	SetHigh() error
	SetLow() error
}

// InPin is a single sensed digital input, e.g. the shared ready/ack line.
type InPin interface {
	IsHigh() (bool, error)
}

// Delayer blocks the calling goroutine for at least the given duration.
// Only Reset and the TCP receive loop use it.
type Delayer interface {
	DelayMs(ms uint32)
}

// RealDelay implements Delayer with time.Sleep, for production use.
type RealDelay struct{}

func (RealDelay) DelayMs(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

// ControlLines wraps the four auxiliary signals that wrap the bus:
// chip-select (out, active low), boot-mode (out), reset (out), and the
// shared ready/ack line (in). It holds no other state.
type ControlLines struct {
	CS       OutPin
	Boot     OutPin
	Rst      OutPin
	ReadyAck InPin
	Delay    Delayer
}

// Init drives chip-select, boot-mode, and reset high, and samples the
// ready line once. The sample result is discarded; it matches the
// peer's expected idle wiggle.
func (c *ControlLines) Init() error {
	if err := c.CS.SetHigh(); err != nil {
		return fmt.Errorf("nina: control init: %w", IOError{Err: err})
	}
	if err := c.Boot.SetHigh(); err != nil {
		return fmt.Errorf("nina: control init: %w", IOError{Err: err})
	}
	if err := c.Rst.SetHigh(); err != nil {
		return fmt.Errorf("nina: control init: %w", IOError{Err: err})
	}
	if _, err := c.ReadyAck.IsHigh(); err != nil {
		return fmt.Errorf("nina: control init: %w", IOError{Err: err})
	}
	return nil
}

// Reset pulses the reset line: boot-mode high, chip-select high, reset
// low for 10ms, then reset high and a 750ms settle. Any shorter timing
// risks the peer failing to latch firmware mode.
func (c *ControlLines) Reset() error {
	if err := c.Boot.SetHigh(); err != nil {
		return fmt.Errorf("nina: reset: %w", IOError{Err: err})
	}
	if err := c.CS.SetHigh(); err != nil {
		return fmt.Errorf("nina: reset: %w", IOError{Err: err})
	}
	if err := c.Rst.SetLow(); err != nil {
		return fmt.Errorf("nina: reset: %w", IOError{Err: err})
	}
	c.Delay.DelayMs(10)
	if err := c.Rst.SetHigh(); err != nil {
		return fmt.Errorf("nina: reset: %w", IOError{Err: err})
	}
	c.Delay.DelayMs(750)
	return nil
}

// Select drives chip-select low.
func (c *ControlLines) Select() error {
	if err := c.CS.SetLow(); err != nil {
		return fmt.Errorf("nina: select: %w", IOError{Err: err})
	}
	return nil
}

// Deselect drives chip-select high.
func (c *ControlLines) Deselect() error {
	if err := c.CS.SetHigh(); err != nil {
		return fmt.Errorf("nina: deselect: %w", IOError{Err: err})
	}
	return nil
}

// IsReady reports whether the ready/ack line reads electrically low.
func (c *ControlLines) IsReady() (bool, error) {
	high, err := c.ReadyAck.IsHigh()
	if err != nil {
		return false, fmt.Errorf("nina: is ready: %w", IOError{Err: err})
	}
	return !high, nil
}

// IsAck reports whether the ready/ack line reads electrically high. The
// same physical pin carries both meanings at different phases; the
// naming reflects phase intent, not distinct pins.
func (c *ControlLines) IsAck() (bool, error) {
	high, err := c.ReadyAck.IsHigh()
	if err != nil {
		return false, fmt.Errorf("nina: is ack: %w", IOError{Err: err})
	}
	return high, nil
}

// WaitReady spins until IsReady holds. It has no timeout: the peer is
// expected to assert ready well within any caller's own deadline, and
// a wedged peer needs a Reset, not a retry, so there is no bounded
// wait to fall back to here.
func (c *ControlLines) WaitReady() error {
	for {
		ready, err := c.IsReady()
		if err != nil {
			return err
		}
		if ready {
			return nil
		}
	}
}

// WaitAck spins until IsAck holds. Unbounded, like WaitReady.
func (c *ControlLines) WaitAck() error {
	for {
		ack, err := c.IsAck()
		if err != nil {
			return err
		}
		if ack {
			return nil
		}
	}
}

// Acquire is the mandatory prelude to every bus transaction with the
// peer: wait for ready, select, wait for ack.
func (c *ControlLines) Acquire() error {
	if err := c.WaitReady(); err != nil {
		return err
	}
	if err := c.Select(); err != nil {
		return err
	}
	return c.WaitAck()
}
