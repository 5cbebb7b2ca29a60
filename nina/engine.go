package nina

import "fmt"

// Bus is the full-duplex byte transport capability required from the
// host platform: Transfer writes the given bytes and overwrites buf
// with the bytes simultaneously received. The engine always issues
// one-byte transfers.
type Bus interface {
	Transfer(buf []byte) error
}

// RetryLimit bounds the number of byte reads waitForByte performs
// while waiting for the START sentinel before failing with
// CommunicationTimeout.
const RetryLimit = 1000

// Engine drives one command/response round trip over a Bus, guarded by
// ControlLines. It owns the bus and control lines exclusively for the
// duration of a call; it holds no other mutable state and is not
// re-entrant.
type Engine struct {
	Bus     Bus
	Control *ControlLines

	// Logf receives non-fatal diagnostics (e.g. a mismatched trailing
	// END byte). It defaults to a no-op; cmd/ninaprobe wires it to
	// log.Printf.
	Logf func(format string, args ...any)
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
	}
}

// getByte issues a single-byte transfer with DUMMY as the outgoing
// byte and returns what the peer clocked in. This is the only way
// bytes enter the engine.
func (e *Engine) getByte() (byte, error) {
	buf := [1]byte{controlDummy}
	if err := e.Bus.Transfer(buf[:]); err != nil {
		return 0, fmt.Errorf("nina: bus transfer: %w", IOError{Err: err})
	}
	return buf[0], nil
}

func (e *Engine) putByte(b byte) error {
	buf := [1]byte{b}
	if err := e.Bus.Transfer(buf[:]); err != nil {
		return fmt.Errorf("nina: bus transfer: %w", IOError{Err: err})
	}
	return nil
}

// Execute frames and sends one request: START, command (reply bit
// cleared), parameter count, each parameter's length prefix and
// payload, END, then dummy-byte padding to a 4-byte boundary.
func (e *Engine) Execute(op Operation) error {
	if err := e.Control.Acquire(); err != nil {
		return err
	}
	defer e.Control.Deselect()

	params := op.Params()
	n := len(params)

	if err := e.putByte(controlStart); err != nil {
		return err
	}
	if err := e.putByte(byte(op.Command()) &^ controlReplyFlag); err != nil {
		return err
	}
	if err := e.putByte(byte(n)); err != nil {
		return err
	}

	if n == 0 {
		return e.putByte(controlEnd)
	}

	size := 4
	for _, p := range params {
		for _, b := range p.LengthAsBytes() {
			if err := e.putByte(b); err != nil {
				return err
			}
		}
		for _, b := range p.Data() {
			if err := e.putByte(b); err != nil {
				return err
			}
		}
		size += int(p.Width()) + p.Len()
	}
	if err := e.putByte(controlEnd); err != nil {
		return err
	}

	for size%4 != 0 {
		if _, err := e.getByte(); err != nil {
			return err
		}
		size++
	}
	return nil
}

// waitForByte reads bytes, up to RetryLimit, until one equals want. If
// the peer's ERROR sentinel appears first, two more bytes are consumed
// and NinaProtocolVersionMismatch is returned. ctx names the calling
// entry point, for error context.
func (e *Engine) waitForByte(ctx string, want byte) error {
	for i := 0; i < RetryLimit; i++ {
		b, err := e.getByte()
		if err != nil {
			return err
		}
		switch {
		case b == controlError:
			e.getByte()
			e.getByte()
			return fmt.Errorf("nina: %s: %w", ctx, protoErr(NinaProtocolVersionMismatch))
		case b == want:
			return nil
		}
	}
	return fmt.Errorf("nina: %s: %w", ctx, protoErr(CommunicationTimeout))
}

// checkResponseReady validates the reply header: START, then
// command|REPLY_FLAG, then the expected parameter count. ctx names the
// calling entry point, for error context.
func (e *Engine) checkResponseReady(ctx string, op Operation, expected byte) error {
	if err := e.waitForByte(ctx, controlStart); err != nil {
		return err
	}
	b, err := e.getByte()
	if err != nil {
		return err
	}
	if b != byte(op.Command())|controlReplyFlag {
		return fmt.Errorf("nina: %s: %w", ctx, protoErr(InvalidCommand))
	}
	b, err = e.getByte()
	if err != nil {
		return err
	}
	if b != expected {
		return fmt.Errorf("nina: %s: %w", ctx, protoErr(InvalidNumberOfParameters))
	}
	return nil
}

func (e *Engine) checkEnd() {
	b, err := e.getByte()
	if err != nil {
		e.logf("nina: read end: %v", err)
		return
	}
	if b != controlEnd {
		e.logf("nina: unexpected end byte %#x", b)
	}
}

// Receive reads a small-length (8-bit) framed reply: the originating
// operation and expected parameter count gate the header check, then a
// single length byte N (N must be <= MaxParams) followed by N payload
// bytes. Deselect always runs, on success and failure.
func (e *Engine) Receive(op Operation, expected byte) ([]byte, error) {
	defer e.Control.Deselect()
	if err := e.Control.Acquire(); err != nil {
		return nil, err
	}

	if err := e.checkResponseReady("receive", op, expected); err != nil {
		return nil, err
	}

	n, err := e.getByte()
	if err != nil {
		return nil, err
	}
	if int(n) > MaxParams {
		return nil, fmt.Errorf("nina: receive: %w", protoErr(TooManyParameters))
	}
	buf := make([]byte, MaxResponseLen)
	for i := 0; i < int(n); i++ {
		b, err := e.getByte()
		if err != nil {
			return nil, err
		}
		buf[i] = b
	}
	e.checkEnd()
	return buf[:n], nil
}

// ReceiveData16 reads a wide-length (16-bit) framed reply, used for
// bulk TCP data. It returns the declared length and a MaxResponseLen
// buffer holding that many valid bytes at the front; payload bytes
// beyond MaxResponseLen are read from the bus and dropped.
func (e *Engine) ReceiveData16(op Operation, expected byte) (int, []byte, error) {
	if err := e.Control.Acquire(); err != nil {
		return 0, nil, err
	}
	defer e.Control.Deselect()

	if err := e.checkResponseReady("receive data16", op, expected); err != nil {
		return 0, nil, err
	}

	hi, err := e.getByte()
	if err != nil {
		return 0, nil, err
	}
	lo, err := e.getByte()
	if err != nil {
		return 0, nil, err
	}
	n := int(hi)<<8 | int(lo)

	buf := make([]byte, MaxResponseLen)
	for i := 0; i < n; i++ {
		b, err := e.getByte()
		if err != nil {
			return 0, nil, err
		}
		if i < len(buf) {
			buf[i] = b
		}
	}
	e.checkEnd()
	return n, buf, nil
}

// combine2Bytes reassembles a little-endian 16-bit quantity: lo is the
// first byte read, hi the second. This asymmetry (vs. the big-endian
// length prefixes elsewhere) is dictated by the peer firmware.
func combine2Bytes(lo, hi byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// splitWord encodes a 16-bit quantity big-endian, as GetDataBufTcp's
// requested-length parameter expects.
func splitWord(w uint16) [2]byte {
	return [2]byte{byte(w >> 8), byte(w)}
}
