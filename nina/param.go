package nina

import "fmt"

// Width is the number of bytes used to encode a parameter's length
// prefix on the wire: 1 for small parameters, 2 for bulk TCP payloads.
type Width int

const (
	Width8  Width = 1
	Width16 Width = 2
)

func (w Width) max() int {
	switch w {
	case Width8:
		return 1<<8 - 1
	case Width16:
		return 1<<16 - 1
	default:
		panic("nina: invalid parameter width")
	}
}

// Parameter is a tagged value carrying a payload byte sequence and the
// length-prefix width used to encode it on the wire. Construction is
// the only place a payload is copied; the wire contract is W bytes of
// big-endian length followed by the payload.
type Parameter struct {
	width   Width
	payload []byte
}

// NewByteParam builds a single-byte parameter (W=1).
func NewByteParam(b byte) Parameter {
	return Parameter{width: Width8, payload: []byte{b}}
}

// NewWordParam builds a two-byte parameter (W=1; the length prefix
// still fits in one byte since len==2).
func NewWordParam(b0, b1 byte) Parameter {
	return Parameter{width: Width8, payload: []byte{b0, b1}}
}

// NewSmallArrayParam builds a W=1 parameter from raw bytes, rejecting
// payloads over 255 bytes.
func NewSmallArrayParam(data []byte) (Parameter, error) {
	return newArrayParam(Width8, data)
}

// NewSmallArrayParamString is NewSmallArrayParam over a string's bytes.
func NewSmallArrayParamString(s string) (Parameter, error) {
	return newArrayParam(Width8, []byte(s))
}

// NewLargeArrayParam builds a W=2 parameter from raw bytes, rejecting
// payloads over 65535 bytes. Used for bulk TCP sends and reads.
func NewLargeArrayParam(data []byte) (Parameter, error) {
	return newArrayParam(Width16, data)
}

// NewLargeArrayParamString is NewLargeArrayParam over a string's bytes.
func NewLargeArrayParamString(s string) (Parameter, error) {
	return newArrayParam(Width16, []byte(s))
}

func newArrayParam(w Width, data []byte) (Parameter, error) {
	if len(data) > w.max() {
		return Parameter{}, fmt.Errorf("nina: new param: %w", protoErr(PayloadTooLarge))
	}
	payload := make([]byte, len(data))
	copy(payload, data)
	return Parameter{width: w, payload: payload}, nil
}

// Width reports the length-prefix width, in bytes (1 or 2).
func (p Parameter) Width() Width {
	return p.width
}

// Len reports the payload length L.
func (p Parameter) Len() int {
	return len(p.payload)
}

// Data returns the payload bytes in order.
func (p Parameter) Data() []byte {
	return p.payload
}

// LengthAsBytes returns the payload length encoded in Width() bytes,
// big-endian (most significant first).
func (p Parameter) LengthAsBytes() []byte {
	n := len(p.payload)
	switch p.width {
	case Width8:
		return []byte{byte(n)}
	case Width16:
		return []byte{byte(n >> 8), byte(n)}
	default:
		panic("nina: invalid parameter width")
	}
}
