package nina

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewByteParam(t *testing.T) {
	p := NewByteParam(0x42)
	if p.Width() != Width8 || p.Len() != 1 || p.Data()[0] != 0x42 {
		t.Fatalf("unexpected byte param: %+v", p)
	}
	if got := p.LengthAsBytes(); !bytes.Equal(got, []byte{1}) {
		t.Fatalf("LengthAsBytes = %v, want [1]", got)
	}
}

func TestNewWordParam(t *testing.T) {
	p := NewWordParam(0x01, 0x02)
	if p.Len() != 2 || !bytes.Equal(p.Data(), []byte{0x01, 0x02}) {
		t.Fatalf("unexpected word param: %+v", p)
	}
}

func TestSmallArrayParamBounds(t *testing.T) {
	ok := make([]byte, 255)
	if _, err := NewSmallArrayParam(ok); err != nil {
		t.Fatalf("255 bytes should fit a small array param: %v", err)
	}
	toolarge := make([]byte, 256)
	_, err := NewSmallArrayParam(toolarge)
	if err == nil {
		t.Fatal("expected PayloadTooLarge for a 256-byte small array param")
	}
	var perr ProtocolError
	if !errors.As(err, &perr) || perr.Kind != PayloadTooLarge {
		t.Fatalf("got %v, want ProtocolError{PayloadTooLarge}", err)
	}
}

func TestLargeArrayParamBounds(t *testing.T) {
	ok := make([]byte, 65535)
	if _, err := NewLargeArrayParam(ok); err != nil {
		t.Fatalf("65535 bytes should fit a large array param: %v", err)
	}
	toolarge := make([]byte, 65536)
	_, err := NewLargeArrayParam(toolarge)
	if err == nil {
		t.Fatal("expected PayloadTooLarge for a 65536-byte large array param")
	}
}

func TestSmallArrayParamLengthAsBytesWidth(t *testing.T) {
	p, err := NewSmallArrayParam([]byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if got := p.LengthAsBytes(); !bytes.Equal(got, []byte{3}) {
		t.Fatalf("small array LengthAsBytes = %v, want [3]", got)
	}
}

func TestLargeArrayParamLengthAsBytesWidth(t *testing.T) {
	p, err := NewLargeArrayParam(make([]byte, 300))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.LengthAsBytes(); !bytes.Equal(got, []byte{0x01, 0x2c}) {
		t.Fatalf("large array LengthAsBytes = %x, want [01 2c]", got)
	}
}

func TestParamDoesNotAliasCallerSlice(t *testing.T) {
	data := []byte{1, 2, 3}
	p, err := NewSmallArrayParam(data)
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 0xff
	if p.Data()[0] != 1 {
		t.Fatal("Parameter aliases the caller's backing array")
	}
}

func TestNewSmallArrayParamString(t *testing.T) {
	p, err := NewSmallArrayParamString("hello")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p.Data(), []byte("hello")) {
		t.Fatalf("Data() = %q, want %q", p.Data(), "hello")
	}
}
