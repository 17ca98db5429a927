package cbor

import (
	"encoding/binary"
	"math"

	"github.com/oy3o/itemcodec"
	"github.com/oy3o/itemcodec/internal/halffloat"
)

// Renderer writes Receiver callbacks out as CBOR bytes, the inverse of
// Parser: it implements itemcodec.Receiver directly so a Writer can drive
// it exactly as it drives any other Renderer.
type Renderer struct {
	output itemcodec.Output
}

var _ itemcodec.Renderer = (*Renderer)(nil)

// NewRenderer builds a Renderer writing to output.
func NewRenderer(output itemcodec.Output) *Renderer {
	return &Renderer{output: output}
}

func (rnd *Renderer) writeHead(major byte, n uint64) error {
	switch {
	case n < 24:
		return rnd.output.WriteByte(major<<5 | byte(n))
	case n <= 0xFF:
		if err := rnd.output.WriteByte(major<<5 | 24); err != nil {
			return err
		}
		return rnd.output.WriteByte(byte(n))
	case n <= 0xFFFF:
		if err := rnd.output.WriteByte(major<<5 | 25); err != nil {
			return err
		}
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(n))
		return rnd.output.WriteBytes(b[:])
	case n <= 0xFFFFFFFF:
		if err := rnd.output.WriteByte(major<<5 | 26); err != nil {
			return err
		}
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(n))
		return rnd.output.WriteBytes(b[:])
	default:
		if err := rnd.output.WriteByte(major<<5 | 27); err != nil {
			return err
		}
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], n)
		return rnd.output.WriteBytes(b[:])
	}
}

func (rnd *Renderer) writeIndefiniteHead(major byte) error {
	return rnd.output.WriteByte(major<<5 | infoIndefinite)
}

func (rnd *Renderer) writeInteger(v int64) error {
	if v >= 0 {
		return rnd.writeHead(majorUnsigned, uint64(v))
	}
	// v+1 cannot overflow int64 even at v == math.MinInt64.
	return rnd.writeHead(majorNegative, uint64(-(v + 1)))
}

func (rnd *Renderer) OnNull() error      { return rnd.output.WriteByte(0xF6) }
func (rnd *Renderer) OnUndefined() error { return rnd.output.WriteByte(0xF7) }
func (rnd *Renderer) OnBreak() error     { return rnd.output.WriteByte(0xFF) }

// OnEndOfInput has no wire representation; a Renderer only ever sees it if
// a caller tees a decode run's Receiver onto an encode run, which is not a
// supported combination. It is a harmless no-op rather than an error so a
// misbehaving caller observes a decode mismatch downstream instead of a
// spurious panic here.
func (rnd *Renderer) OnEndOfInput() error { return nil }

func (rnd *Renderer) OnBoolean(v bool) error {
	if v {
		return rnd.output.WriteByte(0xF5)
	}
	return rnd.output.WriteByte(0xF4)
}

func (rnd *Renderer) OnInt(v int32) error { return rnd.writeInteger(int64(v)) }
func (rnd *Renderer) OnLong(v int64) error { return rnd.writeInteger(v) }

func (rnd *Renderer) OnOverLong(negative bool, magnitude uint64) error {
	if !negative {
		return rnd.writeHead(majorUnsigned, magnitude)
	}
	return rnd.writeHead(majorNegative, magnitude)
}

func (rnd *Renderer) OnFloat16(v float32) error {
	h, _ := halffloat.FromFloat32(v)
	if err := rnd.output.WriteByte(0xF9); err != nil {
		return err
	}
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], h)
	return rnd.output.WriteBytes(b[:])
}

func (rnd *Renderer) OnFloat(v float32) error {
	if err := rnd.output.WriteByte(0xFA); err != nil {
		return err
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	return rnd.output.WriteBytes(b[:])
}

func (rnd *Renderer) OnDouble(v float64) error {
	if err := rnd.output.WriteByte(0xFB); err != nil {
		return err
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	return rnd.output.WriteBytes(b[:])
}

func (rnd *Renderer) OnSimpleValue(v uint8) error {
	if v < 24 {
		return rnd.output.WriteByte(0xE0 | v)
	}
	if v < 32 {
		return itemcodec.InvalidInputData(0, "simple value %d must use the short form", v)
	}
	if err := rnd.output.WriteByte(0xF8); err != nil {
		return err
	}
	return rnd.output.WriteByte(v)
}

// OnNumberString downgrades to a plain text string: CBOR has no primitive
// for an arbitrary-precision decimal literal, so the bridging value this
// package uses to carry a JSON number without losing precision is rendered
// as the text string that was parsed, not reinterpreted as a CBOR number.
func (rnd *Renderer) OnNumberString(v string) error { return rnd.OnText(v) }

func (rnd *Renderer) OnBytes(v []byte) error {
	if err := rnd.writeHead(majorBytes, uint64(len(v))); err != nil {
		return err
	}
	return rnd.output.WriteBytes(v)
}

func (rnd *Renderer) OnBytesStart() error { return rnd.writeIndefiniteHead(majorBytes) }

func (rnd *Renderer) OnText(v string) error {
	b := []byte(v)
	if err := rnd.writeHead(majorText, uint64(len(b))); err != nil {
		return err
	}
	return rnd.output.WriteBytes(b)
}

func (rnd *Renderer) OnTextWindow(w itemcodec.TextWindow) error {
	b := w.Bytes()
	if err := rnd.writeHead(majorText, uint64(len(b))); err != nil {
		return err
	}
	return rnd.output.WriteBytes(b)
}

func (rnd *Renderer) OnTextStart() error { return rnd.writeIndefiniteHead(majorText) }

func (rnd *Renderer) OnArrayHeader(n uint64) error { return rnd.writeHead(majorArray, n) }
func (rnd *Renderer) OnArrayStart() error          { return rnd.writeIndefiniteHead(majorArray) }
func (rnd *Renderer) OnMapHeader(n uint64) error   { return rnd.writeHead(majorMap, n) }
func (rnd *Renderer) OnMapStart() error            { return rnd.writeIndefiniteHead(majorMap) }
func (rnd *Renderer) OnTag(tag uint64) error        { return rnd.writeHead(majorTag, tag) }
