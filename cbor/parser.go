// Package cbor implements the RFC 7049 binding of the data-item model:
// Parser turns CBOR bytes into itemcodec.Receiver callbacks, Renderer is
// its inverse.
package cbor

import (
	"errors"
	"math"

	"github.com/oy3o/itemcodec"
)

const (
	majorUnsigned = 0
	majorNegative = 1
	majorBytes    = 2
	majorText     = 3
	majorArray    = 4
	majorMap      = 5
	majorTag      = 6
	majorSimple   = 7
)

const infoIndefinite = 31

// errCleanEndOfInput is the sentinel startOfItemPadding uses to tell
// ReadNextDataItem the stream ended between items rather than mid-item.
var errCleanEndOfInput = errors.New("cbor: clean end of input")

// startOfItemPadding is installed only for the single byte that opens the
// next data item: running out there is a legitimate end of stream, not a
// truncation. Every other shortfall this parser ever hits is a genuine
// itemcodec.ErrUnexpectedEndOfInput, so every other read uses
// itemcodec.StrictPadding directly.
type startOfItemPadding struct{}

func (startOfItemPadding) PadByte(pos itemcodec.Position) (byte, error) {
	return 0, errCleanEndOfInput
}
func (startOfItemPadding) PadDoubleByte(pos itemcodec.Position, prefix []byte) (uint16, error) {
	return itemcodec.StrictPadding{}.PadDoubleByte(pos, prefix)
}
func (startOfItemPadding) PadQuadByte(pos itemcodec.Position, prefix []byte) (uint32, error) {
	return itemcodec.StrictPadding{}.PadQuadByte(pos, prefix)
}
func (startOfItemPadding) PadOctaByte(pos itemcodec.Position, prefix []byte) (uint64, error) {
	return itemcodec.StrictPadding{}.PadOctaByte(pos, prefix)
}
func (startOfItemPadding) PadBytes(pos itemcodec.Position, prefix []byte, remaining uint64) ([]byte, error) {
	return itemcodec.StrictPadding{}.PadBytes(pos, prefix, remaining)
}

// Parser reads a single CBOR-encoded data item stream from an
// itemcodec.Input.
type Parser struct {
	input  itemcodec.Input
	config *itemcodec.DecodingConfig
}

var _ itemcodec.Parser = (*Parser)(nil)

// NewParser builds a Parser over input. cfg may be nil, in which case
// itemcodec.NewDecodingConfig()'s defaults apply.
func NewParser(input itemcodec.Input, cfg *itemcodec.DecodingConfig) *Parser {
	if cfg == nil {
		cfg = itemcodec.NewDecodingConfig()
	}
	return &Parser{input: input, config: cfg}
}

func (p *Parser) ReadNextDataItem(r itemcodec.Receiver) (itemcodec.DataItem, error) {
	ib, err := p.input.ReadBytePadded(startOfItemPadding{})
	if err != nil {
		if errors.Is(err, errCleanEndOfInput) {
			return itemcodec.ItemEndOfInput, r.OnEndOfInput()
		}
		return itemcodec.ItemEndOfInput, err
	}

	major := ib >> 5
	info := ib & 0x1F

	switch major {
	case majorUnsigned:
		return p.readUnsigned(r, info)
	case majorNegative:
		return p.readNegative(r, info)
	case majorBytes:
		return p.readByteString(r, info)
	case majorText:
		return p.readTextString(r, info)
	case majorArray:
		return p.readArray(r, info)
	case majorMap:
		return p.readMap(r, info)
	case majorTag:
		return p.readTag(r, info)
	case majorSimple:
		return p.readSimple(r, info)
	default:
		return itemcodec.ItemEndOfInput, itemcodec.Unsupported(p.input.Cursor(), "impossible major type %d", major)
	}
}

// readArgument decodes the uint64 argument that follows a major type/info
// byte per RFC 7049's additional-info table: 0-23 is the literal value,
// 24/25/26/27 select a 1/2/4/8-byte big-endian follow-on, 31 means
// indefinite-length (only valid for the major types that support it),
// 28-30 are reserved.
func (p *Parser) readArgument(info byte) (value uint64, indefinite bool, err error) {
	switch {
	case info < 24:
		return uint64(info), false, nil
	case info == 24:
		b, err := p.input.ReadBytePadded(itemcodec.StrictPadding{})
		return uint64(b), false, err
	case info == 25:
		v, err := p.input.ReadDoubleByteBEPadded(itemcodec.StrictPadding{})
		return uint64(v), false, err
	case info == 26:
		v, err := p.input.ReadQuadByteBEPadded(itemcodec.StrictPadding{})
		return uint64(v), false, err
	case info == 27:
		v, err := p.input.ReadOctaByteBEPadded(itemcodec.StrictPadding{})
		return v, false, err
	case info == infoIndefinite:
		return 0, true, nil
	default:
		return 0, false, itemcodec.InvalidInputData(p.input.Cursor(), "reserved additional info %d", info)
	}
}

func (p *Parser) readUnsigned(r itemcodec.Receiver, info byte) (itemcodec.DataItem, error) {
	value, indefinite, err := p.readArgument(info)
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if indefinite {
		return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.input.Cursor(), "indefinite length on an unsigned integer")
	}
	switch {
	case value <= math.MaxInt32:
		return itemcodec.ItemInt, r.OnInt(int32(value))
	case value <= math.MaxInt64:
		return itemcodec.ItemLong, r.OnLong(int64(value))
	default:
		return itemcodec.ItemOverLong, r.OnOverLong(false, value)
	}
}

func (p *Parser) readNegative(r itemcodec.Receiver, info byte) (itemcodec.DataItem, error) {
	n, indefinite, err := p.readArgument(info)
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if indefinite {
		return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.input.Cursor(), "indefinite length on a negative integer")
	}
	// Actual value is -(n+1). OverLong's magnitude is the raw argument n
	// itself, not the actual magnitude n+1, so -(2^63)-1 round-trips as
	// OverLong(negative=true, 1<<63) and n+1 never overflows, even when
	// n == math.MaxUint64.
	switch {
	case n < 1<<31:
		return itemcodec.ItemInt, r.OnInt(int32(-int64(n) - 1))
	case n < 1<<63:
		return itemcodec.ItemLong, r.OnLong(-int64(n) - 1)
	default:
		return itemcodec.ItemOverLong, r.OnOverLong(true, n)
	}
}

func (p *Parser) readByteString(r itemcodec.Receiver, info byte) (itemcodec.DataItem, error) {
	length, indefinite, err := p.readArgument(info)
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if indefinite {
		return itemcodec.ItemBytesStart, r.OnBytesStart()
	}
	if length > p.config.MaxByteStringLength {
		return itemcodec.ItemEndOfInput, itemcodec.Overflow(p.input.Cursor(), "byte string length %d exceeds configured maximum", length)
	}
	b, err := p.input.ReadBytes(length, itemcodec.StrictPadding{})
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	return itemcodec.ItemBytes, r.OnBytes(b)
}

func (p *Parser) readTextString(r itemcodec.Receiver, info byte) (itemcodec.DataItem, error) {
	length, indefinite, err := p.readArgument(info)
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if indefinite {
		return itemcodec.ItemTextStart, r.OnTextStart()
	}
	if length > p.config.MaxTextStringLength {
		return itemcodec.ItemEndOfInput, itemcodec.Overflow(p.input.Cursor(), "text string length %d exceeds configured maximum", length)
	}
	b, err := p.input.ReadBytes(length, itemcodec.StrictPadding{})
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	// Both Input implementations in this module hand back a freshly
	// copied slice, so b is safe to surface as a TextWindow; the window
	// only defers the string conversion until a caller asks for one.
	w := itemcodec.TextWindow{Buf: b, Start: 0, Length: len(b), UTF8: true}
	return itemcodec.ItemText, r.OnTextWindow(w)
}

func (p *Parser) readArray(r itemcodec.Receiver, info byte) (itemcodec.DataItem, error) {
	n, indefinite, err := p.readArgument(info)
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if indefinite {
		return itemcodec.ItemArrayStart, r.OnArrayStart()
	}
	if n > math.MaxInt64 {
		return itemcodec.ItemEndOfInput, itemcodec.Overflow(p.input.Cursor(), "array length %d is not below 2^63", n)
	}
	return itemcodec.ItemArrayHeader, r.OnArrayHeader(n)
}

func (p *Parser) readMap(r itemcodec.Receiver, info byte) (itemcodec.DataItem, error) {
	n, indefinite, err := p.readArgument(info)
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if indefinite {
		return itemcodec.ItemMapStart, r.OnMapStart()
	}
	if n > math.MaxInt64 {
		return itemcodec.ItemEndOfInput, itemcodec.Overflow(p.input.Cursor(), "map length %d is not below 2^63", n)
	}
	return itemcodec.ItemMapHeader, r.OnMapHeader(n)
}

func (p *Parser) readTag(r itemcodec.Receiver, info byte) (itemcodec.DataItem, error) {
	tag, indefinite, err := p.readArgument(info)
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if indefinite {
		return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.input.Cursor(), "indefinite length on a tag")
	}
	return itemcodec.ItemTag, r.OnTag(tag)
}

func (p *Parser) readSimple(r itemcodec.Receiver, info byte) (itemcodec.DataItem, error) {
	switch {
	case info < 20:
		return itemcodec.ItemSimpleValue, r.OnSimpleValue(info)
	case info == 20:
		return itemcodec.ItemBoolean, r.OnBoolean(false)
	case info == 21:
		return itemcodec.ItemBoolean, r.OnBoolean(true)
	case info == 22:
		return itemcodec.ItemNull, r.OnNull()
	case info == 23:
		return itemcodec.ItemUndefined, r.OnUndefined()
	case info == 24:
		b, err := p.input.ReadBytePadded(itemcodec.StrictPadding{})
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		if b < 32 {
			return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.input.Cursor(), "simple value %d must use the short form", b)
		}
		return itemcodec.ItemSimpleValue, r.OnSimpleValue(b)
	case info == 25:
		v, err := p.input.ReadDoubleByteBEPadded(itemcodec.StrictPadding{})
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		return itemcodec.ItemFloat16, r.OnFloat16(halffloatToFloat32(v))
	case info == 26:
		v, err := p.input.ReadQuadByteBEPadded(itemcodec.StrictPadding{})
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		return itemcodec.ItemFloat, r.OnFloat(float32FromBits(v))
	case info == 27:
		v, err := p.input.ReadOctaByteBEPadded(itemcodec.StrictPadding{})
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		return itemcodec.ItemDouble, r.OnDouble(float64FromBits(v))
	case info == infoIndefinite:
		return itemcodec.ItemBreak, r.OnBreak()
	default:
		return itemcodec.ItemEndOfInput, itemcodec.Unsupported(p.input.Cursor(), "reserved additional info %d on major type 7", info)
	}
}
