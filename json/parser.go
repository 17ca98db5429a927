// Package json implements the RFC 8259 binding of the data-item model,
// built on the same itemcodec.Input/Output/Receiver contract cbor uses.
// Unlike CBOR, JSON containers never carry an up-front element count, so
// every object/array is surfaced as the indefinite-length shape
// (OnMapStart/OnArrayStart, terminated by OnBreak) regardless of how it was
// written on the wire; and JSON numbers are surfaced as OnNumberString
// rather than reinterpreted into a fixed-width type, so a derive-level
// decoder chooses its own precision instead of losing digits in the parser.
package json

import (
	"errors"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/oy3o/itemcodec"
)

var errCleanEndOfInput = errors.New("json: clean end of input")

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

type frameKind int

const (
	frameArray frameKind = iota
	frameObject
)

type frame struct {
	kind        frameKind
	first       bool
	expectValue bool // object only: a ':' was just consumed, a value comes next
}

// Parser reads one JSON value (and everything nested inside it) from an
// itemcodec.Input, one data item per ReadNextDataItem call, the same
// contract cbor.Parser honors applied to JSON's grammar instead of CBOR's.
type Parser struct {
	input  itemcodec.Input
	config *itemcodec.DecodingConfig
	stack  []frame
	done   bool
}

var _ itemcodec.Parser = (*Parser)(nil)

// NewParser builds a Parser over input. cfg may be nil.
func NewParser(input itemcodec.Input, cfg *itemcodec.DecodingConfig) *Parser {
	if cfg == nil {
		cfg = itemcodec.NewDecodingConfig()
	}
	return &Parser{input: input, config: cfg}
}

func (p *Parser) nextByte() (b byte, eof bool, err error) {
	b, err = p.input.ReadBytePadded(startOfItemPadding{})
	if err != nil {
		if errors.Is(err, errCleanEndOfInput) {
			return 0, true, nil
		}
		return 0, false, err
	}
	return b, false, nil
}

func (p *Parser) unread() { _ = p.input.MoveCursor(-1) }

func isJSONSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// skipSpace consumes whitespace and reports the first non-whitespace byte,
// or eof if the stream ended first.
func (p *Parser) skipSpace() (b byte, eof bool, err error) {
	for {
		b, eof, err = p.nextByte()
		if err != nil || eof {
			return b, eof, err
		}
		if !isJSONSpace(b) {
			p.unread()
			return b, false, nil
		}
	}
}

func (p *Parser) ReadNextDataItem(r itemcodec.Receiver) (itemcodec.DataItem, error) {
	if p.done {
		return itemcodec.ItemEndOfInput, r.OnEndOfInput()
	}
	if len(p.stack) == 0 {
		b, eof, err := p.skipSpace()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		if eof {
			p.done = true
			return itemcodec.ItemEndOfInput, r.OnEndOfInput()
		}
		return p.readValue(r, b)
	}
	top := &p.stack[len(p.stack)-1]
	if top.kind == frameArray {
		return p.readArrayNext(r, top)
	}
	return p.readObjectNext(r, top)
}

func (p *Parser) pos() itemcodec.Position { return p.input.Cursor() }

func (p *Parser) readArrayNext(r itemcodec.Receiver, top *frame) (itemcodec.DataItem, error) {
	b, eof, err := p.skipSpace()
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if eof {
		return itemcodec.ItemEndOfInput, itemcodec.UnexpectedEndOfInput(p.pos(), 1)
	}
	if b == ']' {
		p.advance()
		p.popFrame()
		return itemcodec.ItemBreak, r.OnBreak()
	}
	if !top.first {
		if b != ',' {
			return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.pos(), "expected ',' or ']' in array")
		}
		p.advance()
		b, eof, err = p.skipSpace()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		if eof {
			return itemcodec.ItemEndOfInput, itemcodec.UnexpectedEndOfInput(p.pos(), 1)
		}
	}
	top.first = false
	return p.readValue(r, b)
}

func (p *Parser) readObjectNext(r itemcodec.Receiver, top *frame) (itemcodec.DataItem, error) {
	if top.expectValue {
		top.expectValue = false
		b, eof, err := p.skipSpace()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		if eof {
			return itemcodec.ItemEndOfInput, itemcodec.UnexpectedEndOfInput(p.pos(), 1)
		}
		return p.readValue(r, b)
	}
	b, eof, err := p.skipSpace()
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if eof {
		return itemcodec.ItemEndOfInput, itemcodec.UnexpectedEndOfInput(p.pos(), 1)
	}
	if b == '}' {
		p.advance()
		p.popFrame()
		return itemcodec.ItemBreak, r.OnBreak()
	}
	if !top.first {
		if b != ',' {
			return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.pos(), "expected ',' or '}' in object")
		}
		p.advance()
		b, eof, err = p.skipSpace()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		if eof {
			return itemcodec.ItemEndOfInput, itemcodec.UnexpectedEndOfInput(p.pos(), 1)
		}
	}
	top.first = false
	if b != '"' {
		return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.pos(), "expected a string key in object")
	}
	p.advance()
	item, err := p.readString(r)
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	b, eof, err = p.skipSpace()
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if eof || b != ':' {
		return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.pos(), "expected ':' after object key")
	}
	p.advance()
	top.expectValue = true
	return item, nil
}

// advance consumes the byte skipSpace left peeked-but-unconsumed.
func (p *Parser) advance() { _, _, _ = p.nextByte() }

func (p *Parser) popFrame() { p.stack = p.stack[:len(p.stack)-1] }

func (p *Parser) readValue(r itemcodec.Receiver, first byte) (itemcodec.DataItem, error) {
	switch {
	case first == '"':
		p.advance()
		return p.readString(r)
	case first == '{':
		p.advance()
		p.stack = append(p.stack, frame{kind: frameObject, first: true})
		return itemcodec.ItemMapStart, r.OnMapStart()
	case first == '[':
		p.advance()
		p.stack = append(p.stack, frame{kind: frameArray, first: true})
		return itemcodec.ItemArrayStart, r.OnArrayStart()
	case first == 't':
		if err := p.expectLiteral("true"); err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		return itemcodec.ItemBoolean, r.OnBoolean(true)
	case first == 'f':
		if err := p.expectLiteral("false"); err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		return itemcodec.ItemBoolean, r.OnBoolean(false)
	case first == 'n':
		if err := p.expectLiteral("null"); err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		return itemcodec.ItemNull, r.OnNull()
	case first == '-' || (first >= '0' && first <= '9'):
		return p.readNumber(r)
	default:
		return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.pos(), "unexpected byte %q", first)
	}
}

func (p *Parser) expectLiteral(lit string) error {
	for i := 0; i < len(lit); i++ {
		b, eof, err := p.nextByte()
		if err != nil {
			return err
		}
		if eof || b != lit[i] {
			return itemcodec.InvalidInputData(p.pos(), "expected literal %q", lit)
		}
	}
	return nil
}

func (p *Parser) readNumber(r itemcodec.Receiver) (itemcodec.DataItem, error) {
	var sb strings.Builder
	mantissaDigits := 0

	readDigits := func() (int, error) {
		n := 0
		for {
			b, eof, err := p.nextByte()
			if err != nil {
				return n, err
			}
			if eof || b < '0' || b > '9' {
				if !eof {
					p.unread()
				}
				return n, nil
			}
			sb.WriteByte(b)
			n++
		}
	}

	b, eof, err := p.nextByte()
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if !eof && b == '-' {
		sb.WriteByte(b)
		b, eof, err = p.nextByte()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
	}
	if eof || b < '0' || b > '9' {
		return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.pos(), "invalid number literal")
	}
	sb.WriteByte(b)
	mantissaDigits++
	if b != '0' {
		n, err := readDigits()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		mantissaDigits += n
	}

	b, eof, err = p.nextByte()
	if err != nil {
		return itemcodec.ItemEndOfInput, err
	}
	if !eof && b == '.' {
		sb.WriteByte(b)
		n, err := readDigits()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		if n == 0 {
			return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.pos(), "expected digits after '.'")
		}
		mantissaDigits += n
		b, eof, err = p.nextByte()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
	}

	if !eof && (b == 'e' || b == 'E') {
		sb.WriteByte(b)
		exponentDigits := 0
		exponentValue := 0
		b, eof, err = p.nextByte()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		if !eof && (b == '+' || b == '-') {
			sb.WriteByte(b)
			b, eof, err = p.nextByte()
			if err != nil {
				return itemcodec.ItemEndOfInput, err
			}
		}
		for !eof && b >= '0' && b <= '9' {
			sb.WriteByte(b)
			exponentDigits++
			if exponentValue < p.config.MaxNumberAbsExponent*10 {
				exponentValue = exponentValue*10 + int(b-'0')
			}
			b, eof, err = p.nextByte()
			if err != nil {
				return itemcodec.ItemEndOfInput, err
			}
		}
		if exponentDigits == 0 {
			return itemcodec.ItemEndOfInput, itemcodec.InvalidInputData(p.pos(), "expected digits in exponent")
		}
		if exponentValue > p.config.MaxNumberAbsExponent {
			return itemcodec.ItemEndOfInput, itemcodec.Overflow(p.pos(), "number exponent exceeds the configured maximum magnitude")
		}
		if !eof {
			p.unread()
		}
	} else if !eof {
		p.unread()
	}

	if mantissaDigits > p.config.MaxNumberMantissaDigits {
		return itemcodec.ItemEndOfInput, itemcodec.Overflow(p.pos(), "number has %d mantissa digits, exceeding the configured maximum", mantissaDigits)
	}

	return itemcodec.ItemNumberString, r.OnNumberString(sb.String())
}

// sliceBacked is implemented by itemcodec.SliceInput; readString uses it to
// hand back a zero-copy TextWindow whenever the string contained no escape
// sequence, instead of building an owned string it would just discard.
type sliceBacked interface {
	Bytes() []byte
}

func (p *Parser) readString(r itemcodec.Receiver) (itemcodec.DataItem, error) {
	start := int(p.pos())
	var sb strings.Builder
	sb.Grow(p.config.InitialCharBufferSize)
	escaped := false
	for {
		b, eof, err := p.nextByte()
		if err != nil {
			return itemcodec.ItemEndOfInput, err
		}
		if eof {
			return itemcodec.ItemEndOfInput, itemcodec.UnexpectedEndOfInput(p.pos(), 1)
		}
		if b == '"' {
			break
		}
		if b == '\\' {
			escaped = true
			if err := p.readEscape(&sb); err != nil {
				return itemcodec.ItemEndOfInput, err
			}
			continue
		}
		sb.WriteByte(b)
	}
	end := int(p.pos()) - 1 // position of the closing quote

	if !escaped {
		if backing, ok := p.input.(sliceBacked); ok {
			length := end - start
			if uint64(length) > p.config.MaxTextStringLength {
				return itemcodec.ItemEndOfInput, itemcodec.Overflow(p.pos(), "text string exceeds configured maximum length")
			}
			w := itemcodec.TextWindow{Buf: backing.Bytes(), Start: start, Length: length, UTF8: true}
			return itemcodec.ItemText, r.OnTextWindow(w)
		}
		// Not backed by a stable buffer (e.g. a ComposedInput): sb already
		// holds every byte, so fall through to the owned-string path below.
	}

	if uint64(sb.Len()) > p.config.MaxTextStringLength {
		return itemcodec.ItemEndOfInput, itemcodec.Overflow(p.pos(), "text string exceeds configured maximum length")
	}
	return itemcodec.ItemText, r.OnText(sb.String())
}

func (p *Parser) readEscape(sb *strings.Builder) error {
	b, eof, err := p.nextByte()
	if err != nil {
		return err
	}
	if eof {
		return itemcodec.UnexpectedEndOfInput(p.pos(), 1)
	}
	switch b {
	case '"', '\\', '/':
		sb.WriteByte(b)
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'n':
		sb.WriteByte('\n')
	case 'r':
		sb.WriteByte('\r')
	case 't':
		sb.WriteByte('\t')
	case 'u':
		r1, err := p.readHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(rune(r1)) {
			b2, eof2, err := p.nextByte()
			if err != nil {
				return err
			}
			if !eof2 && b2 == '\\' {
				b3, eof3, err := p.nextByte()
				if err != nil {
					return err
				}
				if !eof3 && b3 == 'u' {
					r2, err := p.readHex4()
					if err != nil {
						return err
					}
					combined := utf16.DecodeRune(rune(r1), rune(r2))
					if combined != utf8.RuneError {
						sb.WriteRune(combined)
						return nil
					}
				}
			}
			sb.WriteRune(utf8.RuneError)
			return nil
		}
		sb.WriteRune(rune(r1))
	default:
		return itemcodec.InvalidInputData(p.pos(), "invalid escape \\%c", b)
	}
	return nil
}

func (p *Parser) readHex4() (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		b, eof, err := p.nextByte()
		if err != nil {
			return 0, err
		}
		if eof {
			return 0, itemcodec.UnexpectedEndOfInput(p.pos(), 1)
		}
		var d uint32
		switch {
		case b >= '0' && b <= '9':
			d = uint32(b - '0')
		case b >= 'a' && b <= 'f':
			d = uint32(b-'a') + 10
		case b >= 'A' && b <= 'F':
			d = uint32(b-'A') + 10
		default:
			return 0, itemcodec.InvalidInputData(p.pos(), "invalid hex digit %q in \\u escape", b)
		}
		v = v<<4 | d
	}
	return v, nil
}
