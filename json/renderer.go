package json

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/oy3o/itemcodec"
)

// Renderer writes Receiver callbacks out as JSON text. Like cbor.Renderer
// it implements itemcodec.Receiver directly so a Writer can drive either
// format interchangeably.
//
// JSON has no indefinite-length container on the wire (every array/object
// is delimited by its own closing bracket), so OnArrayHeader/OnMapHeader
// are rendered exactly like OnArrayStart/OnMapStart — the header count is
// simply discarded, since the closing ']'/'}' is what actually terminates
// the container here.
type Renderer struct {
	output itemcodec.Output
	frames []renderFrame
}

// renderFrame tracks one open container's separator state. Inside an
// object, calls alternate key/value; expectValue flips true right after a
// key is written so the following call emits ':' instead of ','.
type renderFrame struct {
	isObject    bool
	wrote       bool
	expectValue bool
}

var _ itemcodec.Renderer = (*Renderer)(nil)

// NewRenderer builds a Renderer writing to output.
func NewRenderer(output itemcodec.Output) *Renderer {
	return &Renderer{output: output}
}

func (rnd *Renderer) depth() int { return len(rnd.frames) }

// beforeValue writes whatever separator the current container context
// requires before the next scalar/container value: ',' before a
// non-first array element or object key, ':' between an object key and
// its value, nothing at the top level or for an object's first key.
func (rnd *Renderer) beforeValue() error {
	if rnd.depth() == 0 {
		return nil
	}
	f := &rnd.frames[rnd.depth()-1]
	if f.isObject && f.expectValue {
		f.expectValue = false
		return rnd.output.WriteByte(':')
	}
	if f.wrote {
		if err := rnd.output.WriteByte(','); err != nil {
			return err
		}
	}
	f.wrote = true
	if f.isObject {
		f.expectValue = true
	}
	return nil
}

func (rnd *Renderer) writeRaw(s string) error { return rnd.output.WriteBytes([]byte(s)) }

func (rnd *Renderer) OnNull() error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	return rnd.writeRaw("null")
}

// OnUndefined has no JSON representation; it is rendered as null, the same
// downgrade encoding/json applies to an untyped nil interface value.
func (rnd *Renderer) OnUndefined() error { return rnd.OnNull() }

func (rnd *Renderer) OnBreak() error {
	if rnd.depth() == 0 {
		return itemcodec.InvalidInputData(0, "json: OnBreak with no open container")
	}
	i := rnd.depth() - 1
	closing := byte(']')
	if rnd.frames[i].isObject {
		closing = '}'
	}
	rnd.frames = rnd.frames[:i]
	return rnd.output.WriteByte(closing)
}

func (rnd *Renderer) OnEndOfInput() error { return nil }

func (rnd *Renderer) OnBoolean(v bool) error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	if v {
		return rnd.writeRaw("true")
	}
	return rnd.writeRaw("false")
}

func (rnd *Renderer) OnInt(v int32) error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	return rnd.writeRaw(strconv.FormatInt(int64(v), 10))
}

func (rnd *Renderer) OnLong(v int64) error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	return rnd.writeRaw(strconv.FormatInt(v, 10))
}

func (rnd *Renderer) OnOverLong(negative bool, magnitude uint64) error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	if negative {
		return rnd.writeRaw(fmt.Sprintf("-%d", magnitude))
	}
	return rnd.writeRaw(strconv.FormatUint(magnitude, 10))
}

func (rnd *Renderer) OnFloat16(v float32) error { return rnd.OnDouble(float64(v)) }
func (rnd *Renderer) OnFloat(v float32) error   { return rnd.OnDouble(float64(v)) }

func (rnd *Renderer) OnDouble(v float64) error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	return rnd.writeRaw(strconv.FormatFloat(v, 'g', -1, 64))
}

// OnSimpleValue has no JSON representation beyond true/false/null; any
// other simple value number is rendered as a bare JSON number, the closest
// lossless equivalent.
func (rnd *Renderer) OnSimpleValue(v uint8) error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	return rnd.writeRaw(strconv.Itoa(int(v)))
}

func (rnd *Renderer) OnNumberString(v string) error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	return rnd.writeRaw(v)
}

// OnBytes has no native JSON representation; it is rendered as a quoted
// string of the raw bytes interpreted as UTF-8, replacing anything that
// isn't valid UTF-8 the same way OnText's escaper always has to handle
// invalid input. Callers that need a lossless bytes<->JSON bridge should
// base64-encode before calling WriteString instead.
func (rnd *Renderer) OnBytes(v []byte) error { return rnd.OnText(string(v)) }

func (rnd *Renderer) OnBytesStart() error {
	return itemcodec.Unsupported(0, "json: indefinite-length byte strings have no JSON representation")
}

func (rnd *Renderer) OnText(v string) error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	return rnd.writeEscapedString(v)
}

func (rnd *Renderer) OnTextWindow(w itemcodec.TextWindow) error {
	return rnd.OnText(w.String())
}

func (rnd *Renderer) OnTextStart() error {
	return itemcodec.Unsupported(0, "json: indefinite-length text strings have no JSON representation")
}

func (rnd *Renderer) openContainer(isObject bool) error {
	if err := rnd.beforeValue(); err != nil {
		return err
	}
	rnd.frames = append(rnd.frames, renderFrame{isObject: isObject})
	if isObject {
		return rnd.output.WriteByte('{')
	}
	return rnd.output.WriteByte('[')
}

func (rnd *Renderer) OnArrayHeader(n uint64) error { return rnd.openContainer(false) }
func (rnd *Renderer) OnArrayStart() error          { return rnd.openContainer(false) }
func (rnd *Renderer) OnMapHeader(n uint64) error   { return rnd.openContainer(true) }
func (rnd *Renderer) OnMapStart() error            { return rnd.openContainer(true) }

// OnTag has no JSON representation; the tag number is silently dropped and
// the tagged value that follows is rendered on its own, since JSON has no
// concept of annotating a value this way.
func (rnd *Renderer) OnTag(tag uint64) error { return nil }

func (rnd *Renderer) writeEscapedString(v string) error {
	if err := rnd.output.WriteByte('"'); err != nil {
		return err
	}
	start := 0
	for i := 0; i < len(v); {
		c := v[i]
		if c >= 0x20 && c != '"' && c != '\\' && c < utf8.RuneSelf {
			i++
			continue
		}
		if err := rnd.output.WriteBytes([]byte(v[start:i])); err != nil {
			return err
		}
		switch c {
		case '"':
			if err := rnd.writeRaw(`\"`); err != nil {
				return err
			}
			i++
		case '\\':
			if err := rnd.writeRaw(`\\`); err != nil {
				return err
			}
			i++
		case '\n':
			if err := rnd.writeRaw(`\n`); err != nil {
				return err
			}
			i++
		case '\r':
			if err := rnd.writeRaw(`\r`); err != nil {
				return err
			}
			i++
		case '\t':
			if err := rnd.writeRaw(`\t`); err != nil {
				return err
			}
			i++
		default:
			if c < 0x20 {
				if err := rnd.writeRaw(fmt.Sprintf(`\u%04x`, c)); err != nil {
					return err
				}
				i++
			} else if r, size := utf8.DecodeRuneInString(v[i:]); r == utf8.RuneError && size == 1 {
				if err := rnd.writeRaw(string(utf8.RuneError)); err != nil {
					return err
				}
				i++
			} else {
				if err := rnd.writeRaw(v[i : i+size]); err != nil {
					return err
				}
				i += size
			}
		}
		start = i
	}
	if err := rnd.output.WriteBytes([]byte(v[start:])); err != nil {
		return err
	}
	return rnd.output.WriteByte('"')
}
