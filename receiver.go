package itemcodec

// DataItem identifies which of the closed set of data-item kinds a single
// ReadNextDataItem call produced. Parser.ReadNextDataItem returns the
// DataItem code alongside driving the matching Receiver callback, so a
// Reader façade can route without re-dispatching on the callback that just
// fired.
type DataItem int

const (
	ItemNull DataItem = iota
	ItemUndefined
	ItemBreak
	ItemEndOfInput
	ItemBoolean
	ItemInt
	ItemLong
	ItemOverLong
	ItemFloat16
	ItemFloat
	ItemDouble
	ItemSimpleValue
	ItemNumberString
	ItemBytes
	ItemBytesStart
	ItemText
	ItemTextStart
	ItemArrayHeader
	ItemArrayStart
	ItemMapHeader
	ItemMapStart
	ItemTag
)

func (d DataItem) String() string {
	switch d {
	case ItemNull:
		return "Null"
	case ItemUndefined:
		return "Undefined"
	case ItemBreak:
		return "Break"
	case ItemEndOfInput:
		return "EndOfInput"
	case ItemBoolean:
		return "Boolean"
	case ItemInt:
		return "Int"
	case ItemLong:
		return "Long"
	case ItemOverLong:
		return "OverLong"
	case ItemFloat16:
		return "Float16"
	case ItemFloat:
		return "Float"
	case ItemDouble:
		return "Double"
	case ItemSimpleValue:
		return "SimpleValue"
	case ItemNumberString:
		return "NumberString"
	case ItemBytes:
		return "Bytes"
	case ItemBytesStart:
		return "BytesStart"
	case ItemText:
		return "Text"
	case ItemTextStart:
		return "TextStart"
	case ItemArrayHeader:
		return "ArrayHeader"
	case ItemArrayStart:
		return "ArrayStart"
	case ItemMapHeader:
		return "MapHeader"
	case ItemMapStart:
		return "MapStart"
	case ItemTag:
		return "Tag"
	default:
		return "Unknown"
	}
}

// TextWindow is the zero-copy shape of a Text data item: a reference into a
// caller-owned buffer rather than a freshly allocated string. It exists so
// a JSON parser reading out of an in-memory buffer can hand map keys to
// CompareTextWindowToString (compare.go) without allocating. Buf must outlive the
// callback only for the duration documented by the Parser that produced it
// (the generic CBOR/JSON parsers in this module guarantee it is stable
// until the next ReadNextDataItem call).
type TextWindow struct {
	Buf    []byte
	Start  int
	Length int
	// UTF8 is true when Buf[Start:Start+Length] is to be used as UTF-8 text
	// as-is. Both parsers in this module always set it true; neither checks
	// the bytes, so the flag does not certify that they are valid UTF-8.
	UTF8 bool
}

// Bytes returns the byte slice this window refers to.
func (w TextWindow) Bytes() []byte { return w.Buf[w.Start : w.Start+w.Length] }

// String materializes the window into an owned string.
func (w TextWindow) String() string { return string(w.Bytes()) }

// Receiver is the universal event sink a Parser drives, and the universal
// event source a Renderer consumes. It is a closed set: exactly one method
// fires per data item, callbacks are sequential and never reentrant.
//
// Payload slices passed to On* methods are only valid for the duration of
// the call; a Receiver that needs to retain one must copy it.
type Receiver interface {
	OnNull() error
	OnUndefined() error
	OnBreak() error
	OnEndOfInput() error
	OnBoolean(v bool) error
	OnInt(v int32) error
	OnLong(v int64) error
	// OnOverLong receives a value outside signed 64-bit range: negative
	// selects which half of [-2^64,-2^63-1] union [2^63,2^64-1] magnitude
	// addresses (sign flag + u64 magnitude).
	OnOverLong(negative bool, magnitude uint64) error
	OnFloat16(v float32) error
	OnFloat(v float32) error
	OnDouble(v float64) error
	OnSimpleValue(v uint8) error
	OnNumberString(v string) error
	// OnBytes receives an owned byte slice (definite-length byte string).
	OnBytes(v []byte) error
	// OnBytesStart opens an indefinite-length byte string; each segment
	// that follows is itself delivered through OnBytes, terminated by
	// OnBreak.
	OnBytesStart() error
	// OnText receives an owned UTF-8 string (definite-length text string).
	OnText(v string) error
	// OnTextWindow is the zero-copy alternative to OnText: a parser that
	// can guarantee a stable backing buffer (see TextWindow) uses this
	// instead. Exactly one of OnText/OnTextWindow fires per text item.
	OnTextWindow(v TextWindow) error
	// OnTextStart opens an indefinite-length text string; each following
	// segment is delivered through OnText or OnTextWindow, terminated by
	// OnBreak.
	OnTextStart() error
	OnArrayHeader(n uint64) error
	OnArrayStart() error
	OnMapHeader(n uint64) error
	OnMapStart() error
	// OnTag fires once for the tag number; the tagged item follows as an
	// independent, immediately-subsequent callback, never as a container
	// child on its own.
	OnTag(tag uint64) error
}

// TeeReceiver forwards every callback to both Primary and Tap, returning
// Primary's error. It lets a caller attach a logging/counting Receiver as
// Tap without touching the Parser or the real consumer.
type TeeReceiver struct {
	Primary Receiver
	Tap     Receiver
}

var _ Receiver = (*TeeReceiver)(nil)

func (t *TeeReceiver) OnNull() error {
	_ = t.Tap.OnNull()
	return t.Primary.OnNull()
}
func (t *TeeReceiver) OnUndefined() error {
	_ = t.Tap.OnUndefined()
	return t.Primary.OnUndefined()
}
func (t *TeeReceiver) OnBreak() error {
	_ = t.Tap.OnBreak()
	return t.Primary.OnBreak()
}
func (t *TeeReceiver) OnEndOfInput() error {
	_ = t.Tap.OnEndOfInput()
	return t.Primary.OnEndOfInput()
}
func (t *TeeReceiver) OnBoolean(v bool) error {
	_ = t.Tap.OnBoolean(v)
	return t.Primary.OnBoolean(v)
}
func (t *TeeReceiver) OnInt(v int32) error {
	_ = t.Tap.OnInt(v)
	return t.Primary.OnInt(v)
}
func (t *TeeReceiver) OnLong(v int64) error {
	_ = t.Tap.OnLong(v)
	return t.Primary.OnLong(v)
}
func (t *TeeReceiver) OnOverLong(negative bool, magnitude uint64) error {
	_ = t.Tap.OnOverLong(negative, magnitude)
	return t.Primary.OnOverLong(negative, magnitude)
}
func (t *TeeReceiver) OnFloat16(v float32) error {
	_ = t.Tap.OnFloat16(v)
	return t.Primary.OnFloat16(v)
}
func (t *TeeReceiver) OnFloat(v float32) error {
	_ = t.Tap.OnFloat(v)
	return t.Primary.OnFloat(v)
}
func (t *TeeReceiver) OnDouble(v float64) error {
	_ = t.Tap.OnDouble(v)
	return t.Primary.OnDouble(v)
}
func (t *TeeReceiver) OnSimpleValue(v uint8) error {
	_ = t.Tap.OnSimpleValue(v)
	return t.Primary.OnSimpleValue(v)
}
func (t *TeeReceiver) OnNumberString(v string) error {
	_ = t.Tap.OnNumberString(v)
	return t.Primary.OnNumberString(v)
}
func (t *TeeReceiver) OnBytes(v []byte) error {
	_ = t.Tap.OnBytes(v)
	return t.Primary.OnBytes(v)
}
func (t *TeeReceiver) OnBytesStart() error {
	_ = t.Tap.OnBytesStart()
	return t.Primary.OnBytesStart()
}
func (t *TeeReceiver) OnText(v string) error {
	_ = t.Tap.OnText(v)
	return t.Primary.OnText(v)
}
func (t *TeeReceiver) OnTextWindow(v TextWindow) error {
	_ = t.Tap.OnTextWindow(v)
	return t.Primary.OnTextWindow(v)
}
func (t *TeeReceiver) OnTextStart() error {
	_ = t.Tap.OnTextStart()
	return t.Primary.OnTextStart()
}
func (t *TeeReceiver) OnArrayHeader(n uint64) error {
	_ = t.Tap.OnArrayHeader(n)
	return t.Primary.OnArrayHeader(n)
}
func (t *TeeReceiver) OnArrayStart() error {
	_ = t.Tap.OnArrayStart()
	return t.Primary.OnArrayStart()
}
func (t *TeeReceiver) OnMapHeader(n uint64) error {
	_ = t.Tap.OnMapHeader(n)
	return t.Primary.OnMapHeader(n)
}
func (t *TeeReceiver) OnMapStart() error {
	_ = t.Tap.OnMapStart()
	return t.Primary.OnMapStart()
}
func (t *TeeReceiver) OnTag(tag uint64) error {
	_ = t.Tap.OnTag(tag)
	return t.Primary.OnTag(tag)
}

// Parser pulls bytes from an Input and drives exactly one Receiver
// callback per ReadNextDataItem call. cbor.Parser and json.Parser both
// implement this.
type Parser interface {
	// ReadNextDataItem drives one callback on r and returns the DataItem
	// code identifying which one fired. Once it returns a non-nil error
	// the parser is unusable: callers must discard it.
	ReadNextDataItem(r Receiver) (DataItem, error)
}

// Renderer is the inverse of Parser: a Receiver implementation that writes
// to an Output. cbor.Renderer and json.Renderer both implement Receiver
// directly.
type Renderer interface {
	Receiver
}
