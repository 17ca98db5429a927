package itemcodec

// Receptacle is a single-slot scratch record that mirrors whatever data item
// a Parser most recently delivered. Reader reuses one Receptacle across an
// entire decode run instead of allocating a fresh value object per item —
// an arena-style scratch record.
type Receptacle struct {
	kind DataItem

	boolValue  bool
	intValue   int32
	longValue  int64
	overLong   bool // sign of the OverLong magnitude, when kind == ItemOverLong
	magnitude  uint64
	float16    float32
	floatValue float32
	double     float64
	simple     uint8
	headerLen  uint64
	tag        uint64

	// text/bytes/number-string payloads. window is set instead of str when
	// the parser delivered a zero-copy TextWindow; str lazily materializes
	// it on first String() call so a caller that only needs the window
	// (TextWindow) never pays for the allocation.
	bytesValue []byte
	str        string
	window     TextWindow
	hasWindow  bool
}

var _ Receiver = (*Receptacle)(nil)

// Reset clears the Receptacle back to its zero state. Reader calls this
// before every ReadNextDataItem so stale payload slices are never mistaken
// for a fresh read.
func (r *Receptacle) Reset() {
	*r = Receptacle{}
}

// Kind reports which data item the Receptacle last captured.
func (r *Receptacle) Kind() DataItem { return r.kind }

func (r *Receptacle) Bool() bool { return r.boolValue }
func (r *Receptacle) Int() int32 { return r.intValue }
func (r *Receptacle) Long() int64 { return r.longValue }

// OverLong reports the sign and magnitude captured from OnOverLong.
func (r *Receptacle) OverLong() (negative bool, magnitude uint64) { return r.overLong, r.magnitude }

func (r *Receptacle) Float16() float32   { return r.float16 }
func (r *Receptacle) Float() float32     { return r.floatValue }
func (r *Receptacle) Double() float64    { return r.double }
func (r *Receptacle) SimpleValue() uint8 { return r.simple }
func (r *Receptacle) HeaderLength() uint64 { return r.headerLen }
func (r *Receptacle) Tag() uint64        { return r.tag }
func (r *Receptacle) Bytes() []byte      { return r.bytesValue }

// String materializes the captured text, whichever shape the parser used to
// deliver it.
func (r *Receptacle) String() string {
	if r.hasWindow {
		r.str = r.window.String()
		r.hasWindow = false
	}
	return r.str
}

// TextWindow returns the zero-copy window captured by OnTextWindow, if that
// is how the last text item arrived; ok is false otherwise.
func (r *Receptacle) TextWindow() (w TextWindow, ok bool) { return r.window, r.hasWindow }

func (r *Receptacle) OnNull() error      { r.kind = ItemNull; return nil }
func (r *Receptacle) OnUndefined() error { r.kind = ItemUndefined; return nil }
func (r *Receptacle) OnBreak() error     { r.kind = ItemBreak; return nil }
func (r *Receptacle) OnEndOfInput() error { r.kind = ItemEndOfInput; return nil }

func (r *Receptacle) OnBoolean(v bool) error {
	r.kind = ItemBoolean
	r.boolValue = v
	return nil
}

func (r *Receptacle) OnInt(v int32) error {
	r.kind = ItemInt
	r.intValue = v
	return nil
}

func (r *Receptacle) OnLong(v int64) error {
	r.kind = ItemLong
	r.longValue = v
	return nil
}

func (r *Receptacle) OnOverLong(negative bool, magnitude uint64) error {
	r.kind = ItemOverLong
	r.overLong = negative
	r.magnitude = magnitude
	return nil
}

func (r *Receptacle) OnFloat16(v float32) error {
	r.kind = ItemFloat16
	r.float16 = v
	return nil
}

func (r *Receptacle) OnFloat(v float32) error {
	r.kind = ItemFloat
	r.floatValue = v
	return nil
}

func (r *Receptacle) OnDouble(v float64) error {
	r.kind = ItemDouble
	r.double = v
	return nil
}

func (r *Receptacle) OnSimpleValue(v uint8) error {
	r.kind = ItemSimpleValue
	r.simple = v
	return nil
}

func (r *Receptacle) OnNumberString(v string) error {
	r.kind = ItemNumberString
	r.str = v
	r.hasWindow = false
	return nil
}

func (r *Receptacle) OnBytes(v []byte) error {
	r.kind = ItemBytes
	r.bytesValue = v
	return nil
}

func (r *Receptacle) OnBytesStart() error { r.kind = ItemBytesStart; return nil }

func (r *Receptacle) OnText(v string) error {
	r.kind = ItemText
	r.str = v
	r.hasWindow = false
	return nil
}

func (r *Receptacle) OnTextWindow(v TextWindow) error {
	r.kind = ItemText
	r.window = v
	r.hasWindow = true
	return nil
}

func (r *Receptacle) OnTextStart() error { r.kind = ItemTextStart; return nil }

func (r *Receptacle) OnArrayHeader(n uint64) error {
	r.kind = ItemArrayHeader
	r.headerLen = n
	return nil
}

func (r *Receptacle) OnArrayStart() error { r.kind = ItemArrayStart; return nil }

func (r *Receptacle) OnMapHeader(n uint64) error {
	r.kind = ItemMapHeader
	r.headerLen = n
	return nil
}

func (r *Receptacle) OnMapStart() error { r.kind = ItemMapStart; return nil }

func (r *Receptacle) OnTag(tag uint64) error {
	r.kind = ItemTag
	r.tag = tag
	return nil
}
