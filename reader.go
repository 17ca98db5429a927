package itemcodec

import (
	"math"
	"strconv"
)

// IndefiniteLength is the sentinel ReadArrayOpen/ReadMapOpen return instead
// of a header count when the container turned out to be indefinite-length:
// the caller must instead loop calling ReadNext until it sees ItemBreak.
const IndefiniteLength = math.MaxUint64

// Reader is a façade over a Parser: it drives ReadNextDataItem into an
// internal Receptacle and exposes typed accessors over a lower-level byte
// cursor. The first error any call encounters is latched (err); every
// subsequent call is a no-op that returns the same error, so callers do
// not have to check every intermediate call.
type Reader struct {
	parser     Parser
	config     *DecodingConfig
	receptacle Receptacle
	receiver   Receiver
	err        error
}

// NewReader builds a Reader around an already-constructed Parser (one of
// cbor.NewParser or json.NewParser). cfg may be nil, in which case
// NewDecodingConfig()'s defaults apply.
func NewReader(parser Parser, cfg *DecodingConfig) (*Reader, error) {
	if parser == nil {
		return nil, ErrNilInput
	}
	if cfg == nil {
		cfg = NewDecodingConfig()
	}
	r := &Reader{parser: parser, config: cfg}
	r.receiver = Receiver(&r.receptacle)
	if cfg.ReceiverWrapper != nil {
		r.receiver = cfg.ReceiverWrapper(r.receiver)
	}
	return r, nil
}

func (r *Reader) setError(err error) error {
	if r.err == nil {
		r.err = err
	}
	return r.err
}

// Err returns the latched first error, if any.
func (r *Reader) Err() error { return r.err }

// ReadNext drives one data item through the Parser into the Receptacle.
// After it returns nil, use Kind/Int/String/etc to inspect what arrived.
func (r *Reader) ReadNext() (DataItem, error) {
	if r.err != nil {
		return ItemEndOfInput, r.err
	}
	r.receptacle.Reset()
	item, err := r.parser.ReadNextDataItem(r.receiver)
	if err != nil {
		return item, r.setError(err)
	}
	return item, nil
}

func (r *Reader) Kind() DataItem { return r.receptacle.Kind() }

func (r *Reader) expect(want DataItem) error {
	if r.err != nil {
		return r.err
	}
	got, err := r.ReadNext()
	if err != nil {
		return err
	}
	if got != want {
		return r.setError(InvalidInputData(0, "expected %s, got %s", want, got))
	}
	return nil
}

func (r *Reader) ReadNull() error { return r.expect(ItemNull) }

func (r *Reader) ReadBool() (bool, error) {
	item, err := r.ReadNext()
	if err != nil {
		return false, err
	}
	return r.BoolFrom(item)
}

// BoolFrom interprets item (as just returned by ReadNext) as a Boolean.
// Used by callers that must inspect an item before deciding how to decode
// it, so they cannot let a typed Read* call consume a fresh one.
func (r *Reader) BoolFrom(item DataItem) (bool, error) {
	if item != ItemBoolean {
		return false, r.setError(InvalidInputData(0, "expected Boolean, got %s", item))
	}
	return r.receptacle.Bool(), nil
}

func (r *Reader) ReadInt() (int32, error) {
	item, err := r.ReadNext()
	if err != nil {
		return 0, err
	}
	return r.IntFrom(item)
}

// IntFrom is ReadInt's pre-read-item counterpart; see BoolFrom.
func (r *Reader) IntFrom(item DataItem) (int32, error) {
	if item == ItemNumberString {
		n, err := strconv.ParseInt(r.receptacle.String(), 10, 32)
		if err != nil {
			return 0, r.setError(InvalidInputData(0, "number %q is not an Int", r.receptacle.String()))
		}
		return int32(n), nil
	}
	if item != ItemInt {
		return 0, r.setError(InvalidInputData(0, "expected Int, got %s", item))
	}
	return r.receptacle.Int(), nil
}

func (r *Reader) ReadLong() (int64, error) {
	item, err := r.ReadNext()
	if err != nil {
		return 0, err
	}
	return r.LongFrom(item)
}

// LongFrom is ReadLong's pre-read-item counterpart; see BoolFrom.
func (r *Reader) LongFrom(item DataItem) (int64, error) {
	switch item {
	case ItemInt:
		return int64(r.receptacle.Int()), nil
	case ItemLong:
		return r.receptacle.Long(), nil
	case ItemNumberString:
		n, err := strconv.ParseInt(r.receptacle.String(), 10, 64)
		if err != nil {
			return 0, r.setError(InvalidInputData(0, "number %q is not a Long", r.receptacle.String()))
		}
		return n, nil
	default:
		return 0, r.setError(InvalidInputData(0, "expected Int or Long, got %s", item))
	}
}

func (r *Reader) ReadDouble() (float64, error) {
	item, err := r.ReadNext()
	if err != nil {
		return 0, err
	}
	return r.DoubleFrom(item)
}

// DoubleFrom is ReadDouble's pre-read-item counterpart; see BoolFrom.
func (r *Reader) DoubleFrom(item DataItem) (float64, error) {
	switch item {
	case ItemDouble:
		return r.receptacle.Double(), nil
	case ItemFloat:
		return float64(r.receptacle.Float()), nil
	case ItemFloat16:
		return float64(r.receptacle.Float16()), nil
	case ItemNumberString:
		f, err := strconv.ParseFloat(r.receptacle.String(), 64)
		if err != nil {
			return 0, r.setError(InvalidInputData(0, "number %q is not a Double", r.receptacle.String()))
		}
		return f, nil
	default:
		return 0, r.setError(InvalidInputData(0, "expected a floating point item, got %s", item))
	}
}

// ReadString reads a Text item, concatenating an indefinite-length
// TextStart ... Break stream into one logical string if that is what
// arrives.
func (r *Reader) ReadString() (string, error) {
	item, err := r.ReadNext()
	if err != nil {
		return "", err
	}
	return r.StringFrom(item)
}

// StringFrom is ReadString's pre-read-item counterpart; see BoolFrom.
func (r *Reader) StringFrom(item DataItem) (string, error) {
	switch item {
	case ItemText:
		return r.receptacle.String(), nil
	case ItemTextStart:
		return r.readIndefiniteText()
	default:
		return "", r.setError(InvalidInputData(0, "expected Text, got %s", item))
	}
}

func (r *Reader) readIndefiniteText() (string, error) {
	buf := getSegmentBuffer()
	defer putSegmentBuffer(buf)
	for {
		done, err := r.TryReadBreak()
		if err != nil {
			return "", err
		}
		if done {
			break
		}
		if r.receptacle.Kind() != ItemText {
			return "", r.setError(InvalidInputData(0, "expected a text segment, got %s", r.receptacle.Kind()))
		}
		buf.WriteString(r.receptacle.String())
	}
	return buf.String(), nil
}

// ReadBytes reads a Bytes item, concatenating an indefinite-length
// BytesStart ... Break stream into one logical byte slice if that is
// what arrives.
func (r *Reader) ReadBytes() ([]byte, error) {
	item, err := r.ReadNext()
	if err != nil {
		return nil, err
	}
	return r.BytesFrom(item)
}

// BytesFrom is ReadBytes's pre-read-item counterpart; see BoolFrom.
func (r *Reader) BytesFrom(item DataItem) ([]byte, error) {
	switch item {
	case ItemBytes:
		return r.receptacle.Bytes(), nil
	case ItemBytesStart:
		return r.readIndefiniteBytes()
	default:
		return nil, r.setError(InvalidInputData(0, "expected Bytes, got %s", item))
	}
}

func (r *Reader) readIndefiniteBytes() ([]byte, error) {
	buf := getSegmentBuffer()
	defer putSegmentBuffer(buf)
	for {
		done, err := r.TryReadBreak()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		if r.receptacle.Kind() != ItemBytes {
			return nil, r.setError(InvalidInputData(0, "expected a bytes segment, got %s", r.receptacle.Kind()))
		}
		buf.Write(r.receptacle.Bytes())
	}
	return append([]byte(nil), buf.Bytes()...), nil
}

// ReadArrayOpen reads an array header, returning (length, false, nil) for a
// definite-length array or (_, true, nil) for an indefinite one, in which
// case the caller reads elements until ReadNext reports ItemBreak.
func (r *Reader) ReadArrayOpen() (length uint64, indefinite bool, err error) {
	item, err := r.ReadNext()
	if err != nil {
		return 0, false, err
	}
	return r.ArrayOpenFrom(item)
}

// ArrayOpenFrom is ReadArrayOpen's pre-read-item counterpart; see BoolFrom.
func (r *Reader) ArrayOpenFrom(item DataItem) (length uint64, indefinite bool, err error) {
	switch item {
	case ItemArrayHeader:
		return r.receptacle.HeaderLength(), false, nil
	case ItemArrayStart:
		return IndefiniteLength, true, nil
	default:
		return 0, false, r.setError(InvalidInputData(0, "expected an array, got %s", item))
	}
}

// ReadMapOpen is ReadArrayOpen's map counterpart; length counts key/value
// pairs, not raw entries.
func (r *Reader) ReadMapOpen() (length uint64, indefinite bool, err error) {
	item, err := r.ReadNext()
	if err != nil {
		return 0, false, err
	}
	return r.MapOpenFrom(item)
}

// MapOpenFrom is ReadMapOpen's pre-read-item counterpart; see BoolFrom.
func (r *Reader) MapOpenFrom(item DataItem) (length uint64, indefinite bool, err error) {
	switch item {
	case ItemMapHeader:
		return r.receptacle.HeaderLength(), false, nil
	case ItemMapStart:
		return IndefiniteLength, true, nil
	default:
		return 0, false, r.setError(InvalidInputData(0, "expected a map, got %s", item))
	}
}

// TryReadBreak reads the next item; if it was ItemBreak it returns true
// having consumed it. Otherwise it returns false and the item remains
// captured in the Receptacle for the caller to interpret as an element.
func (r *Reader) TryReadBreak() (bool, error) {
	item, err := r.ReadNext()
	if err != nil {
		return false, err
	}
	return item == ItemBreak, nil
}

// ReadEndOfInput asserts the stream has nothing left to read, the assertion
// a PrefixOnly-disabled decode makes once the caller's top-level value has
// been fully consumed.
func (r *Reader) ReadEndOfInput() error { return r.expect(ItemEndOfInput) }

// Finish closes out a top-level decode: unless the Reader's config sets
// PrefixOnly, it asserts no bytes remain after the value just read.
// derive.Codec[T].Decode calls this once it has the whole value, so
// leftover trailing bytes are an error by default without every typed
// Read* call paying for the check.
func (r *Reader) Finish() error {
	if r.config.PrefixOnly {
		return nil
	}
	return r.ReadEndOfInput()
}

// Receptacle exposes the Reader's scratch record directly, for callers (like
// compare.go's fast path and the derive package) that need lower-level
// access than the typed Read* helpers provide.
func (r *Reader) Receptacle() *Receptacle { return &r.receptacle }
