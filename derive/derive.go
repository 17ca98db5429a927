// Package derive synthesises Encoder[T]/Decoder[T] pairs for user product
// and sum types by reflection, the way a code-generation macro would in a
// language that has one. Struct fields map to array elements (default)
// or, with the `item:",map"` marker field, to map entries keyed by name;
// `item:"name"` overrides a single field's key. Sealed hierarchies are
// expressed as a Go interface type with its implementations registered
// through RegisterSum, mapping to a two-element `[type_id, payload]` array.
package derive

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/oy3o/itemcodec"
)

// Codec is the derived (Encoder[T], Decoder[T]) pair for a user type T.
type Codec[T any] struct {
	fc fieldCodec
}

// For derives, or returns the already-derived, Codec for T. Safe to call
// concurrently and repeatedly; the underlying build happens once per type.
func For[T any]() (*Codec[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	fc, err := codecFor(typ)
	if err != nil {
		return nil, err
	}
	return &Codec[T]{fc: fc}, nil
}

// Encode writes v through w using the derived representation.
func (c *Codec[T]) Encode(w *itemcodec.Writer, v T) error {
	return c.fc.encode(w, reflect.ValueOf(&v).Elem())
}

// Decode reads one T out of r, then asserts the input is fully consumed
// unless r's config sets PrefixOnly.
func (c *Codec[T]) Decode(r *itemcodec.Reader) (T, error) {
	var v T
	rv := reflect.ValueOf(&v).Elem()
	if err := c.fc.decode(r, rv); err != nil {
		return v, err
	}
	if err := r.Finish(); err != nil {
		return v, err
	}
	return v, nil
}

// build dispatches on typ's reflect.Kind to construct its fieldCodec. It
// is called at most once per type; recursive references resolve through
// the thunk codecFor registered before build runs.
func build(typ reflect.Type) (fieldCodec, error) {
	if typ == reflect.TypeOf([]byte(nil)) {
		return bytesCodec{}, nil
	}
	if info, ok := lookupSum(typ); ok {
		return buildSumCodec(info)
	}
	switch typ.Kind() {
	case reflect.Bool:
		return boolCodec{}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return int32Codec{}, nil
	case reflect.Int64:
		return int64Codec{}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintCodec{}, nil
	case reflect.Float32, reflect.Float64:
		return floatCodec{}, nil
	case reflect.String:
		return stringCodec{}, nil
	case reflect.Ptr:
		return buildPointerCodec(typ)
	case reflect.Slice:
		return buildSliceCodec(typ)
	case reflect.Map:
		return buildMapCodec(typ)
	case reflect.Struct:
		return buildStructCodec(typ)
	default:
		return nil, itemcodec.Unsupported(0, "derive: no derivation for kind %s (type %s)", typ.Kind(), typ)
	}
}

// --- primitive codecs ---

type boolCodec struct{}

func (boolCodec) encode(w *itemcodec.Writer, v reflect.Value) error { return w.WriteBool(v.Bool()) }
func (boolCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	b, err := r.ReadBool()
	if err != nil {
		return err
	}
	v.SetBool(b)
	return nil
}
func (boolCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	b, err := r.BoolFrom(item)
	if err != nil {
		return err
	}
	v.SetBool(b)
	return nil
}

type int32Codec struct{}

func (int32Codec) encode(w *itemcodec.Writer, v reflect.Value) error {
	return w.WriteInt(int32(v.Int()))
}
func (int32Codec) decode(r *itemcodec.Reader, v reflect.Value) error {
	n, err := r.ReadInt()
	if err != nil {
		return err
	}
	v.SetInt(int64(n))
	return nil
}
func (int32Codec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	n, err := r.IntFrom(item)
	if err != nil {
		return err
	}
	v.SetInt(int64(n))
	return nil
}

type int64Codec struct{}

func (int64Codec) encode(w *itemcodec.Writer, v reflect.Value) error { return w.WriteLong(v.Int()) }
func (int64Codec) decode(r *itemcodec.Reader, v reflect.Value) error {
	n, err := r.ReadLong()
	if err != nil {
		return err
	}
	v.SetInt(n)
	return nil
}
func (int64Codec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	n, err := r.LongFrom(item)
	if err != nil {
		return err
	}
	v.SetInt(n)
	return nil
}

type uintCodec struct{}

func (uintCodec) encode(w *itemcodec.Writer, v reflect.Value) error {
	return w.WriteLong(int64(v.Uint()))
}
func (uintCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	n, err := r.ReadLong()
	if err != nil {
		return err
	}
	return uintCodec{}.setUint(v, n)
}
func (uintCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	n, err := r.LongFrom(item)
	if err != nil {
		return err
	}
	return uintCodec{}.setUint(v, n)
}
func (uintCodec) setUint(v reflect.Value, n int64) error {
	if n < 0 {
		return itemcodec.InvalidInputData(0, "derive: negative value %d for unsigned field", n)
	}
	v.SetUint(uint64(n))
	return nil
}

type floatCodec struct{}

func (floatCodec) encode(w *itemcodec.Writer, v reflect.Value) error { return w.WriteDouble(v.Float()) }
func (floatCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	f, err := r.ReadDouble()
	if err != nil {
		return err
	}
	v.SetFloat(f)
	return nil
}
func (floatCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	f, err := r.DoubleFrom(item)
	if err != nil {
		return err
	}
	v.SetFloat(f)
	return nil
}

type stringCodec struct{}

func (stringCodec) encode(w *itemcodec.Writer, v reflect.Value) error { return w.WriteString(v.String()) }
func (stringCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	s, err := r.ReadString()
	if err != nil {
		return err
	}
	v.SetString(s)
	return nil
}
func (stringCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	s, err := r.StringFrom(item)
	if err != nil {
		return err
	}
	v.SetString(s)
	return nil
}

type bytesCodec struct{}

func (bytesCodec) encode(w *itemcodec.Writer, v reflect.Value) error { return w.WriteBytes(v.Bytes()) }
func (bytesCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	b, err := r.ReadBytes()
	if err != nil {
		return err
	}
	v.SetBytes(append([]byte(nil), b...))
	return nil
}
func (bytesCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	b, err := r.BytesFrom(item)
	if err != nil {
		return err
	}
	v.SetBytes(append([]byte(nil), b...))
	return nil
}

// --- pointer codec: Null <-> nil, otherwise delegate to the pointee ---

type pointerCodec struct {
	elem    fieldCodec
	elemTyp reflect.Type
}

func buildPointerCodec(typ reflect.Type) (fieldCodec, error) {
	elemTyp := typ.Elem()
	elem, err := codecFor(elemTyp)
	if err != nil {
		return nil, err
	}
	return &pointerCodec{elem: elem, elemTyp: elemTyp}, nil
}

// A nil pointer is Null on the wire; a non-nil one delegates to the
// pointee's own codec with no wrapper item of its own.
func (c *pointerCodec) encode(w *itemcodec.Writer, v reflect.Value) error {
	if v.IsNil() {
		return w.WriteNull()
	}
	return c.elem.encode(w, v.Elem())
}

// Reader exposes no peek/unread above its byte-level Input, so decode
// cannot look ahead for Null and fall back to the pointee's codec without
// consuming the item either way. It reads the item itself, and for Null
// stops there; otherwise it hands the already-read item down to the
// pointee's codec via decodeItem rather than letting it call ReadNext
// again and read a second, unrelated item.
func (c *pointerCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	item, err := r.ReadNext()
	if err != nil {
		return err
	}
	if item == itemcodec.ItemNull {
		v.SetZero()
		return nil
	}
	fresh := reflect.New(c.elemTyp)
	if err := c.elem.decodeItem(item, r, fresh.Elem()); err != nil {
		return err
	}
	v.Set(fresh)
	return nil
}

func (c *pointerCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	if item == itemcodec.ItemNull {
		v.SetZero()
		return nil
	}
	fresh := reflect.New(c.elemTyp)
	if err := c.elem.decodeItem(item, r, fresh.Elem()); err != nil {
		return err
	}
	v.Set(fresh)
	return nil
}

// --- slice codec: ArrayStart, each element, Break ---

type sliceCodec struct {
	elem fieldCodec
}

func buildSliceCodec(typ reflect.Type) (fieldCodec, error) {
	elem, err := codecFor(typ.Elem())
	if err != nil {
		return nil, err
	}
	return &sliceCodec{elem: elem}, nil
}

func (c *sliceCodec) encode(w *itemcodec.Writer, v reflect.Value) error {
	if err := w.WriteArrayStart(); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if err := c.elem.encode(w, v.Index(i)); err != nil {
			return err
		}
	}
	return w.WriteBreak()
}

func (c *sliceCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	item, err := r.ReadNext()
	if err != nil {
		return err
	}
	return c.decodeItem(item, r, v)
}

func (c *sliceCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	if _, _, err := r.ArrayOpenFrom(item); err != nil {
		return err
	}
	out := reflect.MakeSlice(v.Type(), 0, 0)
	for {
		done, err := r.TryReadBreak()
		if err != nil {
			return err
		}
		if done {
			break
		}
		elem := reflect.New(v.Type().Elem()).Elem()
		if err := c.elem.decodeItem(r.Kind(), r, elem); err != nil {
			return err
		}
		out = reflect.Append(out, elem)
	}
	v.Set(out)
	return nil
}

// --- map codec: string-keyed only, MapStart, (key,value)*, Break ---

type mapCodec struct {
	elem fieldCodec
}

func buildMapCodec(typ reflect.Type) (fieldCodec, error) {
	if typ.Key().Kind() != reflect.String {
		return nil, itemcodec.Unsupported(0, "derive: map key type %s is not supported, only string keys are", typ.Key())
	}
	elem, err := codecFor(typ.Elem())
	if err != nil {
		return nil, err
	}
	return &mapCodec{elem: elem}, nil
}

func (c *mapCodec) encode(w *itemcodec.Writer, v reflect.Value) error {
	if err := w.WriteMapStart(); err != nil {
		return err
	}
	iter := v.MapRange()
	for iter.Next() {
		if err := w.WriteString(iter.Key().String()); err != nil {
			return err
		}
		if err := c.elem.encode(w, iter.Value()); err != nil {
			return err
		}
	}
	return w.WriteBreak()
}

func (c *mapCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	item, err := r.ReadNext()
	if err != nil {
		return err
	}
	return c.decodeItem(item, r, v)
}

func (c *mapCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	if _, _, err := r.MapOpenFrom(item); err != nil {
		return err
	}
	out := reflect.MakeMap(v.Type())
	for {
		done, err := r.TryReadBreak()
		if err != nil {
			return err
		}
		if done {
			break
		}
		key, err := r.StringFrom(r.Kind())
		if err != nil {
			return err
		}
		val := reflect.New(v.Type().Elem()).Elem()
		if err := c.elem.decode(r, val); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(key).Convert(v.Type().Key()), val)
	}
	v.Set(out)
	return nil
}

// --- struct (product type) codec ---

type structField struct {
	name  string
	index []int
	fc    fieldCodec
}

type structCodec struct {
	fields     []structField
	fieldNames []string
	useMap     bool
}

// mapMarkerName is the field name that, when present with an `item:",map"`
// tag, switches a struct's representation from array to map; it carries
// no data of its own.
const mapMarkerName = "_"

func buildStructCodec(typ reflect.Type) (fieldCodec, error) {
	sc := &structCodec{}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("item")
		if f.Name == mapMarkerName && f.Type.Size() == 0 {
			if tag == ",map" {
				sc.useMap = true
			}
			continue
		}
		if !f.IsExported() {
			continue
		}
		name := parseItemTag(tag)
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		fc, err := codecFor(f.Type)
		if err != nil {
			return nil, fmt.Errorf("derive: field %s.%s: %w", typ, f.Name, err)
		}
		sc.fields = append(sc.fields, structField{name: name, index: f.Index, fc: fc})
	}
	sc.fieldNames = make([]string, len(sc.fields))
	for i, f := range sc.fields {
		sc.fieldNames[i] = f.name
	}
	return sc, nil
}

func parseItemTag(tag string) (name string) {
	if tag == "" {
		return ""
	}
	name, _, _ = strings.Cut(tag, ",")
	return name
}

func (c *structCodec) encode(w *itemcodec.Writer, v reflect.Value) error {
	if c.useMap {
		if err := w.WriteMapStart(); err != nil {
			return err
		}
	} else if err := w.WriteArrayStart(); err != nil {
		return err
	}
	for _, f := range c.fields {
		if c.useMap {
			if err := w.WriteString(f.name); err != nil {
				return err
			}
		}
		if err := f.fc.encode(w, v.FieldByIndex(f.index)); err != nil {
			return err
		}
	}
	return w.WriteBreak()
}

func (c *structCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	item, err := r.ReadNext()
	if err != nil {
		return err
	}
	return c.decodeItem(item, r, v)
}

func (c *structCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	if c.useMap {
		if _, _, err := r.MapOpenFrom(item); err != nil {
			return err
		}
		for {
			done, err := r.TryReadBreak()
			if err != nil {
				return err
			}
			if done {
				break
			}
			idx, key, err := r.MatchText(r.Kind(), c.fieldNames)
			if err != nil {
				return err
			}
			if idx < 0 {
				return itemcodec.Unsupported(0, "derive: unknown field %q for type %s", key, v.Type())
			}
			f := &c.fields[idx]
			if err := f.fc.decode(r, v.FieldByIndex(f.index)); err != nil {
				return err
			}
		}
		return nil
	}

	if _, _, err := r.ArrayOpenFrom(item); err != nil {
		return err
	}
	i := 0
	for {
		done, err := r.TryReadBreak()
		if err != nil {
			return err
		}
		if done {
			break
		}
		if i >= len(c.fields) {
			return itemcodec.InvalidInputData(0, "derive: extra array element decoding %s", v.Type())
		}
		if err := c.fields[i].fc.decodeItem(r.Kind(), r, v.FieldByIndex(c.fields[i].index)); err != nil {
			return err
		}
		i++
	}
	return nil
}
