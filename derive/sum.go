package derive

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/oy3o/itemcodec"
)

// Subtype names one member of a sealed hierarchy registered through
// RegisterSum: its wire key (string or int) paired with its concrete Go
// type.
type Subtype struct {
	key any
	typ reflect.Type
}

// Of declares T as a subtype carrying key on the wire. key must be a
// string, int, int32 or int64; anything else is rejected by RegisterSum.
func Of[T any](key any) Subtype {
	return Subtype{key: key, typ: reflect.TypeOf((*T)(nil)).Elem()}
}

type subtypeEntry struct {
	key any
	typ reflect.Type
}

type sumInfo struct {
	iface  reflect.Type
	byType map[reflect.Type]*subtypeEntry
	byKey  map[any]*subtypeEntry
	// stringKeys/stringEntries are byKey's string-keyed subset, broken out
	// so decode can test an incoming key against them with MatchText's
	// allocation-free comparison instead of materializing it and hashing
	// into byKey. An int-keyed subtype has no such fast path: it always
	// decodes to an Int/Long item, and byKey is cheap to consult directly.
	stringKeys    []string
	stringEntries []*subtypeEntry
}

var (
	sumTypesMu sync.RWMutex
	sumTypes   = map[reflect.Type]*sumInfo{}
)

func normalizeKey(key any) (any, error) {
	switch k := key.(type) {
	case string:
		return k, nil
	case int:
		return int64(k), nil
	case int32:
		return int64(k), nil
	case int64:
		return k, nil
	default:
		return nil, fmt.Errorf("derive: subtype key %v has unsupported type %T, want string or int", key, key)
	}
}

// RegisterSum declares Iface a sealed hierarchy whose wire shape is a
// two-element array [type_id, payload]. It must be called before the
// first For[T]()/codecFor request that reaches Iface, typically from an
// init() func, since subsequent changes to the registration are not
// observed by an in-flight or already-cached derivation.
func RegisterSum[Iface any](subtypes ...Subtype) error {
	iface := reflect.TypeOf((*Iface)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		return fmt.Errorf("derive: RegisterSum[%s]: type parameter must be an interface", iface)
	}
	info := &sumInfo{
		iface:  iface,
		byType: make(map[reflect.Type]*subtypeEntry, len(subtypes)),
		byKey:  make(map[any]*subtypeEntry, len(subtypes)),
	}
	for _, st := range subtypes {
		if !st.typ.Implements(iface) {
			return fmt.Errorf("derive: RegisterSum[%s]: %s does not implement %s", iface, st.typ, iface)
		}
		key, err := normalizeKey(st.key)
		if err != nil {
			return err
		}
		if _, dup := info.byKey[key]; dup {
			return fmt.Errorf("derive: RegisterSum[%s]: duplicate subtype key %v", iface, key)
		}
		entry := &subtypeEntry{key: key, typ: st.typ}
		info.byKey[key] = entry
		info.byType[st.typ] = entry
		if s, ok := key.(string); ok {
			info.stringKeys = append(info.stringKeys, s)
			info.stringEntries = append(info.stringEntries, entry)
		}
	}
	sumTypesMu.Lock()
	sumTypes[iface] = info
	sumTypesMu.Unlock()
	return nil
}

func lookupSum(typ reflect.Type) (*sumInfo, bool) {
	sumTypesMu.RLock()
	defer sumTypesMu.RUnlock()
	info, ok := sumTypes[typ]
	return info, ok
}

type sumCodec struct {
	info *sumInfo
}

func buildSumCodec(info *sumInfo) (fieldCodec, error) {
	return &sumCodec{info: info}, nil
}

func writeTypeKey(w *itemcodec.Writer, key any) error {
	switch k := key.(type) {
	case string:
		return w.WriteString(k)
	case int64:
		return w.WriteLong(k)
	default:
		return itemcodec.Unsupported(0, "derive: unrepresentable subtype key %v", key)
	}
}

func (c *sumCodec) encode(w *itemcodec.Writer, v reflect.Value) error {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return itemcodec.InvalidInputData(0, "derive: nil value for sum type %s", c.info.iface)
	}
	entry, ok := c.info.byType[v.Type()]
	if !ok {
		return itemcodec.Unsupported(0, "derive: %s is not a registered subtype of %s", v.Type(), c.info.iface)
	}
	fc, err := codecFor(entry.typ)
	if err != nil {
		return err
	}
	if err := w.WriteArrayStart(); err != nil {
		return err
	}
	if err := writeTypeKey(w, entry.key); err != nil {
		return err
	}
	if err := fc.encode(w, v); err != nil {
		return err
	}
	return w.WriteBreak()
}

func (c *sumCodec) decode(r *itemcodec.Reader, v reflect.Value) error {
	item, err := r.ReadNext()
	if err != nil {
		return err
	}
	return c.decodeItem(item, r, v)
}

func (c *sumCodec) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	if _, _, err := r.ArrayOpenFrom(item); err != nil {
		return err
	}
	keyItem, err := r.ReadNext()
	if err != nil {
		return err
	}
	var entry *subtypeEntry
	switch keyItem {
	case itemcodec.ItemText, itemcodec.ItemTextStart:
		idx, key, err := r.MatchText(keyItem, c.info.stringKeys)
		if err != nil {
			return err
		}
		if idx < 0 {
			return itemcodec.Unsupported(0, "derive: unknown subtype key %q for %s", key, c.info.iface)
		}
		entry = c.info.stringEntries[idx]
	case itemcodec.ItemInt:
		key := int64(r.Receptacle().Int())
		e, ok := c.info.byKey[key]
		if !ok {
			return itemcodec.Unsupported(0, "derive: unknown subtype key %v for %s", key, c.info.iface)
		}
		entry = e
	case itemcodec.ItemLong:
		key := r.Receptacle().Long()
		e, ok := c.info.byKey[key]
		if !ok {
			return itemcodec.Unsupported(0, "derive: unknown subtype key %v for %s", key, c.info.iface)
		}
		entry = e
	default:
		return itemcodec.InvalidInputData(0, "derive: expected a subtype key, got %s", keyItem)
	}
	fc, err := codecFor(entry.typ)
	if err != nil {
		return err
	}
	fresh := reflect.New(entry.typ).Elem()
	if err := fc.decode(r, fresh); err != nil {
		return err
	}
	done, err := r.TryReadBreak()
	if err != nil {
		return err
	}
	if !done {
		return itemcodec.InvalidInputData(0, "derive: trailing data after subtype payload for %s", c.info.iface)
	}
	v.Set(fresh)
	return nil
}
