package derive

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
	"golang.org/x/sync/singleflight"

	"github.com/oy3o/itemcodec"
)

// fieldCodec is the internal unit derivation composes everything out of:
// a struct field, a slice element, a map value, a sum-type payload, or a
// whole derived type are all, eventually, one of these.
//
// decode reads its own item from r. decodeItem instead takes an item a
// caller has already read from r (by calling r.ReadNext() itself) and
// picks up from there — needed wherever a caller must inspect an item
// before it can decide how to decode it, such as the pointer codec
// checking for Null before delegating to its pointee.
type fieldCodec interface {
	encode(w *itemcodec.Writer, v reflect.Value) error
	decode(r *itemcodec.Reader, v reflect.Value) error
	decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error
}

// thunk is a lazily-resolved fieldCodec, registered into codecRegistry
// before its own build() call recurses into field types, so a
// self-referential or mutually-recursive type finds the thunk instead of
// recursing into build() again.
type thunk struct {
	typ  reflect.Type
	once sync.WaitGroup
	held atomic.Pointer[fieldCodec]
}

func newThunk(typ reflect.Type) *thunk {
	t := &thunk{typ: typ}
	t.once.Add(1)
	return t
}

func (t *thunk) resolve(c fieldCodec) {
	t.held.Store(&c)
	t.once.Done()
}

func (t *thunk) encode(w *itemcodec.Writer, v reflect.Value) error {
	t.once.Wait()
	c := t.held.Load()
	if c == nil || *c == nil {
		return itemcodec.Unsupported(0, "derive: codec for %s failed to build", t.typ)
	}
	return (*c).encode(w, v)
}

func (t *thunk) decode(r *itemcodec.Reader, v reflect.Value) error {
	t.once.Wait()
	c := t.held.Load()
	if c == nil || *c == nil {
		return itemcodec.Unsupported(0, "derive: codec for %s failed to build", t.typ)
	}
	return (*c).decode(r, v)
}

func (t *thunk) decodeItem(item itemcodec.DataItem, r *itemcodec.Reader, v reflect.Value) error {
	t.once.Wait()
	c := t.held.Load()
	if c == nil || *c == nil {
		return itemcodec.Unsupported(0, "derive: codec for %s failed to build", t.typ)
	}
	return (*c).decodeItem(item, r, v)
}

// codecRegistry holds one thunk per type that has started (or finished)
// derivation.
var codecRegistry = xsync.NewMap[reflect.Type, *thunk]()

// building coordinates concurrent first-time derivations of the same
// type: the first caller builds it, later concurrent callers block on the
// same result instead of racing to build it twice.
var building singleflight.Group

// codecFor returns the fieldCodec for typ, building it if this is the
// first time typ has been requested.
func codecFor(typ reflect.Type) (fieldCodec, error) {
	if th, ok := codecRegistry.Load(typ); ok {
		return th, nil
	}
	v, err, _ := building.Do(typ.String(), func() (any, error) {
		if th, ok := codecRegistry.Load(typ); ok {
			return th, nil
		}
		th := newThunk(typ)
		codecRegistry.Store(typ, th)
		fc, buildErr := build(typ)
		if buildErr != nil {
			codecRegistry.Delete(typ)
			th.resolve(nil)
			return nil, buildErr
		}
		th.resolve(fc)
		return th, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*thunk), nil
}
