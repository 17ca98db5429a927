package itemcodec

// Writer is Reader's encode-side mirror: a façade over a Renderer (which is
// itself a Receiver that writes to an Output) exposing typed Write* helpers
// instead of the raw On* callback names, with the same latched first-error
// semantics as Reader.
type Writer struct {
	renderer Renderer
	config   *EncodingConfig
	receiver Receiver
	err      error
}

// NewWriter builds a Writer around an already-constructed Renderer (one of
// cbor.NewRenderer or json.NewRenderer). cfg may be nil.
func NewWriter(renderer Renderer, cfg *EncodingConfig) (*Writer, error) {
	if renderer == nil {
		return nil, ErrNilOutput
	}
	if cfg == nil {
		cfg = NewEncodingConfig()
	}
	w := &Writer{renderer: renderer, config: cfg}
	w.receiver = Receiver(renderer)
	if cfg.ReceiverWrapper != nil {
		w.receiver = cfg.ReceiverWrapper(w.receiver)
	}
	return w, nil
}

func (w *Writer) setError(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

// Err returns the latched first error, if any.
func (w *Writer) Err() error { return w.err }

func (w *Writer) do(fn func() error) error {
	if w.err != nil {
		return w.err
	}
	if err := fn(); err != nil {
		return w.setError(err)
	}
	return nil
}

func (w *Writer) WriteNull() error      { return w.do(w.receiver.OnNull) }
func (w *Writer) WriteUndefined() error { return w.do(w.receiver.OnUndefined) }
func (w *Writer) WriteBreak() error     { return w.do(w.receiver.OnBreak) }

func (w *Writer) WriteBool(v bool) error {
	return w.do(func() error { return w.receiver.OnBoolean(v) })
}

func (w *Writer) WriteInt(v int32) error {
	return w.do(func() error { return w.receiver.OnInt(v) })
}

func (w *Writer) WriteLong(v int64) error {
	return w.do(func() error { return w.receiver.OnLong(v) })
}

func (w *Writer) WriteOverLong(negative bool, magnitude uint64) error {
	return w.do(func() error { return w.receiver.OnOverLong(negative, magnitude) })
}

func (w *Writer) WriteFloat16(v float32) error {
	return w.do(func() error { return w.receiver.OnFloat16(v) })
}

func (w *Writer) WriteFloat(v float32) error {
	return w.do(func() error { return w.receiver.OnFloat(v) })
}

func (w *Writer) WriteDouble(v float64) error {
	return w.do(func() error { return w.receiver.OnDouble(v) })
}

func (w *Writer) WriteSimpleValue(v uint8) error {
	return w.do(func() error { return w.receiver.OnSimpleValue(v) })
}

func (w *Writer) WriteNumberString(v string) error {
	return w.do(func() error { return w.receiver.OnNumberString(v) })
}

func (w *Writer) WriteBytes(v []byte) error {
	return w.do(func() error { return w.receiver.OnBytes(v) })
}

func (w *Writer) WriteBytesStart() error { return w.do(w.receiver.OnBytesStart) }

func (w *Writer) WriteString(v string) error {
	return w.do(func() error { return w.receiver.OnText(v) })
}

func (w *Writer) WriteTextStart() error { return w.do(w.receiver.OnTextStart) }

func (w *Writer) WriteArrayOpen(n uint64) error {
	return w.do(func() error { return w.receiver.OnArrayHeader(n) })
}

func (w *Writer) WriteArrayStart() error { return w.do(w.receiver.OnArrayStart) }

func (w *Writer) WriteMapOpen(n uint64) error {
	return w.do(func() error { return w.receiver.OnMapHeader(n) })
}

func (w *Writer) WriteMapStart() error { return w.do(w.receiver.OnMapStart) }

func (w *Writer) WriteTag(tag uint64) error {
	return w.do(func() error { return w.receiver.OnTag(tag) })
}
