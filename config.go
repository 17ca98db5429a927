package itemcodec

// DefaultMaxByteStringLength and friends bound a handful of decode-time
// resource limits so a hostile or merely broken input cannot force an
// unbounded allocation before the caller's own sum/container-size checks
// ever run.
const (
	DefaultMaxByteStringLength     = 1 << 30
	DefaultMaxTextStringLength     = 1 << 30
	DefaultMaxNumberMantissaDigits = 19
	DefaultMaxNumberAbsExponent    = 999
	DefaultInitialCharBufferSize   = 32
)

// DecodingConfig bundles every Reader-visible option. Use NewDecodingConfig
// with DecodingOption values rather than constructing this directly.
type DecodingConfig struct {
	// PrefixOnly makes Reader.Finish skip the end-of-input check once the
	// top-level value has been read, leaving any trailing bytes in Input
	// unread instead of requiring the input to be fully consumed.
	PrefixOnly bool

	MaxByteStringLength     uint64
	MaxTextStringLength     uint64
	MaxNumberMantissaDigits int
	MaxNumberAbsExponent    int

	// InitialCharBufferSize sizes the initial capacity of the buffer the
	// JSON parser decodes each text string into.
	InitialCharBufferSize int

	// ReceiverWrapper, if set, wraps the Receiver a Reader drives before
	// handing it to the Parser — the hook TeeReceiver is built for.
	ReceiverWrapper func(Receiver) Receiver
}

// DecodingOption configures a DecodingConfig.
type DecodingOption func(*DecodingConfig)

// NewDecodingConfig builds a DecodingConfig, applying sensible defaults and
// then every opt in order.
func NewDecodingConfig(opts ...DecodingOption) *DecodingConfig {
	cfg := &DecodingConfig{
		MaxByteStringLength:     DefaultMaxByteStringLength,
		MaxTextStringLength:     DefaultMaxTextStringLength,
		MaxNumberMantissaDigits: DefaultMaxNumberMantissaDigits,
		MaxNumberAbsExponent:    DefaultMaxNumberAbsExponent,
		InitialCharBufferSize:   DefaultInitialCharBufferSize,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func WithPrefixOnly(v bool) DecodingOption {
	return func(c *DecodingConfig) { c.PrefixOnly = v }
}

func WithMaxByteStringLength(n uint64) DecodingOption {
	return func(c *DecodingConfig) { c.MaxByteStringLength = n }
}

func WithMaxTextStringLength(n uint64) DecodingOption {
	return func(c *DecodingConfig) { c.MaxTextStringLength = n }
}

func WithMaxNumberMantissaDigits(n int) DecodingOption {
	return func(c *DecodingConfig) { c.MaxNumberMantissaDigits = n }
}

func WithMaxNumberAbsExponent(n int) DecodingOption {
	return func(c *DecodingConfig) { c.MaxNumberAbsExponent = n }
}

func WithInitialCharBufferSize(n int) DecodingOption {
	return func(c *DecodingConfig) { c.InitialCharBufferSize = n }
}

func WithReceiverWrapper(wrap func(Receiver) Receiver) DecodingOption {
	return func(c *DecodingConfig) { c.ReceiverWrapper = wrap }
}

// EncodingConfig bundles every Writer-visible option.
type EncodingConfig struct {
	// ReceiverWrapper wraps the Renderer a Writer drives, the encode-side
	// mirror of DecodingConfig.ReceiverWrapper.
	ReceiverWrapper func(Receiver) Receiver
}

type EncodingOption func(*EncodingConfig)

func NewEncodingConfig(opts ...EncodingOption) *EncodingConfig {
	cfg := &EncodingConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func WithEncodingReceiverWrapper(wrap func(Receiver) Receiver) EncodingOption {
	return func(c *EncodingConfig) { c.ReceiverWrapper = wrap }
}
