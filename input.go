package itemcodec

import "encoding/binary"

// Input is a pull interface over an unbounded byte source with padding
// fallback for under-runs. Parser borrows an Input; it never outlives
// the parser that owns it.
//
// The "unchecked fast path" methods (ReadByte, ReadDoubleByteBE,
// ReadQuadByteBE, ReadOctaByteBE) require the caller to have already
// confirmed enough bytes remain (e.g. via Available); they exist so a
// Parser that has just checked a length does not pay for a second bounds
// check. Use the *Padded variants when availability is not already known.
type Input interface {
	// Cursor returns the byte index of the next unread byte.
	Cursor() Position

	// MoveCursor rewinds (negative) or advances (0 or 1) the cursor.
	// offset must be in [-255, 1]; implementations must keep at least the
	// last 256 bytes available to satisfy any rewind in that range.
	MoveCursor(offset int) error

	// Available reports how many bytes can currently be read without
	// invoking a PaddingProvider.
	Available() int64

	ReadByte() (byte, error)
	ReadDoubleByteBE() (uint16, error)
	ReadQuadByteBE() (uint32, error)
	ReadOctaByteBE() (uint64, error)

	ReadBytePadded(pp PaddingProvider) (byte, error)
	ReadDoubleByteBEPadded(pp PaddingProvider) (uint16, error)
	ReadQuadByteBEPadded(pp PaddingProvider) (uint32, error)
	ReadOctaByteBEPadded(pp PaddingProvider) (uint64, error)

	// ReadBytes returns an owned slice of length bytes (possibly zero),
	// invoking pp for any shortfall.
	ReadBytes(length uint64, pp PaddingProvider) ([]byte, error)

	// PrecedingBytesAsASCIIString returns up to length bytes immediately
	// before the cursor, rendered as ASCII, for diagnostics. It does not
	// move the cursor. length must be in [0, 255].
	PrecedingBytesAsASCIIString(length int) string

	// ReleaseBefore lets the input reclaim bytes strictly before pos while
	// still honoring the 256-byte rewind guarantee.
	ReleaseBefore(pos Position)
}

// PaddingProvider supplies substitute content when an Input cannot satisfy
// a read from its own bytes. Every method receives whatever prefix was
// already read (possibly empty) so a composed input can splice in the next
// segment's bytes at the correct bit position.
type PaddingProvider interface {
	PadByte(pos Position) (byte, error)
	// PadDoubleByte receives 0 or 1 already-read prefix bytes.
	PadDoubleByte(pos Position, prefix []byte) (uint16, error)
	// PadQuadByte receives 0..3 already-read prefix bytes.
	PadQuadByte(pos Position, prefix []byte) (uint32, error)
	// PadOctaByte receives 0..7 already-read prefix bytes.
	PadOctaByte(pos Position, prefix []byte) (uint64, error)
	// PadBytes receives the prefix already read and the remaining length
	// still needed, and must return a slice of exactly that combined
	// length (prefix followed by the padding's contribution).
	PadBytes(pos Position, prefix []byte, remaining uint64) ([]byte, error)
}

// StrictPadding is the default PaddingProvider: every shortfall is a hard
// failure. A caller that wants a bounds check without committing to a
// value can simply attempt a padded read with StrictPadding and treat
// ErrUnexpectedEndOfInput as "not enough bytes".
type StrictPadding struct{}

func (StrictPadding) PadByte(pos Position) (byte, error) {
	return 0, UnexpectedEndOfInput(pos, 1)
}

func (StrictPadding) PadDoubleByte(pos Position, prefix []byte) (uint16, error) {
	return 0, UnexpectedEndOfInput(pos, 2-len(prefix))
}

func (StrictPadding) PadQuadByte(pos Position, prefix []byte) (uint32, error) {
	return 0, UnexpectedEndOfInput(pos, 4-len(prefix))
}

func (StrictPadding) PadOctaByte(pos Position, prefix []byte) (uint64, error) {
	return 0, UnexpectedEndOfInput(pos, 8-len(prefix))
}

func (StrictPadding) PadBytes(pos Position, prefix []byte, remaining uint64) ([]byte, error) {
	return nil, UnexpectedEndOfInput(pos, int(remaining))
}

// combineDoubleByte assembles a uint16 from a 0-or-1-byte prefix (high end)
// and a suffix read from the next segment: the prior input's big-endian
// prefix bytes shifted to the high end, OR'd with a padded read of the
// remaining bytes from the new input.
func combineDoubleByte(prefix []byte, suffix uint16, suffixWidth int) uint16 {
	var v uint16
	for _, b := range prefix {
		v = v<<8 | uint16(b)
	}
	return v<<(8*suffixWidth) | suffix
}

func combineQuadByte(prefix []byte, suffix uint32, suffixWidth int) uint32 {
	var v uint32
	for _, b := range prefix {
		v = v<<8 | uint32(b)
	}
	return v<<(8*suffixWidth) | suffix
}

func combineOctaByte(prefix []byte, suffix uint64, suffixWidth int) uint64 {
	var v uint64
	for _, b := range prefix {
		v = v<<8 | uint64(b)
	}
	return v<<(8*suffixWidth) | suffix
}

// SliceInput is an Input backed entirely by an in-memory byte slice. It is
// the base case every ComposedInput element reduces to, and the shape a
// JSON parser uses for its zero-copy TextWindow reads.
type SliceInput struct {
	buf    []byte
	cursor int
}

var _ Input = (*SliceInput)(nil)

// NewSliceInput wraps buf for reading. buf is not copied; the caller must
// not mutate it while the Input is in use.
func NewSliceInput(buf []byte) *SliceInput {
	return &SliceInput{buf: buf}
}

// Bytes returns the full underlying buffer, for callers (like the JSON
// parser) that build TextWindow values directly.
func (s *SliceInput) Bytes() []byte { return s.buf }

func (s *SliceInput) Cursor() Position { return Position(s.cursor) }

func (s *SliceInput) Available() int64 { return int64(len(s.buf) - s.cursor) }

func (s *SliceInput) MoveCursor(offset int) error {
	if offset < -255 || offset > 1 {
		return InvalidInputData(s.Cursor(), "move_cursor offset %d out of [-255,1]", offset)
	}
	target := s.cursor + offset
	if target < 0 || target > len(s.buf) {
		return InvalidInputData(s.Cursor(), "move_cursor target %d out of range", target)
	}
	s.cursor = target
	return nil
}

func (s *SliceInput) ReadByte() (byte, error) {
	if s.cursor >= len(s.buf) {
		return 0, UnexpectedEndOfInput(s.Cursor(), 1)
	}
	b := s.buf[s.cursor]
	s.cursor++
	return b, nil
}

func (s *SliceInput) ReadDoubleByteBE() (uint16, error) {
	if s.cursor+2 > len(s.buf) {
		return 0, UnexpectedEndOfInput(s.Cursor(), 2-(len(s.buf)-s.cursor))
	}
	v := binary.BigEndian.Uint16(s.buf[s.cursor:])
	s.cursor += 2
	return v, nil
}

func (s *SliceInput) ReadQuadByteBE() (uint32, error) {
	if s.cursor+4 > len(s.buf) {
		return 0, UnexpectedEndOfInput(s.Cursor(), 4-(len(s.buf)-s.cursor))
	}
	v := binary.BigEndian.Uint32(s.buf[s.cursor:])
	s.cursor += 4
	return v, nil
}

func (s *SliceInput) ReadOctaByteBE() (uint64, error) {
	if s.cursor+8 > len(s.buf) {
		return 0, UnexpectedEndOfInput(s.Cursor(), 8-(len(s.buf)-s.cursor))
	}
	v := binary.BigEndian.Uint64(s.buf[s.cursor:])
	s.cursor += 8
	return v, nil
}

func (s *SliceInput) ReadBytePadded(pp PaddingProvider) (byte, error) {
	if s.cursor < len(s.buf) {
		return s.ReadByte()
	}
	return pp.PadByte(s.Cursor())
}

func (s *SliceInput) ReadDoubleByteBEPadded(pp PaddingProvider) (uint16, error) {
	avail := len(s.buf) - s.cursor
	if avail >= 2 {
		return s.ReadDoubleByteBE()
	}
	prefix := append([]byte(nil), s.buf[s.cursor:]...)
	s.cursor = len(s.buf)
	return pp.PadDoubleByte(s.Cursor(), prefix)
}

func (s *SliceInput) ReadQuadByteBEPadded(pp PaddingProvider) (uint32, error) {
	avail := len(s.buf) - s.cursor
	if avail >= 4 {
		return s.ReadQuadByteBE()
	}
	prefix := append([]byte(nil), s.buf[s.cursor:]...)
	s.cursor = len(s.buf)
	return pp.PadQuadByte(s.Cursor(), prefix)
}

func (s *SliceInput) ReadOctaByteBEPadded(pp PaddingProvider) (uint64, error) {
	avail := len(s.buf) - s.cursor
	if avail >= 8 {
		return s.ReadOctaByteBE()
	}
	prefix := append([]byte(nil), s.buf[s.cursor:]...)
	s.cursor = len(s.buf)
	return pp.PadOctaByte(s.Cursor(), prefix)
}

func (s *SliceInput) ReadBytes(length uint64, pp PaddingProvider) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	avail := int64(len(s.buf) - s.cursor)
	if avail >= int64(length) {
		out := append([]byte(nil), s.buf[s.cursor:s.cursor+int(length)]...)
		s.cursor += int(length)
		return out, nil
	}
	prefix := append([]byte(nil), s.buf[s.cursor:]...)
	remaining := length - uint64(avail)
	s.cursor = len(s.buf)
	return pp.PadBytes(s.Cursor(), prefix, remaining)
}

func (s *SliceInput) PrecedingBytesAsASCIIString(length int) string {
	if length < 0 {
		length = 0
	}
	if length > 255 {
		length = 255
	}
	start := s.cursor - length
	if start < 0 {
		start = 0
	}
	window := s.buf[start:s.cursor]
	out := make([]byte, len(window))
	for i, b := range window {
		if b < 0x20 || b > 0x7E {
			out[i] = '.'
		} else {
			out[i] = b
		}
	}
	return string(out)
}

// ReleaseBefore is a no-op for SliceInput: the whole buffer is already
// resident in memory, so there is nothing to reclaim.
func (s *SliceInput) ReleaseBefore(pos Position) {}
