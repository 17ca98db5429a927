package itemcodec

// InputSequence supplies the Input values a ComposedInput concatenates, one
// at a time, in order, rather than requiring every segment to be
// materialized up front.
type InputSequence interface {
	// Next returns the next Input to read from, or ok=false once the
	// sequence is exhausted.
	Next() (Input, bool)
}

// sliceInputSequence adapts a fixed slice of Input values to InputSequence.
type sliceInputSequence struct {
	inputs []Input
	next   int
}

func (s *sliceInputSequence) Next() (Input, bool) {
	if s.next >= len(s.inputs) {
		return nil, false
	}
	in := s.inputs[s.next]
	s.next++
	return in, true
}

// rewindWindow is the minimum number of already-read bytes ComposedInput
// guarantees it can rewind over, matching the per-Input rewind contract.
const rewindWindow = 256

// ComposedInput concatenates a sequence of Input values into one logical
// stream. Reads that run past the current segment transparently advance to
// the next one and splice the split primitive back together; rewinds
// within the last 256 bytes work even across that boundary, by replaying
// from a small backlog rather than by asking an exhausted segment to
// un-consume bytes it may have already discarded.
type ComposedInput struct {
	seq     InputSequence
	current Input

	// consumed holds the backlog of bytes already pulled from current (and
	// any prior, now-discarded segments), trimmed to at most rewindWindow
	// bytes behind pos. Bytes at indices >= pos are "replay" bytes: this
	// cursor rewound past them and a forward MoveCursor or read can still
	// reach them without touching current again.
	consumed    []byte
	pos         int
	historyBase Position
}

var _ Input = (*ComposedInput)(nil)

// NewComposedInput builds a ComposedInput over a fixed list of segments.
func NewComposedInput(inputs ...Input) *ComposedInput {
	return NewComposedInputSequence(&sliceInputSequence{inputs: inputs})
}

// NewComposedInputSequence builds a ComposedInput over an arbitrary,
// possibly lazily-produced, sequence of segments.
func NewComposedInputSequence(seq InputSequence) *ComposedInput {
	return &ComposedInput{seq: seq}
}

func (c *ComposedInput) Cursor() Position {
	return c.historyBase + Position(c.pos)
}

func (c *ComposedInput) Available() int64 {
	avail := int64(len(c.consumed) - c.pos)
	if c.current != nil {
		avail += c.current.Available()
	}
	return avail
}

func (c *ComposedInput) MoveCursor(offset int) error {
	if offset < -rewindWindow+1 || offset > 1 {
		return InvalidInputData(c.Cursor(), "move_cursor offset %d out of [-255,1]", offset)
	}
	target := c.pos + offset
	if target < 0 {
		if debugAssertions {
			panic("itemcodec: rewind past the guaranteed 256-byte window")
		}
		return InvalidInputData(c.Cursor(), "move_cursor target %d precedes retained history", target)
	}
	if target > len(c.consumed) {
		return InvalidInputData(c.Cursor(), "move_cursor target %d is beyond known history", target)
	}
	c.pos = target
	return nil
}

func (c *ComposedInput) PrecedingBytesAsASCIIString(length int) string {
	if length < 0 {
		length = 0
	}
	if length > 255 {
		length = 255
	}
	start := c.pos - length
	if start < 0 {
		start = 0
	}
	window := c.consumed[start:c.pos]
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

// ReleaseBefore trims the backlog up to pos, never past the rewindWindow
// guarantee behind the current cursor.
func (c *ComposedInput) ReleaseBefore(pos Position) {
	target := int(pos - c.historyBase)
	limit := c.pos - rewindWindow
	if target > limit {
		target = limit
	}
	if target <= 0 {
		return
	}
	if target > len(c.consumed) {
		target = len(c.consumed)
	}
	c.consumed = c.consumed[target:]
	c.pos -= target
	c.historyBase += Position(target)
}

func (c *ComposedInput) advanceToNextInput() bool {
	if c.seq == nil {
		return false
	}
	next, ok := c.seq.Next()
	if !ok {
		c.current = nil
		c.seq = nil
		return false
	}
	c.current = next
	return true
}

func (c *ComposedInput) trim() {
	drop := c.pos - rewindWindow
	if drop <= 0 {
		return
	}
	if drop > len(c.consumed) {
		drop = len(c.consumed)
	}
	c.consumed = c.consumed[drop:]
	c.pos -= drop
	c.historyBase += Position(drop)
}

// gatherUpTo collects up to n bytes from the replay backlog and then the
// current segment, without crossing into the next one. full is true only
// when all n bytes were obtained this way.
func (c *ComposedInput) gatherUpTo(n int) (got []byte, full bool) {
	got = make([]byte, 0, n)
	if avail := len(c.consumed) - c.pos; avail > 0 {
		take := minInt(avail, n)
		got = append(got, c.consumed[c.pos:c.pos+take]...)
		c.pos += take
		n -= take
	}
	if n == 0 {
		return got, true
	}
	if c.current == nil && !c.advanceToNextInput() {
		return got, false
	}
	avail := c.current.Available()
	take := minInt(avail, int64(n))
	if take <= 0 {
		return got, false
	}
	fresh, err := c.current.ReadBytes(uint64(take), StrictPadding{})
	if err != nil {
		return got, false
	}
	got = append(got, fresh...)
	c.consumed = append(c.consumed, fresh...)
	c.pos += len(fresh)
	c.trim()
	n -= int(take)
	return got, n == 0
}

func (c *ComposedInput) ReadByte() (byte, error) {
	got, full := c.gatherUpTo(1)
	if !full {
		return 0, UnexpectedEndOfInput(c.Cursor(), 1)
	}
	return got[0], nil
}

func (c *ComposedInput) ReadDoubleByteBE() (uint16, error) {
	got, full := c.gatherUpTo(2)
	if !full {
		return 0, UnexpectedEndOfInput(c.Cursor(), 2-len(got))
	}
	return uint16(beUintFromBytes(got)), nil
}

func (c *ComposedInput) ReadQuadByteBE() (uint32, error) {
	got, full := c.gatherUpTo(4)
	if !full {
		return 0, UnexpectedEndOfInput(c.Cursor(), 4-len(got))
	}
	return uint32(beUintFromBytes(got)), nil
}

func (c *ComposedInput) ReadOctaByteBE() (uint64, error) {
	got, full := c.gatherUpTo(8)
	if !full {
		return 0, UnexpectedEndOfInput(c.Cursor(), 8-len(got))
	}
	return beUintFromBytes(got), nil
}

func (c *ComposedInput) ReadBytePadded(pp PaddingProvider) (byte, error) {
	got, full := c.gatherUpTo(1)
	if full {
		return got[0], nil
	}
	return (&crossingPadding{c: c, outer: pp}).PadByte(c.Cursor())
}

func (c *ComposedInput) ReadDoubleByteBEPadded(pp PaddingProvider) (uint16, error) {
	got, full := c.gatherUpTo(2)
	if full {
		return uint16(beUintFromBytes(got)), nil
	}
	return (&crossingPadding{c: c, outer: pp}).PadDoubleByte(c.Cursor(), got)
}

func (c *ComposedInput) ReadQuadByteBEPadded(pp PaddingProvider) (uint32, error) {
	got, full := c.gatherUpTo(4)
	if full {
		return uint32(beUintFromBytes(got)), nil
	}
	return (&crossingPadding{c: c, outer: pp}).PadQuadByte(c.Cursor(), got)
}

func (c *ComposedInput) ReadOctaByteBEPadded(pp PaddingProvider) (uint64, error) {
	got, full := c.gatherUpTo(8)
	if full {
		return beUintFromBytes(got), nil
	}
	return (&crossingPadding{c: c, outer: pp}).PadOctaByte(c.Cursor(), got)
}

func (c *ComposedInput) ReadBytes(length uint64, pp PaddingProvider) ([]byte, error) {
	if length == 0 {
		return []byte{}, nil
	}
	got, full := c.gatherUpTo(int(length))
	if full {
		return got, nil
	}
	remaining := length - uint64(len(got))
	return (&crossingPadding{c: c, outer: pp}).PadBytes(c.Cursor(), got, remaining)
}

// beUintFromBytes big-endian decodes up to 8 bytes into the low bits of a
// uint64, leaving the high bits zero. It is the counterpart to
// combineDoubleByte/combineQuadByte/combineOctaByte's prefix handling, used
// here to fold a segment-boundary suffix into the same shape.
func beUintFromBytes(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

// crossingPadding is the inner PaddingProvider ComposedInput installs when
// the current segment runs out mid-primitive: the current input is
// drained first, and once exhausted this provider completes the primitive
// by combining the already-read prefix with a suffix read from the next
// segment. Advancing to the next segment may itself come up short, in
// which case the next segment's own padded read calls back into this same provider,
// recursing until either a segment has enough bytes or the sequence is
// genuinely exhausted, at which point outer (the caller's real
// PaddingProvider) takes over.
type crossingPadding struct {
	c     *ComposedInput
	outer PaddingProvider
}

// fetch advances to the next segment (if any) and reads need bytes from it,
// recording them into the backlog. ok is false only when the sequence has no
// further segments; err carries any genuine read failure.
func (cp *crossingPadding) fetch(need int) (b []byte, ok bool, err error) {
	if !cp.c.advanceToNextInput() {
		return nil, false, nil
	}
	mark := cp.c.Cursor()
	fresh, err := cp.c.current.ReadBytes(uint64(need), cp)
	if err != nil {
		return nil, true, err
	}
	// When this segment also ran short, nested fetch calls have already
	// recorded the tail of fresh; drop it so fresh is recorded once, in order.
	if nested := int(cp.c.Cursor() - mark); nested > len(cp.c.consumed) {
		cp.c.consumed, cp.c.pos, cp.c.historyBase = cp.c.consumed[:0], 0, mark
	} else {
		cp.c.consumed = cp.c.consumed[:len(cp.c.consumed)-nested]
		cp.c.pos -= nested
	}
	cp.c.consumed = append(cp.c.consumed, fresh...)
	cp.c.pos += len(fresh)
	cp.c.trim()
	return fresh, true, nil
}

func (cp *crossingPadding) PadByte(pos Position) (byte, error) {
	b, ok, err := cp.fetch(1)
	if err != nil {
		return 0, err
	}
	if !ok {
		return cp.outer.PadByte(pos)
	}
	return b[0], nil
}

func (cp *crossingPadding) PadDoubleByte(pos Position, prefix []byte) (uint16, error) {
	need := 2 - len(prefix)
	b, ok, err := cp.fetch(need)
	if err != nil {
		return 0, err
	}
	if !ok {
		return cp.outer.PadDoubleByte(pos, prefix)
	}
	return combineDoubleByte(prefix, uint16(beUintFromBytes(b)), need), nil
}

func (cp *crossingPadding) PadQuadByte(pos Position, prefix []byte) (uint32, error) {
	need := 4 - len(prefix)
	b, ok, err := cp.fetch(need)
	if err != nil {
		return 0, err
	}
	if !ok {
		return cp.outer.PadQuadByte(pos, prefix)
	}
	return combineQuadByte(prefix, uint32(beUintFromBytes(b)), need), nil
}

func (cp *crossingPadding) PadOctaByte(pos Position, prefix []byte) (uint64, error) {
	need := 8 - len(prefix)
	b, ok, err := cp.fetch(need)
	if err != nil {
		return 0, err
	}
	if !ok {
		return cp.outer.PadOctaByte(pos, prefix)
	}
	return combineOctaByte(prefix, beUintFromBytes(b), need), nil
}

func (cp *crossingPadding) PadBytes(pos Position, prefix []byte, remaining uint64) ([]byte, error) {
	b, ok, err := cp.fetch(int(remaining))
	if err != nil {
		return nil, err
	}
	if !ok {
		return cp.outer.PadBytes(pos, prefix, remaining)
	}
	full := make([]byte, 0, len(prefix)+len(b))
	full = append(full, prefix...)
	full = append(full, b...)
	return full, nil
}
