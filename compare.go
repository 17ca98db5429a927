package itemcodec

// CompareTextWindowToString reports whether w's bytes equal target, without
// allocating a string for w or a []byte for target. It is the allocation-
// free map-key fast path the derive package's generated field/variant
// dispatch uses: a struct with N fields can test each candidate name against
// an incoming map key without ever materializing the key as a Go string
// when every candidate but the right one fails on length or an early byte.
func CompareTextWindowToString(w TextWindow, target string) bool {
	if w.Length != len(target) {
		return false
	}
	buf, start, n := w.Buf, w.Start, w.Length
	i := 0
	for ; i+8 <= n; i += 8 {
		a := beUintFromBytes(buf[start+i : start+i+8])
		var b uint64
		for j := 0; j < 8; j++ {
			b = b<<8 | uint64(target[i+j])
		}
		if a != b {
			return false
		}
	}
	for ; i < n; i++ {
		if buf[start+i] != target[i] {
			return false
		}
	}
	return true
}

// CompareTextWindowToBytes is CompareTextWindowToString's []byte-target
// sibling, for a candidate that is already a byte slice rather than a Go
// string. Nothing in this module calls it; the derive package matches
// against strings.
func CompareTextWindowToBytes(w TextWindow, target []byte) bool {
	if w.Length != len(target) {
		return false
	}
	return compareBytesFast(w.Bytes(), target)
}

func compareBytesFast(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	n := len(a)
	i := 0
	for ; i+8 <= n; i += 8 {
		if beUintFromBytes(a[i:i+8]) != beUintFromBytes(b[i:i+8]) {
			return false
		}
	}
	for ; i < n; i++ {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// EqualsText compares the Receptacle's currently captured Text item against
// target, taking the zero-copy CompareTextWindowToString path when the
// parser delivered a TextWindow rather than an owned string.
func (r *Receptacle) EqualsText(target string) bool {
	if r.hasWindow {
		return CompareTextWindowToString(r.window, target)
	}
	return r.str == target
}

// ReadTextCompare reads the next item, which must be a Text or TextStart
// item, and compares it against target, without allocating a Go string for
// a definite-length item. Callers with a single candidate (or that already
// know the key must be one specific value) use this directly; a caller
// testing several candidate names against one incoming key uses MatchText
// instead, since this reads (and consumes) a fresh item on every call.
func (r *Reader) ReadTextCompare(target string) (matched bool, err error) {
	item, err := r.ReadNext()
	if err != nil {
		return false, err
	}
	switch item {
	case ItemText:
		return r.receptacle.EqualsText(target), nil
	case ItemTextStart:
		return r.compareIndefiniteText(target)
	default:
		return false, r.setError(InvalidInputData(0, "expected Text, got %s", item))
	}
}

// MatchText compares the Text or TextStart item (item, as just returned by
// ReadNext) against each of candidates in order, stopping at the first
// match and returning its index, or -1 if none matched. It is the
// Reader-level entry point compare.go's fast path is built for: a derive-
// generated field/variant dispatch reads the incoming key once, then tests
// it against every candidate field or subtype name here, rather than
// decoding the key to a string first and doing a hash-map lookup.
//
// A definite-length Text item is matched without ever allocating a Go
// string for it; an indefinite one (TextStart ... Break) is concatenated
// once and then compared linearly, since matching against several
// candidates rules out comparing each segment in isolation. On a miss, key
// holds the materialized wire value, for error reporting only.
func (r *Reader) MatchText(item DataItem, candidates []string) (idx int, key string, err error) {
	switch item {
	case ItemText:
		for i, c := range candidates {
			if r.receptacle.EqualsText(c) {
				return i, "", nil
			}
		}
		return -1, r.receptacle.String(), nil
	case ItemTextStart:
		s, err := r.readIndefiniteText()
		if err != nil {
			return -1, "", err
		}
		for i, c := range candidates {
			if s == c {
				return i, "", nil
			}
		}
		return -1, s, nil
	default:
		return -1, "", r.setError(InvalidInputData(0, "expected Text, got %s", item))
	}
}

func (r *Reader) compareIndefiniteText(target string) (bool, error) {
	pos := 0
	mismatch := false
	for {
		done, err := r.TryReadBreak()
		if err != nil {
			return false, err
		}
		if done {
			break
		}
		if r.receptacle.Kind() != ItemText {
			return false, r.setError(InvalidInputData(0, "expected a text segment, got %s", r.receptacle.Kind()))
		}
		seg := r.receptacle.String()
		if mismatch || pos+len(seg) > len(target) || seg != target[pos:pos+len(seg)] {
			mismatch = true
		}
		pos += len(seg)
	}
	return !mismatch && pos == len(target), nil
}
