//go:build !itemcodec_debug

package itemcodec

// debugAssertions is compiled out unless the itemcodec_debug build tag is
// set. A rewind beyond the guaranteed 256-byte window is undefined
// behavior: a normal build simply returns an error (see
// ComposedInput.MoveCursor), a debug build additionally panics so the
// violation is caught loudly during development.
const debugAssertions = false
