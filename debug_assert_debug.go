//go:build itemcodec_debug

package itemcodec

// debugAssertions is true when built with -tags itemcodec_debug, turning
// documented-undefined-behavior paths (see ComposedInput.MoveCursor) into
// panics instead of ordinary errors, so violations are caught loudly
// during development.
const debugAssertions = true
