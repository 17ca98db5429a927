package cbor

// Well-known CBOR tag numbers (RFC 7049 §2.4), exported for callers that
// want to recognize or emit them via OnTag/WriteTag without hard-coding the
// magic number at every call site.
const (
	TagDateTimeString    = 0
	TagEpochDateTime     = 1
	TagPositiveBignum    = 2
	TagNegativeBignum    = 3
	TagDecimalFraction   = 4
	TagBigFloat          = 5
	TagBase64URLExpected = 21
	TagBase64Expected    = 22
	TagBase16Expected    = 23
	TagCBOREncoded       = 24
	TagURI               = 32
	TagBase64URL         = 33
	TagBase64            = 34
	TagRegex             = 35
	TagMIME              = 36
	TagSelfDescribeCBOR  = 55799
)
