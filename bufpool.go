package itemcodec

import (
	"bytes"
	"sync"
)

// segmentBufPool reuses buffers for reassembling indefinite-length byte/text
// segments in Reader's ReadString/ReadBytes. Pooling *bytes.Buffer avoids a fresh
// allocation per BytesStart/TextStart stream.
var segmentBufPool = sync.Pool{
	New: func() any {
		// A 4KB default avoids re-allocation for common segment sizes.
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// DefaultChunkSize is the chunk width ChunkedOutput allocates when none is
// given explicitly.
const DefaultChunkSize = 32 * 1024

// chunkPool recycles the fixed-size []byte chunks backing ChunkedOutput so
// repeated encode runs do not churn the GC.
var chunkPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, DefaultChunkSize)
		return &b
	},
}

func getSegmentBuffer() *bytes.Buffer {
	buf := segmentBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putSegmentBuffer(buf *bytes.Buffer) {
	segmentBufPool.Put(buf)
}
