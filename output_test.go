//go:build test

package itemcodec

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ChunkedOutputTestSuite struct {
	suite.Suite
}

func TestChunkedOutputTestSuite(t *testing.T) {
	suite.Run(t, new(ChunkedOutputTestSuite))
}

func (s *ChunkedOutputTestSuite) TestWriteByteAndBytesRoundtrip() {
	out := NewChunkedOutputSize(4)
	for _, b := range []byte("hello world") {
		s.Require().NoError(out.WriteByte(b))
	}
	s.Require().NoError(out.WriteBytes([]byte("!")))
	result, err := out.Result()
	s.Require().NoError(err)
	s.Equal("hello world!", string(result))
	s.EqualValues(len("hello world!"), out.Len())
}

func (s *ChunkedOutputTestSuite) TestSpansManyChunks() {
	out := NewChunkedOutputSize(3)
	payload := make([]byte, 0, 97)
	for i := 0; i < 97; i++ {
		payload = append(payload, byte(i))
	}
	s.Require().NoError(out.WriteBytes(payload))
	result, err := out.Result()
	s.Require().NoError(err)
	s.Equal(payload, result)
}

func (s *ChunkedOutputTestSuite) TestResetReleasesAndAllowsReuse() {
	out := NewChunkedOutput()
	s.Require().NoError(out.WriteBytes([]byte("abc")))
	out.Reset()
	s.EqualValues(0, out.Len())
	s.Require().NoError(out.WriteBytes([]byte("xyz")))
	result, err := out.Result()
	s.Require().NoError(err)
	s.Equal("xyz", string(result))
}
