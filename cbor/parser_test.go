//go:build test

package cbor_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oy3o/itemcodec"
	"github.com/oy3o/itemcodec/cbor"
)

type ParserTestSuite struct {
	suite.Suite
}

func TestParserTestSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}

func (s *ParserTestSuite) read(b []byte) *itemcodec.Reader {
	p := cbor.NewParser(itemcodec.NewSliceInput(b), nil)
	r, err := itemcodec.NewReader(p, nil)
	s.Require().NoError(err)
	return r
}

func (s *ParserTestSuite) TestSmallUnsignedInt() {
	r := s.read([]byte{0x05})
	v, err := r.ReadInt()
	s.Require().NoError(err)
	s.EqualValues(5, v)
}

func (s *ParserTestSuite) TestOneByteArgument() {
	r := s.read([]byte{0x18, 0xFF}) // 255
	v, err := r.ReadInt()
	s.Require().NoError(err)
	s.EqualValues(255, v)
}

func (s *ParserTestSuite) TestNegativeInt() {
	r := s.read([]byte{0x29}) // major 1, info 9 -> -(9+1) = -10
	v, err := r.ReadInt()
	s.Require().NoError(err)
	s.EqualValues(-10, v)
}

func (s *ParserTestSuite) TestBoundaryLongNotOverLong() {
	// 2^63 - 1, the largest value that must decode as Long.
	r := s.read([]byte{0x1B, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemLong, item)
	s.EqualValues(1<<63-1, r.Receptacle().Long())
}

func (s *ParserTestSuite) TestBoundaryOverLong() {
	// 2^63, the smallest positive value that must decode as OverLong.
	r := s.read([]byte{0x1B, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemOverLong, item)
	neg, mag := r.Receptacle().OverLong()
	s.False(neg)
	s.EqualValues(uint64(1)<<63, mag)
}

func (s *ParserTestSuite) TestNegativeBoundaryLong() {
	// -(2^63): major 1, n = 2^63-1.
	r := s.read([]byte{0x3B, 0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemLong, item)
	s.EqualValues(-(int64(1) << 63), r.Receptacle().Long())
}

func (s *ParserTestSuite) TestNegativeBoundaryOverLong() {
	// -(2^63)-1: major 1, n = 2^63.
	r := s.read([]byte{0x3B, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemOverLong, item)
	neg, mag := r.Receptacle().OverLong()
	s.True(neg)
	s.EqualValues(uint64(1)<<63, mag)
}

func (s *ParserTestSuite) TestNegativeMaxUint64ArgumentOverLong() {
	// n = math.MaxUint64, the most negative representable CBOR integer.
	// magnitude must equal n directly with no +1 wraparound to 0.
	r := s.read([]byte{0x3B, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemOverLong, item)
	neg, mag := r.Receptacle().OverLong()
	s.True(neg)
	s.EqualValues(^uint64(0), mag)
}

func (s *ParserTestSuite) TestDefiniteTextString() {
	r := s.read([]byte{0x63, 'c', 'a', 't'})
	v, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("cat", v)
}

func (s *ParserTestSuite) TestIndefiniteArray() {
	r := s.read([]byte{0x9F, 0x01, 0x02, 0xFF})
	_, indefinite, err := r.ReadArrayOpen()
	s.Require().NoError(err)
	s.True(indefinite)
	var got []int32
	for {
		done, err := r.TryReadBreak()
		require.NoError(s.T(), err)
		if done {
			break
		}
		got = append(got, r.Receptacle().Int())
	}
	s.Equal([]int32{1, 2}, got)
}

func (s *ParserTestSuite) TestMapHeader() {
	r := s.read([]byte{0xA1, 0x61, 'a', 0x01})
	n, indefinite, err := r.ReadMapOpen()
	s.Require().NoError(err)
	s.False(indefinite)
	s.EqualValues(1, n)
	key, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("a", key)
	val, err := r.ReadInt()
	s.Require().NoError(err)
	s.EqualValues(1, val)
}

func (s *ParserTestSuite) TestEndOfInput() {
	r := s.read([]byte{})
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemEndOfInput, item)
}

func (s *ParserTestSuite) TestDoubleFloat() {
	// 1.5 as a CBOR double.
	r := s.read([]byte{0xFB, 0x3F, 0xF8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	v, err := r.ReadDouble()
	s.Require().NoError(err)
	s.Equal(1.5, v)
}
