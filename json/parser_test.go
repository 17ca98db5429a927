//go:build test

package json_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oy3o/itemcodec"
	"github.com/oy3o/itemcodec/json"
)

type ParserTestSuite struct {
	suite.Suite
}

func TestParserTestSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}

func (s *ParserTestSuite) read(text string) *itemcodec.Reader {
	p := json.NewParser(itemcodec.NewSliceInput([]byte(text)), nil)
	r, err := itemcodec.NewReader(p, nil)
	s.Require().NoError(err)
	return r
}

func (s *ParserTestSuite) TestBareNumber() {
	r := s.read("42")
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemNumberString, item)
	s.Equal("42", r.Receptacle().String())
}

func (s *ParserTestSuite) TestNegativeFraction() {
	r := s.read("-3.25")
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemNumberString, item)
	s.Equal("-3.25", r.Receptacle().String())
}

func (s *ParserTestSuite) TestExponentForm() {
	r := s.read("1.5e10")
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemNumberString, item)
	s.Equal("1.5e10", r.Receptacle().String())
}

func (s *ParserTestSuite) TestExponentOverflowErrors() {
	r := s.read("1e5000")
	_, err := r.ReadNext()
	s.Error(err)
}

func (s *ParserTestSuite) TestMantissaDigitLimitErrors() {
	big := "1"
	for i := 0; i < itemcodec.DefaultMaxNumberMantissaDigits+5; i++ {
		big += "0"
	}
	r := s.read(big)
	_, err := r.ReadNext()
	s.Error(err)
}

func (s *ParserTestSuite) TestPlainStringZeroCopy() {
	r := s.read(`"hello"`)
	v, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("hello", v)
}

func (s *ParserTestSuite) TestEscapedString() {
	r := s.read(`"a\nb\tc\"d"`)
	v, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("a\nb\tc\"d", v)
}

func (s *ParserTestSuite) TestUnicodeEscape() {
	r := s.read(`"\u00e9"`)
	v, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("é", v)
}

func (s *ParserTestSuite) TestSurrogatePairEscape() {
	r := s.read(`"\ud83d\ude00"`) // U+1F600 GRINNING FACE
	v, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("😀", v)
}

func (s *ParserTestSuite) TestEmptyArray() {
	r := s.read("[]")
	n, indefinite, err := r.ReadArrayOpen()
	s.Require().NoError(err)
	s.True(indefinite)
	s.EqualValues(itemcodec.IndefiniteLength, n)
	done, err := r.TryReadBreak()
	s.Require().NoError(err)
	s.True(done)
}

func (s *ParserTestSuite) TestArrayOfNumbers() {
	r := s.read("[1, 2, 3]")
	_, _, err := r.ReadArrayOpen()
	s.Require().NoError(err)
	var got []string
	for {
		done, err := r.TryReadBreak()
		require.NoError(s.T(), err)
		if done {
			break
		}
		item := r.Kind() // TryReadBreak has already read the element
		s.Require().NoError(r.Err())
		s.Equal(itemcodec.ItemNumberString, item)
		got = append(got, r.Receptacle().String())
	}
	s.Equal([]string{"1", "2", "3"}, got)
}

func (s *ParserTestSuite) TestObjectWithStringAndBoolValues() {
	r := s.read(`{"name": "cat", "ok": true}`)
	_, indefinite, err := r.ReadMapOpen()
	s.Require().NoError(err)
	s.True(indefinite)

	key, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("name", key)
	val, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("cat", val)

	key, err = r.ReadString()
	s.Require().NoError(err)
	s.Equal("ok", key)
	b, err := r.ReadBool()
	s.Require().NoError(err)
	s.True(b)

	done, err := r.TryReadBreak()
	s.Require().NoError(err)
	s.True(done)
}

func (s *ParserTestSuite) TestNestedStructure() {
	r := s.read(`{"items": [1, {"x": null}]}`)
	_, _, err := r.ReadMapOpen()
	s.Require().NoError(err)
	key, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("items", key)

	_, _, err = r.ReadArrayOpen()
	s.Require().NoError(err)

	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemNumberString, item)

	_, _, err = r.ReadMapOpen()
	s.Require().NoError(err)
	innerKey, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("x", innerKey)
	s.Require().NoError(r.ReadNull())

	done, err := r.TryReadBreak() // closes inner object
	s.Require().NoError(err)
	s.True(done)
	done, err = r.TryReadBreak() // closes array
	s.Require().NoError(err)
	s.True(done)
	done, err = r.TryReadBreak() // closes outer object
	s.Require().NoError(err)
	s.True(done)
}

func (s *ParserTestSuite) TestEndOfInput() {
	r := s.read("")
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemEndOfInput, item)
}

func (s *ParserTestSuite) TestTrailingGarbageErrors() {
	r := s.read("1 x")
	_, err := r.ReadNext()
	s.Require().NoError(err)
	// the trailing 'x' is rejected once the caller asserts no more input follows.
	s.Error(r.ReadEndOfInput())
}
