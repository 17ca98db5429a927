//go:build test

package itemcodec

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// scriptedParser replays a fixed sequence of (DataItem, callback) pairs,
// letting Reader's tests run without a real CBOR/JSON parser underneath.
type scriptedParser struct {
	steps []func(Receiver) (DataItem, error)
	next  int
}

func (p *scriptedParser) ReadNextDataItem(r Receiver) (DataItem, error) {
	if p.next >= len(p.steps) {
		_ = r.OnEndOfInput()
		return ItemEndOfInput, nil
	}
	step := p.steps[p.next]
	p.next++
	return step(r)
}

type ReaderTestSuite struct {
	suite.Suite
}

func TestReaderTestSuite(t *testing.T) {
	suite.Run(t, new(ReaderTestSuite))
}

func (s *ReaderTestSuite) TestReadsTypedValues() {
	p := &scriptedParser{steps: []func(Receiver) (DataItem, error){
		func(r Receiver) (DataItem, error) { return ItemInt, r.OnInt(7) },
		func(r Receiver) (DataItem, error) { return ItemText, r.OnText("hi") },
		func(r Receiver) (DataItem, error) { return ItemBoolean, r.OnBoolean(true) },
	}}
	reader, err := NewReader(p, nil)
	s.Require().NoError(err)

	n, err := reader.ReadInt()
	s.Require().NoError(err)
	s.EqualValues(7, n)

	str, err := reader.ReadString()
	s.Require().NoError(err)
	s.Equal("hi", str)

	b, err := reader.ReadBool()
	s.Require().NoError(err)
	s.True(b)
}

func (s *ReaderTestSuite) TestLatchesFirstError() {
	p := &scriptedParser{steps: []func(Receiver) (DataItem, error){
		func(r Receiver) (DataItem, error) { return ItemText, r.OnText("oops") },
	}}
	reader, err := NewReader(p, nil)
	s.Require().NoError(err)

	_, err = reader.ReadInt()
	s.Require().Error(err)

	_, err2 := reader.ReadString()
	s.Require().Error(err2)
	s.Same(err, err2)
}

func (s *ReaderTestSuite) TestIndefiniteArrayLoop() {
	p := &scriptedParser{steps: []func(Receiver) (DataItem, error){
		func(r Receiver) (DataItem, error) { return ItemArrayStart, r.OnArrayStart() },
		func(r Receiver) (DataItem, error) { return ItemInt, r.OnInt(1) },
		func(r Receiver) (DataItem, error) { return ItemInt, r.OnInt(2) },
		func(r Receiver) (DataItem, error) { return ItemBreak, r.OnBreak() },
	}}
	reader, err := NewReader(p, nil)
	s.Require().NoError(err)

	_, indefinite, err := reader.ReadArrayOpen()
	s.Require().NoError(err)
	s.True(indefinite)

	var values []int32
	for {
		done, err := reader.TryReadBreak()
		s.Require().NoError(err)
		if done {
			break
		}
		values = append(values, reader.Receptacle().Int())
	}
	s.Equal([]int32{1, 2}, values)
}

func (s *ReaderTestSuite) TestReadStringConcatenatesIndefiniteSegments() {
	p := &scriptedParser{steps: []func(Receiver) (DataItem, error){
		func(r Receiver) (DataItem, error) { return ItemTextStart, r.OnTextStart() },
		func(r Receiver) (DataItem, error) { return ItemText, r.OnText("ab") },
		func(r Receiver) (DataItem, error) { return ItemText, r.OnText("cde") },
		func(r Receiver) (DataItem, error) { return ItemBreak, r.OnBreak() },
	}}
	reader, err := NewReader(p, nil)
	s.Require().NoError(err)

	str, err := reader.ReadString()
	s.Require().NoError(err)
	s.Equal("abcde", str)
}

func (s *ReaderTestSuite) TestFinishRejectsTrailingDataByDefault() {
	p := &scriptedParser{steps: []func(Receiver) (DataItem, error){
		func(r Receiver) (DataItem, error) { return ItemInt, r.OnInt(1) },
		func(r Receiver) (DataItem, error) { return ItemInt, r.OnInt(2) },
	}}
	reader, err := NewReader(p, nil)
	s.Require().NoError(err)
	_, err = reader.ReadInt()
	s.Require().NoError(err)
	s.Error(reader.Finish())
}

func (s *ReaderTestSuite) TestFinishAllowsTrailingDataWithPrefixOnly() {
	p := &scriptedParser{steps: []func(Receiver) (DataItem, error){
		func(r Receiver) (DataItem, error) { return ItemInt, r.OnInt(1) },
		func(r Receiver) (DataItem, error) { return ItemInt, r.OnInt(2) },
	}}
	reader, err := NewReader(p, NewDecodingConfig(WithPrefixOnly(true)))
	s.Require().NoError(err)
	_, err = reader.ReadInt()
	s.Require().NoError(err)
	s.NoError(reader.Finish())
}

func (s *ReaderTestSuite) TestReadBytesConcatenatesIndefiniteSegments() {
	p := &scriptedParser{steps: []func(Receiver) (DataItem, error){
		func(r Receiver) (DataItem, error) { return ItemBytesStart, r.OnBytesStart() },
		func(r Receiver) (DataItem, error) { return ItemBytes, r.OnBytes([]byte{1, 2}) },
		func(r Receiver) (DataItem, error) { return ItemBytes, r.OnBytes([]byte{3}) },
		func(r Receiver) (DataItem, error) { return ItemBreak, r.OnBreak() },
	}}
	reader, err := NewReader(p, nil)
	s.Require().NoError(err)

	b, err := reader.ReadBytes()
	s.Require().NoError(err)
	s.Equal([]byte{1, 2, 3}, b)
}
