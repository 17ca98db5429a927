//go:build test

package itemcodec

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CompareTestSuite struct {
	suite.Suite
}

func TestCompareTestSuite(t *testing.T) {
	suite.Run(t, new(CompareTestSuite))
}

func (s *CompareTestSuite) TestWindowToStringMatchesAndMismatches() {
	buf := []byte(`{"longer_field_name":1}`)
	w := TextWindow{Buf: buf, Start: 2, Length: 17, UTF8: true}
	s.True(CompareTextWindowToString(w, "longer_field_name"))
	s.False(CompareTextWindowToString(w, "longer_field_nam3"))
	s.False(CompareTextWindowToString(w, "short"))
}

func (s *CompareTestSuite) TestReceptacleEqualsTextOwnedAndWindow() {
	var r Receptacle
	s.Require().NoError(r.OnText("hello"))
	s.True(r.EqualsText("hello"))
	s.False(r.EqualsText("world"))

	s.Require().NoError(r.OnTextWindow(TextWindow{Buf: []byte("hello"), Start: 0, Length: 5, UTF8: true}))
	s.True(r.EqualsText("hello"))
}

func (s *CompareTestSuite) TestReadTextCompareOverIndefiniteSegments() {
	p := &scriptedParser{steps: []func(Receiver) (DataItem, error){
		func(r Receiver) (DataItem, error) { return ItemTextStart, r.OnTextStart() },
		func(r Receiver) (DataItem, error) { return ItemText, r.OnText("foo") },
		func(r Receiver) (DataItem, error) { return ItemText, r.OnText("bar") },
		func(r Receiver) (DataItem, error) { return ItemBreak, r.OnBreak() },
	}}
	reader, err := NewReader(p, nil)
	s.Require().NoError(err)
	matched, err := reader.ReadTextCompare("foobar")
	s.Require().NoError(err)
	s.True(matched)
}
