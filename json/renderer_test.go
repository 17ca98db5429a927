//go:build test

package json_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/oy3o/itemcodec"
	"github.com/oy3o/itemcodec/json"
)

type RendererTestSuite struct {
	suite.Suite
}

func TestRendererTestSuite(t *testing.T) {
	suite.Run(t, new(RendererTestSuite))
}

func (s *RendererTestSuite) render(build func(w *itemcodec.Writer) error) string {
	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(json.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(build(w))
	bytes, err := out.Result()
	s.Require().NoError(err)
	return string(bytes)
}

func (s *RendererTestSuite) TestWritesScalars() {
	s.Equal("null", s.render(func(w *itemcodec.Writer) error { return w.WriteNull() }))
	s.Equal("true", s.render(func(w *itemcodec.Writer) error { return w.WriteBool(true) }))
	s.Equal("42", s.render(func(w *itemcodec.Writer) error { return w.WriteInt(42) }))
	s.Equal(`"hi"`, s.render(func(w *itemcodec.Writer) error { return w.WriteString("hi") }))
}

func (s *RendererTestSuite) TestEscapesSpecialCharacters() {
	got := s.render(func(w *itemcodec.Writer) error { return w.WriteString("a\n\"b\"\t") })
	s.Equal(`"a\n\"b\"\t"`, got)
}

func (s *RendererTestSuite) TestWritesArray() {
	got := s.render(func(w *itemcodec.Writer) error {
		if err := w.WriteArrayStart(); err != nil {
			return err
		}
		if err := w.WriteInt(1); err != nil {
			return err
		}
		if err := w.WriteInt(2); err != nil {
			return err
		}
		return w.WriteBreak()
	})
	s.Equal("[1,2]", got)
}

func (s *RendererTestSuite) TestWritesObject() {
	got := s.render(func(w *itemcodec.Writer) error {
		if err := w.WriteMapStart(); err != nil {
			return err
		}
		if err := w.WriteString("a"); err != nil {
			return err
		}
		if err := w.WriteInt(1); err != nil {
			return err
		}
		if err := w.WriteString("b"); err != nil {
			return err
		}
		if err := w.WriteBool(false); err != nil {
			return err
		}
		return w.WriteBreak()
	})
	s.Equal(`{"a":1,"b":false}`, got)
}

func (s *RendererTestSuite) TestNestedObjectAndArray() {
	got := s.render(func(w *itemcodec.Writer) error {
		if err := w.WriteMapStart(); err != nil {
			return err
		}
		if err := w.WriteString("items"); err != nil {
			return err
		}
		if err := w.WriteArrayStart(); err != nil {
			return err
		}
		if err := w.WriteInt(1); err != nil {
			return err
		}
		if err := w.WriteInt(2); err != nil {
			return err
		}
		if err := w.WriteBreak(); err != nil {
			return err
		}
		return w.WriteBreak()
	})
	s.Equal(`{"items":[1,2]}`, got)
}

func (s *RendererTestSuite) TestRoundTripsThroughParser() {
	text := s.render(func(w *itemcodec.Writer) error {
		if err := w.WriteMapStart(); err != nil {
			return err
		}
		if err := w.WriteString("n"); err != nil {
			return err
		}
		if err := w.WriteDouble(1.5); err != nil {
			return err
		}
		return w.WriteBreak()
	})

	p := json.NewParser(itemcodec.NewSliceInput([]byte(text)), nil)
	r, err := itemcodec.NewReader(p, nil)
	s.Require().NoError(err)
	_, _, err = r.ReadMapOpen()
	s.Require().NoError(err)
	key, err := r.ReadString()
	s.Require().NoError(err)
	s.Equal("n", key)
	item, err := r.ReadNext()
	s.Require().NoError(err)
	s.Equal(itemcodec.ItemNumberString, item)
	s.Equal("1.5", r.Receptacle().String())
	done, err := r.TryReadBreak()
	s.Require().NoError(err)
	s.True(done)
}

func (s *RendererTestSuite) TestBytesNotSupportedAsIndefinite() {
	out := itemcodec.NewChunkedOutput()
	rnd := json.NewRenderer(out)
	err := rnd.OnBytesStart()
	s.Error(err)
}
