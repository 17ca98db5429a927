//go:build test

package derive_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/oy3o/itemcodec"
	"github.com/oy3o/itemcodec/cbor"
	"github.com/oy3o/itemcodec/derive"
	"github.com/oy3o/itemcodec/json"
)

type Point struct {
	X int32 `item:"x"`
	Y int32 `item:"y"`
}

type Tagged struct {
	_    struct{} `item:",map"`
	Name string   `item:"name"`
	N    int64    `item:"n"`
}

type Node struct {
	Value    int32
	Children []*Node
}

type Shape interface{ isShape() }

type Circle struct{ Radius float64 }
type Square struct{ Side float64 }

func (Circle) isShape() {}
func (Square) isShape() {}

func init() {
	if err := derive.RegisterSum[Shape](
		derive.Of[Circle]("circle"),
		derive.Of[Square]("square"),
	); err != nil {
		panic(err)
	}
}

type Nullables struct {
	Int    *int32  `item:"int"`
	String *string `item:"string"`
}

type Bar struct {
	Foo *Shape `item:"foo"`
}

type DerivationTestSuite struct {
	suite.Suite
}

func TestDerivationTestSuite(t *testing.T) {
	suite.Run(t, new(DerivationTestSuite))
}

func (s *DerivationTestSuite) TestProductTypeArrayRepresentation() {
	c, err := derive.For[Point]()
	s.Require().NoError(err)

	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(cbor.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(c.Encode(w, Point{X: 3, Y: 4}))
	bytes, err := out.Result()
	s.Require().NoError(err)

	r, err := itemcodec.NewReader(cbor.NewParser(itemcodec.NewSliceInput(bytes), nil), nil)
	s.Require().NoError(err)
	got, err := c.Decode(r)
	s.Require().NoError(err)
	s.Equal(Point{X: 3, Y: 4}, got)
}

func (s *DerivationTestSuite) TestProductTypeMapRepresentation() {
	c, err := derive.For[Tagged]()
	s.Require().NoError(err)

	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(json.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(c.Encode(w, Tagged{Name: "cat", N: 7}))
	bytes, err := out.Result()
	s.Require().NoError(err)
	s.Equal(`{"name":"cat","n":7}`, string(bytes))

	r, err := itemcodec.NewReader(json.NewParser(itemcodec.NewSliceInput(bytes), nil), nil)
	s.Require().NoError(err)
	got, err := c.Decode(r)
	s.Require().NoError(err)
	s.Equal(Tagged{Name: "cat", N: 7}, got)
}

func (s *DerivationTestSuite) TestRecursiveTypeRoundTrips() {
	c, err := derive.For[Node]()
	s.Require().NoError(err)

	tree := Node{Value: 1, Children: []*Node{
		{Value: 2},
		{Value: 3, Children: []*Node{{Value: 4}}},
	}}

	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(cbor.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(c.Encode(w, tree))
	bytes, err := out.Result()
	s.Require().NoError(err)

	r, err := itemcodec.NewReader(cbor.NewParser(itemcodec.NewSliceInput(bytes), nil), nil)
	s.Require().NoError(err)
	got, err := c.Decode(r)
	s.Require().NoError(err)

	s.Require().Len(got.Children, 2)
	s.EqualValues(2, got.Children[0].Value)
	s.EqualValues(3, got.Children[1].Value)
	s.Require().Len(got.Children[1].Children, 1)
	s.EqualValues(4, got.Children[1].Children[0].Value)
}

func (s *DerivationTestSuite) TestSumTypeRoundTrips() {
	c, err := derive.For[Shape]()
	s.Require().NoError(err)

	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(cbor.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(c.Encode(w, Square{Side: 2.5}))
	bytes, err := out.Result()
	s.Require().NoError(err)

	r, err := itemcodec.NewReader(cbor.NewParser(itemcodec.NewSliceInput(bytes), nil), nil)
	s.Require().NoError(err)
	got, err := c.Decode(r)
	s.Require().NoError(err)
	sq, ok := got.(Square)
	s.Require().True(ok)
	s.Equal(2.5, sq.Side)
}

func (s *DerivationTestSuite) TestDecodeRejectsTrailingData() {
	c, err := derive.For[Point]()
	s.Require().NoError(err)

	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(cbor.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(c.Encode(w, Point{X: 3, Y: 4}))
	s.Require().NoError(w.WriteInt(99))
	bytes, err := out.Result()
	s.Require().NoError(err)

	r, err := itemcodec.NewReader(cbor.NewParser(itemcodec.NewSliceInput(bytes), nil), nil)
	s.Require().NoError(err)
	_, err = c.Decode(r)
	s.Error(err)
}

func (s *DerivationTestSuite) TestNullablePointerFieldsDecodeFromNull() {
	c, err := derive.For[Nullables]()
	s.Require().NoError(err)

	r, err := itemcodec.NewReader(json.NewParser(itemcodec.NewSliceInput([]byte(`[null,null]`)), nil), nil)
	s.Require().NoError(err)
	got, err := c.Decode(r)
	s.Require().NoError(err)
	s.Nil(got.Int)
	s.Nil(got.String)
}

func (s *DerivationTestSuite) TestNullablePointerFieldsRoundTrip() {
	c, err := derive.For[Nullables]()
	s.Require().NoError(err)

	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(json.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(c.Encode(w, Nullables{}))
	bytes, err := out.Result()
	s.Require().NoError(err)
	s.Equal(`[null,null]`, string(bytes))

	n := int32(5)
	str := "hi"
	out2 := itemcodec.NewChunkedOutput()
	w2, err := itemcodec.NewWriter(cbor.NewRenderer(out2), nil)
	s.Require().NoError(err)
	s.Require().NoError(c.Encode(w2, Nullables{Int: &n, String: &str}))
	bytes2, err := out2.Result()
	s.Require().NoError(err)

	r2, err := itemcodec.NewReader(cbor.NewParser(itemcodec.NewSliceInput(bytes2), nil), nil)
	s.Require().NoError(err)
	got, err := c.Decode(r2)
	s.Require().NoError(err)
	s.Require().NotNil(got.Int)
	s.EqualValues(5, *got.Int)
	s.Require().NotNil(got.String)
	s.Equal("hi", *got.String)
}

func (s *DerivationTestSuite) TestNullablePointerToSumTypeRoundTrips() {
	c, err := derive.For[Bar]()
	s.Require().NoError(err)

	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(cbor.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(c.Encode(w, Bar{}))
	bytes, err := out.Result()
	s.Require().NoError(err)

	r, err := itemcodec.NewReader(cbor.NewParser(itemcodec.NewSliceInput(bytes), nil), nil)
	s.Require().NoError(err)
	got, err := c.Decode(r)
	s.Require().NoError(err)
	s.Nil(got.Foo)
}

func (s *DerivationTestSuite) TestDoublePointerRoundTripsThroughEachLevel() {
	type doublePointer struct {
		V **int32 `item:"v"`
	}
	c, err := derive.For[doublePointer]()
	s.Require().NoError(err)

	n := int32(9)
	p := &n
	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(cbor.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(c.Encode(w, doublePointer{V: &p}))
	bytes, err := out.Result()
	s.Require().NoError(err)

	r, err := itemcodec.NewReader(cbor.NewParser(itemcodec.NewSliceInput(bytes), nil), nil)
	s.Require().NoError(err)
	got, err := c.Decode(r)
	s.Require().NoError(err)
	s.Require().NotNil(got.V)
	s.Require().NotNil(*got.V)
	s.EqualValues(9, **got.V)
}

func (s *DerivationTestSuite) TestUnknownSubtypeKeyErrors() {
	type other struct{}
	out := itemcodec.NewChunkedOutput()
	w, err := itemcodec.NewWriter(cbor.NewRenderer(out), nil)
	s.Require().NoError(err)
	s.Require().NoError(w.WriteArrayStart())
	s.Require().NoError(w.WriteString("triangle"))
	s.Require().NoError(w.WriteMapStart())
	s.Require().NoError(w.WriteBreak())
	s.Require().NoError(w.WriteBreak())
	bytes, err := out.Result()
	s.Require().NoError(err)

	c, err := derive.For[Shape]()
	s.Require().NoError(err)
	r, err := itemcodec.NewReader(cbor.NewParser(itemcodec.NewSliceInput(bytes), nil), nil)
	s.Require().NoError(err)
	_, err = c.Decode(r)
	s.Error(err)
	_ = other{}
}
