package halffloat

import "testing"

func TestRoundTripCommonValues(t *testing.T) {
	cases := []float32{0, 1, -1, 2, 0.5, 100, -100, 65504}
	for _, f := range cases {
		h, ok := FromFloat32(f)
		if !ok {
			t.Fatalf("FromFloat32(%v) reported inexact", f)
		}
		got := ToFloat32(h)
		if got != f {
			t.Errorf("round trip %v: got %v", f, got)
		}
	}
}

func TestInexactConversionReportsNotOK(t *testing.T) {
	_, ok := FromFloat32(100000.5)
	if ok {
		t.Errorf("expected FromFloat32(100000.5) to report inexact")
	}
}

func TestZeroAndNegativeZero(t *testing.T) {
	h, ok := FromFloat32(float32(0))
	if !ok || ToFloat32(h) != 0 {
		t.Errorf("zero did not round trip")
	}
}
