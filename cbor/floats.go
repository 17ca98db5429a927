package cbor

import (
	"math"

	"github.com/oy3o/itemcodec/internal/halffloat"
)

func halffloatToFloat32(bits uint16) float32 { return halffloat.ToFloat32(bits) }

func float32FromBits(bits uint32) float32 { return math.Float32frombits(bits) }

func float64FromBits(bits uint64) float64 { return math.Float64frombits(bits) }
