package binder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jtang613/cvprobe/pkg/typeenv"
)

func TestFloat32RoundTripThrough80(t *testing.T) {
	for _, f := range []float32{0, 1, -1, 1.5, 3.14159, -123.25, math.MaxFloat32} {
		bits := math.Float32bits(f)
		f80 := float32BitsTo80(bits)
		back := float80To32Bits(f80)
		assert.Equalf(t, bits, back, "round-trip of %v", f)
	}
}

func TestFloat64RoundTripThrough80(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 1.5, 3.14159265358979, -123456.789, math.MaxFloat64} {
		bits := math.Float64bits(f)
		f80 := float64BitsTo80(bits)
		back := float80To64Bits(f80)
		assert.Equalf(t, bits, back, "round-trip of %v", f)
	}
}

func TestFloatBytesToFloat80Width10IsVerbatim(t *testing.T) {
	var raw [10]byte
	for i := range raw {
		raw[i] = byte(i + 1)
	}
	got := floatBytesToFloat80(raw[:])
	assert.Equal(t, raw, got)
}

func TestFloat80ToBytesNarrowsBackToRequestedWidth(t *testing.T) {
	f80 := float64BitsTo80(math.Float64bits(2.5))
	b4 := float80ToBytes(f80, 4)
	assert.Len(t, b4, 4)
	b8 := float80ToBytes(f80, 8)
	assert.Len(t, b8, 8)
}

func TestSignExtendRespectsTypeSize(t *testing.T) {
	env := typeenv.NewEnv()

	i8 := env.GetType(typeenv.Tint8)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), signExtend(0xFF, i8))
	assert.Equal(t, uint64(0x7F), signExtend(0x7F, i8))

	u8 := env.GetType(typeenv.Tuns8)
	assert.Equal(t, uint64(0xFF), signExtend(0xFF, u8))

	i32 := env.GetType(typeenv.Tint32)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), signExtend(0xFFFFFFFF, i32))
}
