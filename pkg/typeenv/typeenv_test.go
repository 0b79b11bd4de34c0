package typeenv_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/jtang613/cvprobe/pkg/typeenv"
)

func TestBasicTypesAreInterned(t *testing.T) {
	env := typeenv.NewEnv()
	a := env.GetType(typeenv.Tint32)
	b := env.GetType(typeenv.Tint32)
	assert.Same(t, a, b)
}

func TestCompositeTypesAreNotInterned(t *testing.T) {
	env := typeenv.NewEnv()
	i32 := env.GetType(typeenv.Tint32)
	p1 := env.NewPointer(i32)
	p2 := env.NewPointer(i32)
	assert.NotSame(t, p1, p2)
	if diff := cmp.Diff(p1, p2); diff != "" {
		t.Errorf("two pointers to the same element should be structurally equal (-p1 +p2):\n%s", diff)
	}
}

func TestSizeAggregateIsZero(t *testing.T) {
	env := typeenv.NewEnv()
	st := env.NewStruct(nil)
	assert.Equal(t, uint64(0), st.Size())
}

func TestSizeScalarKinds(t *testing.T) {
	env := typeenv.NewEnv()
	cases := []struct {
		kind typeenv.ENUMTY
		want uint64
	}{
		{typeenv.Tint8, 1},
		{typeenv.Tint16, 2},
		{typeenv.Tint32, 4},
		{typeenv.Tint64, 8},
		{typeenv.Tfloat80, 10},
		{typeenv.Tcomplex64, 16},
		{typeenv.Tcomplex80, 20},
	}
	for _, c := range cases {
		got := env.GetType(c.kind).Size()
		assert.Equalf(t, c.want, got, "Size(%v)", c.kind)
	}
}

func TestSArraySizeIsElementTimesDim(t *testing.T) {
	env := typeenv.NewEnv()
	elem := env.GetType(typeenv.Tint32)
	arr := env.NewSArray(elem, 10)
	assert.Equal(t, uint64(40), arr.Size())
}

func TestIsScalarExcludesAggregatesAndArrays(t *testing.T) {
	env := typeenv.NewEnv()
	assert.True(t, env.GetType(typeenv.Tint32).IsScalar())
	assert.True(t, env.NewPointer(env.GetType(typeenv.Tvoid)).IsScalar())
	assert.False(t, env.NewStruct(nil).IsScalar())
	assert.False(t, env.NewSArray(env.GetType(typeenv.Tint32), 4).IsScalar())
	assert.False(t, env.NewDArray(env.GetType(typeenv.Tint32)).IsScalar())
}

func TestIsSigned(t *testing.T) {
	env := typeenv.NewEnv()
	assert.True(t, env.GetType(typeenv.Tint32).IsSigned())
	assert.False(t, env.GetType(typeenv.Tuns32).IsSigned())
	assert.False(t, env.GetType(typeenv.Tbool).IsSigned())
}

func TestTypedefNameIsCarried(t *testing.T) {
	env := typeenv.NewEnv()
	underlying := env.GetType(typeenv.Tint32)
	td := env.NewTypedef("INT32", underlying)
	assert.Equal(t, "INT32", td.Name)
	assert.Same(t, underlying, td.Next)
}
