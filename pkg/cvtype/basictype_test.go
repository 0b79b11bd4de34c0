package cvtype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/cvtype"
	"github.com/jtang613/cvprobe/pkg/typeenv"
)

func TestBasicTypeOfKnownPairs(t *testing.T) {
	env := typeenv.NewEnv()
	cases := []struct {
		basic cvsession.BasicType
		size  uint64
		want  typeenv.ENUMTY
	}{
		{cvsession.BasicVoid, 0, typeenv.Tvoid},
		{cvsession.BasicChar, 1, typeenv.Tchar},
		{cvsession.BasicChar, 4, typeenv.Tdchar},
		{cvsession.BasicWChar, 2, typeenv.Twchar},
		{cvsession.BasicInt, 4, typeenv.Tint32},
		{cvsession.BasicInt, 8, typeenv.Tint64},
		{cvsession.BasicLong, 4, typeenv.Tint32},
		{cvsession.BasicUInt, 2, typeenv.Tuns16},
		{cvsession.BasicULong, 8, typeenv.Tuns64},
		{cvsession.BasicFloat, 4, typeenv.Tfloat32},
		{cvsession.BasicFloat, 10, typeenv.Tfloat80},
		{cvsession.BasicBool, 1, typeenv.Tbool},
		{cvsession.BasicComplex, 8, typeenv.Tcomplex32},
		{cvsession.BasicComplex, 16, typeenv.Tcomplex64},
		{cvsession.BasicComplex, 20, typeenv.Tcomplex80},
	}
	for _, c := range cases {
		typ, ok := cvtype.BasicTypeOf(env, c.basic, c.size)
		if assert.Truef(t, ok, "BasicTypeOf(%v, %d)", c.basic, c.size) {
			assert.Equal(t, c.want, typ.Kind)
		}
	}
}

func TestBasicTypeOfUnmatchedPairYieldsNone(t *testing.T) {
	env := typeenv.NewEnv()
	_, ok := cvtype.BasicTypeOf(env, cvsession.BasicInt, 3)
	assert.False(t, ok)

	_, ok = cvtype.BasicTypeOf(env, cvsession.BasicFloat, 16)
	assert.False(t, ok)
}
