package decl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/decl"
)

func TestKindFromDataKind(t *testing.T) {
	cases := []struct {
		dk   cvsession.DataKind
		want decl.Kind
	}{
		{cvsession.DataIsConstant, decl.KindConstant},
		{cvsession.DataIsMember, decl.KindField},
		{cvsession.DataIsStaticMember, decl.KindField},
		{cvsession.DataIsLocal, decl.KindVar},
		{cvsession.DataIsGlobal, decl.KindVar},
		{cvsession.DataIsParam, decl.KindVar},
		{cvsession.DataIsUnknown, decl.KindVar},
	}
	for _, c := range cases {
		assert.Equalf(t, c.want, decl.KindFromDataKind(c.dk), "DataKind(%v)", c.dk)
	}
}
