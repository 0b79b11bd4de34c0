package cvtype

import (
	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/typeenv"
)

// BasicTypeOf implements the §6.3 basic type map: (basic_id, size) →
// ENUMTY. Unmatched combinations return ok=false, which callers convert
// to NotFound (§8 invariant 6: "pairs not listed yield none").
func BasicTypeOf(env *typeenv.Env, basic cvsession.BasicType, size uint64) (*typeenv.Type, bool) {
	switch basic {
	case cvsession.BasicVoid:
		return env.GetType(typeenv.Tvoid), true

	case cvsession.BasicChar:
		switch size {
		case 1:
			return env.GetType(typeenv.Tchar), true
		case 4:
			return env.GetType(typeenv.Tdchar), true
		}

	case cvsession.BasicWChar:
		return env.GetType(typeenv.Twchar), true

	case cvsession.BasicInt, cvsession.BasicLong:
		switch size {
		case 1:
			return env.GetType(typeenv.Tint8), true
		case 2:
			return env.GetType(typeenv.Tint16), true
		case 4:
			return env.GetType(typeenv.Tint32), true
		case 8:
			return env.GetType(typeenv.Tint64), true
		}

	case cvsession.BasicUInt, cvsession.BasicULong:
		switch size {
		case 1:
			return env.GetType(typeenv.Tuns8), true
		case 2:
			return env.GetType(typeenv.Tuns16), true
		case 4:
			return env.GetType(typeenv.Tuns32), true
		case 8:
			return env.GetType(typeenv.Tuns64), true
		}

	case cvsession.BasicFloat:
		switch size {
		case 4:
			return env.GetType(typeenv.Tfloat32), true
		case 8:
			return env.GetType(typeenv.Tfloat64), true
		case 10:
			return env.GetType(typeenv.Tfloat80), true
		}

	case cvsession.BasicBool:
		return env.GetType(typeenv.Tbool), true

	case cvsession.BasicComplex:
		switch size {
		case 8:
			return env.GetType(typeenv.Tcomplex32), true
		case 16:
			return env.GetType(typeenv.Tcomplex64), true
		case 20:
			return env.GetType(typeenv.Tcomplex80), true
		}
	}

	return nil, false
}
