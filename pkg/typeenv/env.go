package typeenv

import "github.com/jtang613/cvprobe/pkg/decl/declref"

// Env is the type environment: it interns the basic scalar kinds (there is
// exactly one Type value per basic ENUMTY) and constructs composite types
// on demand. One Env is created fresh per Expression Context (§4.7), so
// identifiers created during one evaluation never leak into another.
type Env struct {
	basics map[ENUMTY]*Type
	void   *Type
	vptr   *Type
}

// NewEnv returns a fresh, empty type environment.
func NewEnv() *Env {
	e := &Env{basics: make(map[ENUMTY]*Type)}
	e.void = e.intern(Tvoid)
	e.vptr = &Type{Kind: Tpointer, Next: e.void}
	return e
}

func (e *Env) intern(k ENUMTY) *Type {
	if t, ok := e.basics[k]; ok {
		return t
	}
	t := &Type{Kind: k}
	e.basics[k] = t
	return t
}

// GetType returns the interned Type for a basic ENUMTY (void, signed/
// unsigned ints, bool, char8/16/32, float, imaginary, complex). Composite
// kinds are not valid arguments; callers use the New* constructors below
// for those.
func (e *Env) GetType(basic ENUMTY) *Type {
	switch basic {
	case Tvoid, Tint8, Tint16, Tint32, Tint64,
		Tuns8, Tuns16, Tuns32, Tuns64,
		Tbool, Tchar, Twchar, Tdchar,
		Tfloat32, Tfloat64, Tfloat80,
		Timaginary32, Timaginary64, Timaginary80,
		Tcomplex32, Tcomplex64, Tcomplex80:
		return e.intern(basic)
	}
	return nil
}

// GetVoidPointerType returns the shared void* type. The binder decodes
// dynamic-array and delegate pointer fields as raw 32-bit words and does
// not use it.
func (e *Env) GetVoidPointerType() *Type { return e.vptr }

// NewPointer builds a pointer-to-T type. Not interned: two pointers to the
// same T are distinct Type values, matching the reconstructor's "does not
// itself memoize" contract — only the environment's basic-type table is
// shared.
func (e *Env) NewPointer(elem *Type) *Type {
	return &Type{Kind: Tpointer, Next: elem}
}

// NewSArray builds a fixed-size array type of n elements of elem.
func (e *Env) NewSArray(elem *Type, n uint64) *Type {
	return &Type{Kind: Tsarray, Next: elem, Dim: n}
}

// NewFunction builds a function type. Calling convention and varargs are
// not represented (§4.3: "Calling convention and varargs are not
// represented").
func (e *Env) NewFunction(ret *Type, params []*Param) *Type {
	return &Type{Kind: Tfunction, FuncRet: ret, FuncParams: params}
}

// NewParams allocates a parameter slice of the given length for callers
// building one parameter at a time via NewParam.
func (e *Env) NewParams(n int) []*Param { return make([]*Param, n) }

// NewParam builds a single function parameter.
func (e *Env) NewParam(t *Type) *Param { return &Param{Type: t} }

// NewStruct builds a struct/union/class type, carrying a back-reference
// to the declaration that owns its field list. The locator does member
// lookup from the declaration's own field list and does not read it.
func (e *Env) NewStruct(owner declref.Ref) *Type {
	return &Type{Kind: Tstruct, DeclRef: owner}
}

// NewEnum builds an enum type, carrying a weak back-reference to the
// declaration that owns its field list.
func (e *Env) NewEnum(owner declref.Ref) *Type {
	return &Type{Kind: Tenum, DeclRef: owner}
}

// NewTypedef wraps an existing type under a new name. Per §4.4, the
// declaration factory elides the typedef when its name equals a UDT or
// enum referent's name; it calls this when the names differ, or when the
// referent is not a UDT or enum.
func (e *Env) NewTypedef(name string, underlying *Type) *Type {
	return &Type{Kind: Ttypedef, Name: name, Next: underlying}
}

// NewDArray builds a dynamic-array-of-elem type.
func (e *Env) NewDArray(elem *Type) *Type {
	return &Type{Kind: TdarrayT, Next: elem}
}

// NewAArray builds an associative-array type mapping key to value.
func (e *Env) NewAArray(value, key *Type) *Type {
	return &Type{Kind: TaarrayT, Next: value, KeyType: key}
}

// NewDelegate builds a delegate-to-function type.
func (e *Env) NewDelegate(fn *Type) *Type {
	return &Type{Kind: Tdelegate, Next: fn}
}
