// Package typeenv implements the semantic Type tree the reconstructor,
// declaration factory, and value binder all build on, plus the Env that
// constructs and interns it. Modeled on MagoEE's ITypeEnv/Type pair, but
// reshaped as a closed Go sum type (ENUMTY discriminator + per-kind
// fields) instead of a C++ class hierarchy — see DESIGN.md for the
// tagged-variant rationale.
package typeenv

import "github.com/jtang613/cvprobe/pkg/decl/declref"

// reexported so callers only need to import typeenv for the Ref type too.
type DeclRef = declref.Ref

// ENUMTY discriminates the Type variants.
type ENUMTY int

const (
	Tnone ENUMTY = iota
	Tvoid
	Tint8
	Tint16
	Tint32
	Tint64
	Tuns8
	Tuns16
	Tuns32
	Tuns64
	Tbool
	Tchar
	Twchar  // 16-bit wide char
	Tdchar  // 32-bit wide char
	Tfloat32
	Tfloat64
	Tfloat80
	Timaginary32
	Timaginary64
	Timaginary80
	Tcomplex32
	Tcomplex64
	Tcomplex80
	Tpointer
	Tsarray
	Tfunction
	Tstruct // also union/class
	Tenum
	Ttypedef
	TdarrayT  // dynamic array
	TaarrayT  // associative array
	Tdelegate
)

// Type is an immutable, value-identity-by-construction node. Composite
// variants (pointer, array, function, typedef, darray, aarray, delegate)
// are built fresh by Env's New* constructors; Env interns only the basic
// scalar kinds, matching how the reconstructor never memoizes composites
// (spec's "the reconstructor does not itself memoize" for the type
// environment to own sharing).
type Type struct {
	Kind ENUMTY

	// Tpointer (pointee), Tsarray (element), Ttypedef (underlying),
	// TdarrayT (element), TaarrayT (value), Tdelegate (underlying
	// function). Basic kinds, including imaginary/complex, leave it nil.
	Next *Type

	// Tsarray length.
	Dim uint64

	// Tfunction.
	FuncRet    *Type
	FuncParams []*Param

	// Tstruct / Tenum: back-reference to the owning declaration. It holds
	// the *decl.Declaration itself behind the declref.Ref interface; no
	// code in the module reads it back (see DESIGN.md "recursive type
	// graph").
	DeclRef declref.Ref

	// Ttypedef.
	Name string

	// TaarrayT.
	KeyType *Type
}

// Param is one entry of a Tfunction's parameter list.
type Param struct {
	Type *Type
}

// IsScalar reports whether the type is read/written directly as a
// fixed-width DataValue (integer, bool, char, pointer, float, imaginary,
// complex) as opposed to an aggregate, dynamic array, associative array,
// or delegate.
func (t *Type) IsScalar() bool {
	switch t.Kind {
	case Tint8, Tint16, Tint32, Tint64,
		Tuns8, Tuns16, Tuns32, Tuns64,
		Tbool, Tchar, Twchar, Tdchar,
		Tfloat32, Tfloat64, Tfloat80,
		Timaginary32, Timaginary64, Timaginary80,
		Tcomplex32, Tcomplex64, Tcomplex80,
		Tpointer:
		return true
	}
	return false
}

// IsDArray reports whether t is a dynamic array.
func (t *Type) IsDArray() bool { return t.Kind == TdarrayT }

// IsAArray reports whether t is an associative array.
func (t *Type) IsAArray() bool { return t.Kind == TaarrayT }

// IsDelegate reports whether t is a delegate.
func (t *Type) IsDelegate() bool { return t.Kind == Tdelegate }

// IsSigned reports whether an integral type is signed. Only meaningful
// for integer kinds.
func (t *Type) IsSigned() bool {
	switch t.Kind {
	case Tint8, Tint16, Tint32, Tint64:
		return true
	}
	return false
}

// Size returns the type's size in bytes, used as the memory read/write
// width and to decide float/complex half-widths; no separate clamp is
// applied, and no scalar kind is wider than 20 bytes. Aggregate
// kinds (Tstruct) return 0 here; the binder never uses Size for them
// because non-scalar reads are no-ops regardless of size.
func (t *Type) Size() uint64 {
	switch t.Kind {
	case Tvoid:
		return 0
	case Tint8, Tuns8, Tbool, Tchar:
		return 1
	case Tint16, Tuns16, Twchar:
		return 2
	case Tint32, Tuns32, Tdchar, Tfloat32, Timaginary32:
		return 4
	case Tint64, Tuns64, Tfloat64, Timaginary64, Tcomplex32:
		return 8
	case Tfloat80, Timaginary80:
		return 10
	case Tcomplex64:
		return 16
	case Tcomplex80:
		return 20
	case Tpointer:
		return 4 // 32-bit x86 target
	case Tsarray:
		return t.Next.Size() * t.Dim
	case TdarrayT:
		return 8 // {uint32 length, void* addr}
	case Tdelegate:
		return 8 // {void* context, void* func}
	}
	return 0
}
