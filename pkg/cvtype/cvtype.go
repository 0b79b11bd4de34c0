// Package cvtype implements the Type Reconstructor (spec §4.3) together
// with the Declaration Factory (spec §4.4). The two are mutually
// recursive in the source this is grounded on
// (original_source/DebugEngine/MagoNatDE/ExprContext.cpp's
// GetTypeFromTypeSymbol family and CVDecls.cpp's TypeCVDecl::GetType call
// back into NewStruct/NewEnum), so they live in one package rather than
// two that would import each other.
package cvtype

import (
	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/decl"
	"github.com/jtang613/cvprobe/pkg/decl/ctxhandle"
	"github.com/jtang613/cvprobe/pkg/typeenv"
)

// DefaultDepthLimit bounds type-graph recursion (§4.3: "bound recursion
// ... when depth exceeds a configurable limit (default 256)").
const DefaultDepthLimit = 256

// OEM vendor/sub-id constants (§6.4).
const (
	oemVendorD  = 0x42
	oemDArray   = 1
	oemAArray   = 2
	oemDelegate = 3
)

// Resolver is the combined Type Reconstructor + Declaration Factory for
// one Expression Context.
type Resolver struct {
	session    cvsession.Session
	env        *typeenv.Env
	ctx        ctxhandle.Handle
	depthLimit int
}

// New returns a Resolver bound to a session, type environment, and the
// owning context's weak handle.
func New(session cvsession.Session, env *typeenv.Env, ctx ctxhandle.Handle) *Resolver {
	return &Resolver{session: session, env: env, ctx: ctx, depthLimit: DefaultDepthLimit}
}

// TypeOf reconstructs the semantic Type for a debug-info type handle.
func (r *Resolver) TypeOf(th cvsession.TypeHandle) (*typeenv.Type, error) {
	return r.typeOf(th, 0)
}

func (r *Resolver) typeOf(th cvsession.TypeHandle, depth int) (*typeenv.Type, error) {
	if depth > r.depthLimit {
		return nil, cverrors.Wrap(cverrors.InvalidState, "type graph recursion limit exceeded")
	}
	symInfo, view, err := r.session.GetTypeInfo(th)
	if err != nil {
		return nil, cverrors.Wrap(cverrors.NotFound, "type handle lookup")
	}

	switch view.GetSymTag() {
	case cvsession.SymTagBaseType:
		basic, ok := view.GetBasicType()
		if !ok {
			return nil, cverrors.Wrap(cverrors.NotFound, "base type has no basic_id")
		}
		size, ok := view.GetLength()
		if !ok {
			return nil, cverrors.Wrap(cverrors.NotFound, "base type has no size")
		}
		t, ok := BasicTypeOf(r.env, basic, size)
		if !ok {
			return nil, cverrors.Wrapf(cverrors.NotFound, "unmatched basic type (id=%d, size=%d)", basic, size)
		}
		return t, nil

	case cvsession.SymTagPointerType:
		elemTH, ok := view.GetType()
		if !ok {
			return nil, cverrors.Wrap(cverrors.InvalidState, "pointer type has no pointee")
		}
		elem, err := r.typeOf(elemTH, depth+1)
		if err != nil {
			return nil, err
		}
		return r.env.NewPointer(elem), nil

	case cvsession.SymTagArrayType:
		elemTH, ok := view.GetType()
		if !ok {
			return nil, cverrors.Wrap(cverrors.InvalidState, "array type has no element type")
		}
		elem, err := r.typeOf(elemTH, depth+1)
		if err != nil {
			return nil, err
		}
		count, ok := view.GetCount()
		if !ok {
			return nil, cverrors.Wrap(cverrors.InvalidState, "array type has no element count")
		}
		return r.env.NewSArray(elem, uint64(count)), nil

	case cvsession.SymTagFunctionType:
		return r.functionType(view, depth)

	case cvsession.SymTagUDT:
		kind, ok := view.GetUdtKind()
		if !ok || (kind != cvsession.UdtStruct && kind != cvsession.UdtClass && kind != cvsession.UdtUnion) {
			return nil, cverrors.Wrap(cverrors.NotFound, "unsupported UDT kind")
		}
		d, err := r.declForUDTOrEnum(th, symInfo, view, false)
		if err != nil {
			return nil, err
		}
		return d.Type()

	case cvsession.SymTagEnum:
		d, err := r.declForUDTOrEnum(th, symInfo, view, true)
		if err != nil {
			return nil, err
		}
		return d.Type()

	case cvsession.SymTagTypedef:
		return nil, cverrors.Wrap(cverrors.NotFound, "typedef is not a valid type-layer node")

	case cvsession.SymTagCustomType:
		return r.oemType(view, depth)

	case cvsession.SymTagManaged:
		return nil, cverrors.Wrap(cverrors.NotFound, "managed types are unsupported")

	default:
		return nil, cverrors.Wrap(cverrors.NotFound, "unrecognized type tag")
	}
}

func (r *Resolver) functionType(view cvsession.ISymbolInfo, depth int) (*typeenv.Type, error) {
	retTH, ok := view.GetType()
	if !ok {
		return nil, cverrors.Wrap(cverrors.InvalidState, "function type has no return type")
	}
	ret, err := r.typeOf(retTH, depth+1)
	if err != nil {
		return nil, err
	}

	paramListTH, ok := view.GetParamList()
	if !ok {
		return r.env.NewFunction(ret, nil), nil
	}
	_, paramListView, err := r.session.GetTypeInfo(paramListTH)
	if err != nil {
		return nil, cverrors.Wrap(cverrors.NotFound, "parameter list lookup")
	}
	paramTHs, ok := paramListView.GetTypes()
	if !ok {
		return r.env.NewFunction(ret, nil), nil
	}
	params := r.env.NewParams(len(paramTHs))
	for i, pth := range paramTHs {
		pt, err := r.typeOf(pth, depth+1)
		if err != nil {
			return nil, err
		}
		params[i] = r.env.NewParam(pt)
	}
	return r.env.NewFunction(ret, params), nil
}

func (r *Resolver) oemType(view cvsession.ISymbolInfo, depth int) (*typeenv.Type, error) {
	oemID, ok := view.GetOemId()
	if !ok || oemID != oemVendorD {
		return nil, cverrors.Wrap(cverrors.NotFound, "unrecognized OEM vendor")
	}
	subID, ok := view.GetOemSymbolId()
	if !ok {
		return nil, cverrors.Wrap(cverrors.NotFound, "OEM type has no sub-id")
	}
	types, ok := view.GetTypes()
	if !ok || len(types) != 2 {
		return nil, cverrors.Wrap(cverrors.NotFound, "OEM type requires exactly two referenced types")
	}

	switch subID {
	case oemDArray:
		elem, err := r.typeOf(types[1], depth+1)
		if err != nil {
			return nil, err
		}
		return r.env.NewDArray(elem), nil
	case oemAArray:
		key, err := r.typeOf(types[0], depth+1)
		if err != nil {
			return nil, err
		}
		value, err := r.typeOf(types[1], depth+1)
		if err != nil {
			return nil, err
		}
		return r.env.NewAArray(value, key), nil
	case oemDelegate:
		fn, err := r.typeOf(types[1], depth+1)
		if err != nil {
			return nil, err
		}
		return r.env.NewDelegate(fn), nil
	default:
		return nil, cverrors.Wrapf(cverrors.NotFound, "unrecognized OEM sub-id %d", subID)
	}
}

// declForUDTOrEnum builds (or would rebuild, since the environment does
// not cache across calls here) the Type-variant Declaration for a UDT or
// enum type handle and returns it; its Type() lazily calls NewStruct or
// NewEnum with itself as the weak back-reference.
func (r *Resolver) declForUDTOrEnum(th cvsession.TypeHandle, symInfo cvsession.SymInfoData, view cvsession.ISymbolInfo, isEnum bool) (*decl.Declaration, error) {
	var d *decl.Declaration
	materialize := func() (*typeenv.Type, error) {
		if isEnum {
			return r.env.NewEnum(d), nil
		}
		return r.env.NewStruct(d), nil
	}
	d = decl.NewTypeDecl(r.ctx, symInfo, view, th, materialize)
	return d, nil
}

// declForReferent produces the referenced type's declaration for typedef
// elision (§4.4): only UDT and enum referents have one. It builds a fresh
// Type-variant declaration on every call (see declForUDTOrEnum), so the
// result is not pointer-identical to any declaration handed out earlier
// for the same type.
func (r *Resolver) declForReferent(th cvsession.TypeHandle, symInfo cvsession.SymInfoData, view cvsession.ISymbolInfo) (*decl.Declaration, bool) {
	switch view.GetSymTag() {
	case cvsession.SymTagUDT:
		d, err := r.declForUDTOrEnum(th, symInfo, view, false)
		if err != nil {
			return nil, false
		}
		return d, true
	case cvsession.SymTagEnum:
		d, err := r.declForUDTOrEnum(th, symInfo, view, true)
		if err != nil {
			return nil, false
		}
		return d, true
	default:
		return nil, false
	}
}

// permittedGeneralLocations are the location kinds a General (Data or
// Function) declaration may carry (§4.4).
var permittedGeneralLocations = map[cvsession.LocationKind]bool{
	cvsession.LocIsRegRel:       true,
	cvsession.LocIsBitField:     true,
	cvsession.LocIsConstant:     true,
	cvsession.LocIsEnregistered: true,
	cvsession.LocIsStatic:       true,
	cvsession.LocIsThisRel:      true,
	cvsession.LocIsTLS:          true,
}

// DeclFromSymHandle is decl_of(SymHandle) (§4.4): Data/Function build a
// General declaration, Typedef resolves through declFromTypedefSymbol,
// anything else fails.
func (r *Resolver) DeclFromSymHandle(sh cvsession.SymHandle) (*decl.Declaration, error) {
	symInfo, view, err := r.session.GetSymbolInfo(sh)
	if err != nil {
		return nil, cverrors.Wrap(cverrors.NotFound, "symbol handle lookup")
	}
	switch view.GetSymTag() {
	case cvsession.SymTagData, cvsession.SymTagFunction:
		return r.declFromDataOrFunction(symInfo, view)
	case cvsession.SymTagTypedef:
		return r.declFromTypedefSymbol(symInfo, view)
	default:
		return nil, cverrors.Wrap(cverrors.NotFound, "symbol is not a data, function, or typedef")
	}
}

func (r *Resolver) declFromDataOrFunction(symInfo cvsession.SymInfoData, view cvsession.ISymbolInfo) (*decl.Declaration, error) {
	loc, ok := view.GetLocation()
	if !ok || !permittedGeneralLocations[loc] {
		return nil, cverrors.Wrap(cverrors.NotFound, "unsupported location kind")
	}
	typeHandle, ok := view.GetType()
	if !ok {
		return nil, cverrors.Wrap(cverrors.InvalidState, "symbol has no type")
	}
	typ, err := r.TypeOf(typeHandle)
	if err != nil {
		return nil, err
	}
	dataKind, _ := view.GetDataKind()
	return decl.NewGeneral(r.ctx, symInfo, view, typ, decl.KindFromDataKind(dataKind)), nil
}

func (r *Resolver) declFromTypedefSymbol(symInfo cvsession.SymInfoData, view cvsession.ISymbolInfo) (*decl.Declaration, error) {
	refTH, ok := view.GetType()
	if !ok {
		return nil, cverrors.Wrap(cverrors.InvalidState, "typedef has no referenced type")
	}
	refType, err := r.TypeOf(refTH)
	if err != nil {
		return nil, err
	}

	typedefName, ok := view.GetName()
	if !ok {
		return nil, cverrors.Wrap(cverrors.InvalidState, "typedef has no name")
	}

	refSymInfo, refView, err := r.session.GetTypeInfo(refTH)
	if err == nil {
		if refName, ok := refView.GetName(); ok && refName == typedefName {
			if d, ok := r.declForReferent(refTH, refSymInfo, refView); ok {
				return d, nil
			}
		}
	}

	return decl.NewGeneral(r.ctx, symInfo, view, r.env.NewTypedef(typedefName, refType), decl.KindVar), nil
}

// DeclFromTypeHandle is the decl_of(TypeHandle) variant (§4.4). Field-list
// hits reached through a type handle are either Data (a UDT data member)
// or a nested UDT/Enum/Typedef (a nested field/type per §4.5 step 3);
// both are wrapped the same way a SymHandle would be. Enum members do not
// come through here: the locator wraps them with DeclForEnumMember.
func (r *Resolver) DeclFromTypeHandle(th cvsession.TypeHandle) (*decl.Declaration, error) {
	symInfo, view, err := r.session.GetTypeInfo(th)
	if err != nil {
		return nil, cverrors.Wrap(cverrors.NotFound, "type handle lookup")
	}
	switch view.GetSymTag() {
	case cvsession.SymTagData:
		return r.declFromDataOrFunction(symInfo, view)
	case cvsession.SymTagUDT:
		return r.declForUDTOrEnum(th, symInfo, view, false)
	case cvsession.SymTagEnum:
		return r.declForUDTOrEnum(th, symInfo, view, true)
	case cvsession.SymTagTypedef:
		return r.declFromTypedefSymbol(symInfo, view)
	default:
		return nil, cverrors.Wrap(cverrors.NotFound, "type handle does not name a data symbol or nested type")
	}
}

// DeclForEnumMember builds the General declaration for an enum member
// hit (§4.5 step 3): its Type is the *enclosing enum's* Type, not the
// member's own underlying integer type, and its constant value comes
// from the member's own SymInfoData/view.
func (r *Resolver) DeclForEnumMember(enumType *typeenv.Type, memberSymInfo cvsession.SymInfoData, memberView cvsession.ISymbolInfo) *decl.Declaration {
	return decl.NewGeneral(r.ctx, memberSymInfo, memberView, enumType, decl.KindConstant)
}
