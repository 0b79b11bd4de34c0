// Package decl implements the core's Declaration (spec §3) and its two
// constructors, NewGeneral and NewTypeDecl; the Declaration Factory that
// decides which to build (spec §4.4) lives in package cvtype. Declaration
// is a tagged variant rather
// than a class hierarchy: Variant distinguishes the General case (data,
// parameter, local, constant, typedef) from the Type case (UDT or enum),
// mirroring MagoEE's GeneralCVDecl/TypeCVDecl split without the
// inheritance (see DESIGN.md, "Polymorphism over declarations").
package decl

import (
	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/decl/ctxhandle"
	"github.com/jtang613/cvprobe/pkg/typeenv"
)

// Variant discriminates the two Declaration shapes.
type Variant int

const (
	General Variant = iota
	TypeVariant
)

// Kind supplements the tagged variant with the original DataKind
// classification (CVDecl::IsField/IsVar/IsConstant/IsType in the Mago-D
// source), exposed read-only so a caller can report what a resolved name
// is without re-deriving it from the raw SymInfoData.
type Kind int

const (
	KindVar Kind = iota
	KindField
	KindConstant
	KindType
)

// Declaration is the core's stable, named, typed object (spec §3).
// Once constructed its SymInfo/view and Type are immutable; Name is
// computed at most once.
type Declaration struct {
	ctx ctxhandle.Handle

	variant Variant
	kind    Kind

	symInfo cvsession.SymInfoData
	view    cvsession.ISymbolInfo

	typ *typeenv.Type // strong; General sets this at construction

	name    string
	nameSet bool

	// TypeVariant only: the retained TypeHandle used for member lookup,
	// and a lazily-materialized Type (built on first Type() call so that
	// a deeply nested UDT graph isn't walked eagerly).
	typeHandle  cvsession.TypeHandle
	materialize func() (*typeenv.Type, error)
}

// DeclRefMarker lets *Declaration satisfy declref.Ref so a Tstruct/Tenum
// Type can carry a weak back-reference to the declaration that
// materialized it (see pkg/decl/declref).
func (d *Declaration) DeclRefMarker() {}

// Variant reports which of the two tagged shapes d is.
func (d *Declaration) Variant() Variant { return d.variant }

// Kind reports the supplemented DataKind-derived classification.
func (d *Declaration) Kind() Kind { return d.kind }

// Type returns d's reconstructed type (invariant 1: always non-nil once
// constructed). For the Type variant this triggers lazy materialization
// on first call.
func (d *Declaration) Type() (*typeenv.Type, error) {
	if d.typ != nil {
		return d.typ, nil
	}
	if d.materialize == nil {
		return nil, cverrors.Wrap(cverrors.InvalidState, "declaration has no type")
	}
	t, err := d.materialize()
	if err != nil {
		return nil, err
	}
	d.typ = t
	return t, nil
}

// TypeHandle returns the retained type handle for the Type variant; it is
// the zero value for General declarations.
func (d *Declaration) TypeHandle() cvsession.TypeHandle { return d.typeHandle }

// View returns the captured ISymbolInfo view.
func (d *Declaration) View() cvsession.ISymbolInfo { return d.view }

// SymInfo returns the captured SymInfoData copy.
func (d *Declaration) SymInfo() cvsession.SymInfoData { return d.symInfo }

// Name returns the symbol's name, computed at most once.
func (d *Declaration) Name() (string, error) {
	if d.nameSet {
		return d.name, nil
	}
	name, ok := d.view.GetName()
	if !ok {
		return "", cverrors.Wrap(cverrors.InvalidState, "symbol has no name")
	}
	d.name = name
	d.nameSet = true
	return d.name, nil
}

// Offset returns the raw debug-info offset (supplemented feature #2,
// CVDecl::GetOffset): meaningful for RegRel and member declarations,
// zero-value otherwise.
func (d *Declaration) Offset() (int64, bool) { return d.view.GetOffset() }

// ContextAlive reports whether the owning Expression Context is still
// alive; callers must not dereference a declaration's address/value once
// this turns false.
func (d *Declaration) ContextAlive() bool { return d.ctx.Live() }

// KindFromDataKind derives the supplemented Kind classification from a raw
// debug-info DataKind (CVDecl::IsField/IsVar/IsConstant in the source).
func KindFromDataKind(dk cvsession.DataKind) Kind {
	switch dk {
	case cvsession.DataIsConstant:
		return KindConstant
	case cvsession.DataIsMember, cvsession.DataIsStaticMember:
		return KindField
	default:
		return KindVar
	}
}

// NewGeneral builds a General-variant declaration (data, parameter,
// local, constant, or an elided/wrapped typedef) whose Type is already
// known.
func NewGeneral(ctx ctxhandle.Handle, symInfo cvsession.SymInfoData, view cvsession.ISymbolInfo, typ *typeenv.Type, kind Kind) *Declaration {
	return &Declaration{
		ctx:     ctx,
		variant: General,
		kind:    kind,
		symInfo: symInfo,
		view:    view,
		typ:     typ,
	}
}

// NewTypeDecl builds a Type-variant declaration (UDT or enum) carrying a
// TypeHandle for member lookup; materialize is invoked at most once, on
// the first Type() call, typically closing over env.NewStruct(self) or
// env.NewEnum(self).
func NewTypeDecl(ctx ctxhandle.Handle, symInfo cvsession.SymInfoData, view cvsession.ISymbolInfo, th cvsession.TypeHandle, materialize func() (*typeenv.Type, error)) *Declaration {
	return &Declaration{
		ctx:         ctx,
		variant:     TypeVariant,
		kind:        KindType,
		symInfo:     symInfo,
		view:        view,
		typeHandle:  th,
		materialize: materialize,
	}
}
