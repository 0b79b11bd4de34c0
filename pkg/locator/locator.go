// Package locator implements the Symbol Locator (spec §4.5): frame-
// relative find_object, get_this, and UDT/enum member lookup with
// base-class-chain traversal. Grounded on
// original_source/DebugEngine/MagoNatDE/ExprContext.cpp's FindObject/
// GetThis and CVDecls.cpp's TypeCVDecl::FindObject.
package locator

import (
	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/cvtype"
	"github.com/jtang613/cvprobe/pkg/decl"
)

// thisName is the literal identifier get_this looks up in the current
// block (§4.5).
const thisName = "this"

// Locator finds declarations by name, scoped to one frame's block and the
// session's global symbol heaps.
type Locator struct {
	session  cvsession.Session
	resolver *cvtype.Resolver
	block    cvsession.SymHandle
}

// New returns a Locator bound to a session, the Declaration Factory, and
// the frame's current lexical block.
func New(session cvsession.Session, resolver *cvtype.Resolver, block cvsession.SymHandle) *Locator {
	return &Locator{session: session, resolver: resolver, block: block}
}

// FindObject resolves name against the current block, then (if not
// found there) against every global symbol heap in order (§4.5). Only
// the immediate block is consulted — not the lexical hierarchy outward —
// per the source's open TODO, preserved here deliberately (see
// DESIGN.md's Open Question decisions).
func (l *Locator) FindObject(name string) (*decl.Declaration, error) {
	if sh, err := l.findLocal(name); err == nil {
		return l.resolver.DeclFromSymHandle(sh)
	}

	sh, err := l.findGlobal(name)
	if err != nil {
		return nil, cverrors.Wrap(cverrors.NotFound, "find_object: "+name)
	}
	return l.resolver.DeclFromSymHandle(sh)
}

// findLocal queries only the immediate block, matching the source's
// current (TODO-marked, intentionally unresolved) scoping.
func (l *Locator) findLocal(name string) (cvsession.SymHandle, error) {
	sh, err := l.session.FindChildSymbol(l.block, name)
	if err != nil {
		return cvsession.SymHandle{}, cverrors.Wrap(cverrors.NotFound, "find_local: "+name)
	}
	return sh, nil
}

// findGlobal iterates symbol heaps 0..HeapCount, returning the first hit
// with no overload resolution (§4.5 step 3).
func (l *Locator) findGlobal(name string) (cvsession.SymHandle, error) {
	heaps := l.session.HeapCount()
	for heap := 0; heap < heaps; heap++ {
		e, err := l.session.FindFirstSymbol(heap, name)
		if err != nil {
			continue
		}
		sh, err := l.session.GetCurrentSymbol(e)
		if err != nil {
			continue
		}
		return sh, nil
	}
	return cvsession.SymHandle{}, cverrors.Wrap(cverrors.NotFound, "find_global: "+name)
}

// GetThis resolves the literal name "this" as a direct child of the
// current block (§4.5). get_super and get_return_type are unsupported at
// this layer and are not implemented here; they are delegated upward by
// the Expression Context.
func (l *Locator) GetThis() (*decl.Declaration, error) {
	sh, err := l.findLocal(thisName)
	if err != nil {
		return nil, cverrors.Wrap(cverrors.NotFound, "get_this")
	}
	return l.resolver.DeclFromSymHandle(sh)
}

// FindMember implements TypeCVDecl::FindObject (§4.5): member lookup in
// a UDT or enum, following base classes when the immediate field list
// does not contain name. udtDecl must be a Type-variant declaration.
func (l *Locator) FindMember(udtDecl *decl.Declaration, name string) (*decl.Declaration, error) {
	if udtDecl.Variant() != decl.TypeVariant {
		return nil, cverrors.Wrap(cverrors.NotFound, "find_member: not a UDT/enum declaration")
	}

	fieldList, ok := udtDecl.View().GetFieldList()
	if !ok {
		return nil, cverrors.Wrap(cverrors.NotFound, "find_member: no field list")
	}

	isEnum := udtDecl.View().GetSymTag() == cvsession.SymTagEnum

	for {
		hitTH, err := l.session.FindChildType(fieldList, name)
		if err == nil {
			return l.wrapMemberHit(udtDecl, hitTH, isEnum)
		}

		// Not found directly: the field list's first entry must be a
		// BaseClass record (base classes are guaranteed first).
		scope, err := l.session.SetChildTypeScope(fieldList)
		if err != nil {
			return nil, cverrors.Wrap(cverrors.NotFound, "find_member: "+name)
		}
		firstTH, ok := l.session.NextType(&scope)
		if !ok {
			return nil, cverrors.Wrap(cverrors.NotFound, "find_member: "+name)
		}
		_, firstView, err := l.session.GetTypeInfo(firstTH)
		if err != nil || firstView.GetSymTag() != cvsession.SymTagBaseClass {
			return nil, cverrors.Wrap(cverrors.NotFound, "find_member: base-class chain broken for "+name)
		}
		baseUdtTH, ok := firstView.GetType()
		if !ok {
			return nil, cverrors.Wrap(cverrors.NotFound, "find_member: base class has no type")
		}
		_, baseUdtView, err := l.session.GetTypeInfo(baseUdtTH)
		if err != nil {
			return nil, cverrors.Wrap(cverrors.NotFound, "find_member: base class lookup")
		}
		nextFieldList, ok := baseUdtView.GetFieldList()
		if !ok {
			return nil, cverrors.Wrap(cverrors.NotFound, "find_member: base class has no field list")
		}
		fieldList = nextFieldList
	}
}

func (l *Locator) wrapMemberHit(udtDecl *decl.Declaration, hitTH cvsession.TypeHandle, isEnum bool) (*decl.Declaration, error) {
	if isEnum {
		// The hit is an enum member (data): materialize *this* enum's
		// Type (not the underlying int) and build a General declaration
		// carrying it (§4.5 step 3).
		enumType, err := udtDecl.Type()
		if err != nil {
			return nil, err
		}
		memberSymInfo, memberView, err := l.session.GetTypeInfo(hitTH)
		if err != nil {
			return nil, cverrors.Wrap(cverrors.NotFound, "enum member lookup")
		}
		return l.resolver.DeclForEnumMember(enumType, memberSymInfo, memberView), nil
	}
	// A nested field or type: build a declaration from the type handle
	// directly.
	return l.resolver.DeclFromTypeHandle(hitTH)
}
