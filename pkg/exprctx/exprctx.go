// Package exprctx implements the Expression Context (spec §4.7): the
// single object the external parser/evaluator is handed, aggregating the
// Symbol Locator, Declaration Factory, Value Binder, and a fresh type
// environment per frame. Grounded on the ExprContext class in
// original_source/DebugEngine/MagoNatDE/ExprContext.cpp, minus process
// control, breakpoints, and expression parsing (all out of scope per
// spec §1).
package exprctx

import (
	"github.com/jtang613/cvprobe/pkg/binder"
	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/cvtype"
	"github.com/jtang613/cvprobe/pkg/decl"
	"github.com/jtang613/cvprobe/pkg/decl/ctxhandle"
	"github.com/jtang613/cvprobe/pkg/locator"
	"github.com/jtang613/cvprobe/pkg/memory"
	"github.com/jtang613/cvprobe/pkg/regmap"
	"github.com/jtang613/cvprobe/pkg/typeenv"
)

// Frame is the immutable-after-init state an Expression Context holds
// (spec §3): module, thread, function/block handles, program counter,
// and register set.
type Frame struct {
	Module   cvsession.Module
	Thread   cvsession.Thread
	Function cvsession.SymHandle
	Block    cvsession.SymHandle
	PC       uint64
	Regs     cvsession.RegisterSet
}

// RegIDMapper adapts a regmap.RegID to the numeric id a particular
// RegisterSet implementation expects; sessions provide this since the
// mapping is target/session-specific.
type RegIDMapper func(regmap.RegID) int

// Context is constructed per frame (spec §4.7). It owns a fresh type
// environment, so types created during one evaluation are scoped to this
// context's lifetime. It keeps no separate name/string table: names are
// held as plain Go strings by the declarations themselves.
type Context struct {
	frame    Frame
	handle   ctxhandle.Handle
	env      *typeenv.Env
	session  cvsession.Session
	resolver *cvtype.Resolver
	locator  *locator.Locator
	binder   *binder.Binder
}

// New constructs an Expression Context for frame. A failure to acquire
// the session from the module is an immediate NotFound (§5).
func New(frame Frame, regIDOf RegIDMapper) (*Context, error) {
	session, err := frame.Module.GetSession()
	if err != nil || session == nil {
		return nil, cverrors.Wrap(cverrors.NotFound, "expression context: module has no session")
	}

	handle := ctxhandle.New()
	env := typeenv.NewEnv()
	resolver := cvtype.New(session, env, handle)
	loc := locator.New(session, resolver, frame.Block)
	vb := binder.New(session, frame.Thread, frame.Regs, regIDOf)

	return &Context{
		frame:    frame,
		handle:   handle,
		env:      env,
		session:  session,
		resolver: resolver,
		locator:  loc,
		binder:   vb,
	}, nil
}

// Close tears down the context; no Declaration it produced may be used
// afterward (spec §3: "the back-reference is never used after the
// context is torn down").
func (c *Context) Close() { c.handle.Close() }

// TypeEnv returns the context's type environment.
func (c *Context) TypeEnv() *typeenv.Env { return c.env }

// FindObject is the §6.2 public surface entry point.
func (c *Context) FindObject(name string) (*decl.Declaration, error) {
	return c.locator.FindObject(name)
}

// GetThis resolves the literal name "this" in the current block.
func (c *Context) GetThis() (*decl.Declaration, error) {
	return c.locator.GetThis()
}

// GetSuper and GetReturnType are unsupported at this layer; they are
// delegated upward by the surrounding debugger (spec §4.5).
func (c *Context) GetSuper() (*decl.Declaration, error) {
	return nil, cverrors.Wrap(cverrors.NotImplemented, "get_super")
}

func (c *Context) GetReturnType() (*typeenv.Type, error) {
	return nil, cverrors.Wrap(cverrors.NotImplemented, "get_return_type")
}

// GetAddress resolves a declaration's effective address.
func (c *Context) GetAddress(d *decl.Declaration) (uint64, error) {
	if d == nil {
		return 0, cverrors.Wrap(cverrors.InvalidArgument, "GetAddress: nil declaration")
	}
	if !d.ContextAlive() {
		return 0, cverrors.Wrap(cverrors.InvalidState, "GetAddress: context torn down")
	}
	return c.binder.AddressOf(d)
}

// GetValue reads a declaration's current value.
func (c *Context) GetValue(d *decl.Declaration) (binder.DataValue, error) {
	if d == nil {
		return binder.DataValue{}, cverrors.Wrap(cverrors.InvalidArgument, "GetValue: nil declaration")
	}
	if !d.ContextAlive() {
		return binder.DataValue{}, cverrors.Wrap(cverrors.InvalidState, "GetValue: context torn down")
	}
	return c.binder.GetValueByDecl(d)
}

// GetValueAt reads size/type-decoded bytes directly from an address.
func (c *Context) GetValueAt(addr uint64, typ *typeenv.Type) (binder.DataValue, error) {
	return c.binder.GetValueByAddr(addr, typ)
}

// SetValue writes a declaration's value.
func (c *Context) SetValue(d *decl.Declaration, v binder.DataValue) error {
	if d == nil {
		return cverrors.Wrap(cverrors.InvalidArgument, "SetValue: nil declaration")
	}
	if !d.ContextAlive() {
		return cverrors.Wrap(cverrors.InvalidState, "SetValue: context torn down")
	}
	return c.binder.SetValueByDecl(d, v)
}

// SetValueAt writes size/type-encoded bytes directly to an address.
func (c *Context) SetValueAt(addr uint64, typ *typeenv.Type, v binder.DataValue) error {
	return c.binder.SetValueByAddr(addr, typ, v)
}

// ReadMemory is a thin passthrough to the Memory Bridge for callers that
// need raw bytes (e.g. walking a dynamic array's backing store).
func (c *Context) ReadMemory(addr uint64, size uint32) ([]byte, error) {
	return memory.New(c.frame.Thread).Read(addr, size)
}

// ParseText is delegated entirely to the external parser; the core only
// supplies binding (via FindObject/GetValue/SetValue above) once the
// parser has produced an AST. There is no expression grammar here (spec
// §1 Non-goals: "expression parsing and binding, AST evaluation" are
// external collaborators), so this always reports NotImplemented rather
// than guessing a grammar.
func (c *Context) ParseText(text string, flags uint32, radix int) (any, error) {
	return nil, cverrors.Wrap(cverrors.NotImplemented, "ParseText: expression parsing is an external collaborator")
}
