// Package cvsession declares the external interfaces the core consumes
// (spec §6.1): a symbol session, the register set, the debugger proxy, and
// the thread/module handles. Implementations of Session are expected to
// decode raw debug-info on demand (CodeView/PDB, in this module's case);
// the core only ever sees opaque handles and the ISymbolInfo view.
//
// pkg/pdb/session.go adapts gopdb's MSF/TPI/DBI/CodeView decoding into a
// concrete Session.
package cvsession

import "github.com/jtang613/cvprobe/pkg/typeenv"

// SymHandle is an opaque, positioned symbol reference.
type SymHandle struct {
	// ModIndex identifies which module symbol stream (or the global
	// stream, via GlobalModule) the symbol lives in.
	ModIndex int
	// Offset is the byte offset of the symbol record within that stream.
	Offset int
}

// GlobalModule is the ModIndex used for symbols living in the global
// symbol record stream rather than a per-module one.
const GlobalModule = -1

// TypeHandle is an opaque, positioned type reference: a TPI type index.
type TypeHandle struct {
	Index uint32
}

// SymTag classifies what a symbol or type record represents.
type SymTag int

const (
	SymTagNull SymTag = iota
	SymTagData
	SymTagFunction
	SymTagUDT
	SymTagEnum
	SymTagTypedef
	SymTagBaseClass
	SymTagFunctionType
	SymTagPointerType
	SymTagArrayType
	SymTagBaseType
	SymTagCustomType // OEM
	SymTagManaged
)

// DataKind classifies a Data symbol further (local, global, member, ...).
type DataKind int

const (
	DataIsUnknown DataKind = iota
	DataIsLocal
	DataIsStaticLocal
	DataIsParam
	DataIsObjectPtr
	DataIsFileStatic
	DataIsGlobal
	DataIsMember
	DataIsStaticMember
	DataIsConstant
)

// LocationKind discriminates where a symbol's storage lives (spec §3).
type LocationKind int

const (
	LocIsNull LocationKind = iota
	LocIsRegRel
	LocIsStatic
	LocIsTLS
	LocIsConstant
	LocIsEnregistered
	LocIsBitField
	LocIsThisRel
)

// UdtKind discriminates struct/union/class for a SymTagUDT record.
type UdtKind int

const (
	UdtStruct UdtKind = iota
	UdtClass
	UdtUnion
)

// BasicType is the debug-info basic_id used by the §6.3 basic type map.
type BasicType int

const (
	BasicNone BasicType = iota
	BasicVoid
	BasicChar
	BasicWChar
	BasicInt
	BasicLong
	BasicUInt
	BasicULong
	BasicFloat
	BasicBool
	BasicComplex
)

// SymInfoData is the small value record a symbol or type record is
// captured into; ISymbolInfo views are materialized from it.
type SymInfoData struct {
	Raw any // session-private payload, opaque to the core
}

// ISymbolInfo is the capability view over a captured SymInfoData (§6.1).
// Every accessor returns ok=false when the attribute is absent rather
// than panicking, so callers can map missing-attribute to InvalidState.
type ISymbolInfo interface {
	GetName() (string, bool)
	GetSymTag() SymTag
	GetDataKind() (DataKind, bool)
	GetLocation() (LocationKind, bool)
	GetRegister() (int, bool)
	GetOffset() (int64, bool)
	GetAddressOffset() (uint32, bool)
	GetAddressSegment() (uint16, bool)
	GetValue() (uint64, bool) // constant value
	GetType() (TypeHandle, bool)
	GetLength() (uint64, bool)
	GetCount() (uint32, bool)
	GetBasicType() (BasicType, bool)
	GetUdtKind() (UdtKind, bool)
	GetFieldList() (TypeHandle, bool)
	GetParamList() (TypeHandle, bool)
	GetTypes() ([]TypeHandle, bool) // for OEM custom types, arglists
	GetOemId() (uint32, bool)
	GetOemSymbolId() (uint32, bool)
}

// ChildTypeScope is an iteration cursor returned by SetChildTypeScope,
// walked with NextType (mirrors FindFirstSymbol/GetCurrentSymbol for
// types).
type ChildTypeScope struct {
	FieldList TypeHandle
	Index     int
}

// SymbolEnum is an iteration cursor over one global symbol heap.
type SymbolEnum struct {
	Heap  int
	Index int
	Valid bool
}

// Session is the external symbol session (§6.1). A failure to acquire one
// from a module is an immediate NotFound per §5.
type Session interface {
	GetSymbolInfo(h SymHandle) (SymInfoData, ISymbolInfo, error)
	GetTypeInfo(h TypeHandle) (SymInfoData, ISymbolInfo, error)
	GetTypeFromTypeIndex(index uint32) (TypeHandle, error)

	FindChildSymbol(block SymHandle, name string) (SymHandle, error)
	FindChildType(fieldList TypeHandle, name string) (TypeHandle, error)

	SetChildTypeScope(fieldList TypeHandle) (ChildTypeScope, error)
	NextType(scope *ChildTypeScope) (TypeHandle, bool)

	FindFirstSymbol(heap int, name string) (SymbolEnum, error)
	GetCurrentSymbol(e SymbolEnum) (SymHandle, error)
	HeapCount() int

	GetVAFromSecOffset(section uint16, offset uint32) (uint64, error)

	CopySymbolInfo(h SymHandle) (SymInfoData, error)
}

// RegisterKind is the storage kind a RegisterSet reports for a value.
type RegisterKind int

const (
	RegInt8 RegisterKind = iota
	RegInt16
	RegInt32
	RegInt64
	RegFloat32
	RegFloat64
	RegFloat80
)

// RegisterValue is one register read (§6.1).
type RegisterValue struct {
	Kind  RegisterKind
	Bytes []byte
}

// RegisterSet exposes register reads for the frame's register snapshot.
type RegisterSet interface {
	GetValue(regID int) (RegisterValue, error)
}

// DebuggerProxy is the transport to the target process (§6.1).
type DebuggerProxy interface {
	ReadMemory(process uintptr, addr uint64, length uint32) (data []byte, unreadableTail uint32, err error)
	WriteMemory(process uintptr, addr uint64, data []byte) (written uint32, err error)
}

// Thread exposes what the core needs to resolve TLS (§6.1, §6.5).
type Thread interface {
	GetCoreThread() uintptr
	GetTlsBase() uint64 // TEB base
	GetDebuggerProxy() DebuggerProxy
	GetCoreProcess() uintptr
}

// Module is the owning module; it is asked for its session (§5: a
// failure to acquire the session from the module is an immediate
// NotFound).
type Module interface {
	GetSession() (Session, error)
}

// TypeEnvProvider lets cvsession-level code obtain the shared type
// environment without importing typeenv's constructors redundantly; most
// packages import typeenv directly instead.
type TypeEnvProvider interface {
	TypeEnv() *typeenv.Env
}
