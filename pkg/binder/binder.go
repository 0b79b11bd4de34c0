// Package binder implements the Value Binder (spec §4.6): address
// resolution from a declaration's location kind, and typed read/write of
// a DataValue by declaration or by raw address+type. Grounded on
// ExprContext::GetAddress/GetValue/SetValue in
// original_source/DebugEngine/MagoNatDE/ExprContext.cpp.
package binder

import (
	"encoding/binary"

	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/decl"
	"github.com/jtang613/cvprobe/pkg/memory"
	"github.com/jtang613/cvprobe/pkg/regmap"
	"github.com/jtang613/cvprobe/pkg/typeenv"
)

// TEB field offsets (§6.5: "32-bit Windows-style TEB").
const (
	tebOffsetThreadLocalStoragePointer = 0x2C
	tebOffsetTlsSlots                  = 0xE10
)

// DataValue is the tagged union the binder decodes into and encodes from
// (spec §3).
type DataValueKind int

const (
	VInteger DataValueKind = iota
	VAddress
	VFloat80
	VComplex80
	VDArray
	VDelegate
)

type DataValue struct {
	Kind DataValueKind

	// VInteger: raw 64-bit storage, sign interpreted by the type.
	UInt64 uint64

	// VAddress: pointer/associative-array address.
	Address uint64

	// VFloat80: 80-bit extended precision, little-endian x87 layout.
	Float80 [10]byte

	// VComplex80: two halves, each half-size of the complex type.
	ComplexRe, ComplexIm [10]byte

	// VDArray.
	Length  uint64
	DataPtr uint64

	// VDelegate.
	ContextAddr, FuncAddr uint64
}

// Binder performs address resolution and typed memory access for one
// Expression Context's frame.
type Binder struct {
	session  cvsession.Session
	thread   cvsession.Thread
	regs     cvsession.RegisterSet
	bridge   *memory.Bridge
	regIDOf  func(regmap.RegID) int
	voidPtr  *typeenv.Type
	archSize uint64 // pointer size in bytes, 4 on x86
}

// New returns a Binder bound to a session, thread (for TLS/memory), and
// register set. regIDOf maps a regmap.RegID to the numeric id the
// RegisterSet expects (session-specific).
func New(session cvsession.Session, thread cvsession.Thread, regs cvsession.RegisterSet, regIDOf func(regmap.RegID) int) *Binder {
	return &Binder{
		session:  session,
		thread:   thread,
		regs:     regs,
		bridge:   memory.New(thread),
		regIDOf:  regIDOf,
		archSize: 4,
	}
}

// AddressOf implements address_of(decl) (§4.6).
func (b *Binder) AddressOf(d *decl.Declaration) (uint64, error) {
	loc, ok := d.View().GetLocation()
	if !ok {
		return 0, cverrors.Wrap(cverrors.InvalidState, "declaration has no location")
	}
	switch loc {
	case cvsession.LocIsRegRel:
		return b.addressOfRegRel(d)
	case cvsession.LocIsStatic:
		return b.addressOfStatic(d)
	case cvsession.LocIsTLS:
		return b.addressOfTLS(d)
	default:
		return 0, cverrors.Wrap(cverrors.NotFound, "address_of: unsupported location kind")
	}
}

func (b *Binder) addressOfRegRel(d *decl.Declaration) (uint64, error) {
	regNum, ok := d.View().GetRegister()
	if !ok {
		return 0, cverrors.Wrap(cverrors.InvalidState, "RegRel declaration has no register")
	}
	rv, err := regmap.Read(b.regs, regNum, b.regIDOf)
	if err != nil {
		return 0, err
	}
	if rv.IsFloat80 {
		return 0, cverrors.Wrap(cverrors.InvalidState, "RegRel register did not yield an integer")
	}
	offset, ok := d.View().GetOffset()
	if !ok {
		return 0, cverrors.Wrap(cverrors.InvalidState, "RegRel declaration has no offset")
	}
	return uint64(int64(rv.Uint64) + offset), nil
}

func (b *Binder) addressOfStatic(d *decl.Declaration) (uint64, error) {
	section, ok := d.View().GetAddressSegment()
	if !ok {
		return 0, cverrors.Wrap(cverrors.InvalidState, "Static declaration has no section")
	}
	offset, ok := d.View().GetAddressOffset()
	if !ok {
		return 0, cverrors.Wrap(cverrors.InvalidState, "Static declaration has no offset")
	}
	va, err := b.session.GetVAFromSecOffset(section, offset)
	if err != nil {
		return 0, cverrors.Wrap(cverrors.NotFound, "section/offset has no VA mapping")
	}
	if va == 0 {
		return 0, cverrors.Wrap(cverrors.NotFound, "section/offset mapped to a zero VA")
	}
	return va, nil
}

// addressOfTLS implements the §4.6/§6.5 TEB-walking algorithm: only TLS
// slot 0, only a 32-bit Windows-style TEB.
func (b *Binder) addressOfTLS(d *decl.Declaration) (uint64, error) {
	offset, ok := d.View().GetAddressOffset()
	if !ok {
		return 0, cverrors.Wrap(cverrors.InvalidState, "TLS declaration has no offset")
	}

	tebBase := b.thread.GetTlsBase()
	tlsPtrAddr := tebBase + tebOffsetThreadLocalStoragePointer
	tlsPtr, err := b.bridge.ReadUint32(tlsPtrAddr)
	if err != nil {
		return 0, err
	}

	tlsArrayAddr := uint64(tlsPtr)
	if tlsPtr == 0 || uint64(tlsPtr) == tlsPtrAddr {
		// Self-referential or unset: fall back to TEB+TlsSlots.
		tlsArrayAddr = tebBase + tebOffsetTlsSlots
	}

	slot0, err := b.bridge.ReadUint32(tlsArrayAddr)
	if err != nil {
		return 0, err
	}

	return uint64(slot0) + uint64(offset), nil
}

// GetValueByDecl implements the "Read by declaration" rules of §4.6.
func (b *Binder) GetValueByDecl(d *decl.Declaration) (DataValue, error) {
	loc, ok := d.View().GetLocation()
	if !ok {
		return DataValue{}, cverrors.Wrap(cverrors.InvalidState, "declaration has no location")
	}
	typ, err := d.Type()
	if err != nil {
		return DataValue{}, err
	}

	switch loc {
	case cvsession.LocIsRegRel, cvsession.LocIsStatic, cvsession.LocIsTLS:
		addr, err := b.AddressOf(d)
		if err != nil {
			return DataValue{}, err
		}
		return b.GetValueByAddr(addr, typ)

	case cvsession.LocIsConstant:
		return b.constantValue(d, typ)

	case cvsession.LocIsEnregistered:
		regNum, ok := d.View().GetRegister()
		if !ok {
			return DataValue{}, cverrors.Wrap(cverrors.InvalidState, "Enregistered declaration has no register")
		}
		rv, err := regmap.Read(b.regs, regNum, b.regIDOf)
		if err != nil {
			return DataValue{}, err
		}
		if rv.IsFloat80 {
			return DataValue{Kind: VFloat80, Float80: rv.Bytes}, nil
		}
		return DataValue{Kind: VInteger, UInt64: rv.Uint64}, nil

	default:
		return DataValue{}, cverrors.Wrap(cverrors.NotFound, "GetValue: ThisRel/BitField are not the right entry point")
	}
}

func (b *Binder) constantValue(d *decl.Declaration, typ *typeenv.Type) (DataValue, error) {
	raw, ok := d.View().GetValue()
	if !ok {
		return DataValue{}, cverrors.Wrap(cverrors.InvalidState, "Constant declaration has no value")
	}
	if isFloatKind(typ.Kind) {
		return DataValue{Kind: VFloat80, Float80: uint64BitsToFloat80(raw, typ.Size())}, nil
	}
	return DataValue{Kind: VInteger, UInt64: signExtend(raw, typ)}, nil
}

// GetValueByAddr implements the "Read by address + type" rules of §4.6.
func (b *Binder) GetValueByAddr(addr uint64, typ *typeenv.Type) (DataValue, error) {
	if !typ.IsScalar() && !typ.IsDArray() && !typ.IsAArray() && !typ.IsDelegate() {
		// Aggregate: no scalar read, succeed with empty value.
		return DataValue{}, nil
	}

	switch {
	case typ.Kind == typeenv.Tpointer || typ.IsAArray():
		v, err := b.bridge.ReadInt(addr, uint32(b.archSize), false)
		if err != nil {
			return DataValue{}, err
		}
		return DataValue{Kind: VAddress, Address: v}, nil

	case isIntegralKind(typ.Kind):
		v, err := b.bridge.ReadInt(addr, uint32(typ.Size()), typ.IsSigned())
		if err != nil {
			return DataValue{}, err
		}
		return DataValue{Kind: VInteger, UInt64: v}, nil

	case isRealOrImaginaryKind(typ.Kind):
		data, err := b.bridge.Read(addr, uint32(typ.Size()))
		if err != nil {
			return DataValue{}, err
		}
		return DataValue{Kind: VFloat80, Float80: floatBytesToFloat80(data)}, nil

	case isComplexKind(typ.Kind):
		half := typ.Size() / 2
		data, err := b.bridge.Read(addr, uint32(typ.Size()))
		if err != nil {
			return DataValue{}, err
		}
		re := floatBytesToFloat80(data[:half])
		im := floatBytesToFloat80(data[half:])
		return DataValue{Kind: VComplex80, ComplexRe: re, ComplexIm: im}, nil

	case typ.IsDArray():
		data, err := b.bridge.Read(addr, uint32(typ.Size()))
		if err != nil {
			return DataValue{}, err
		}
		length := binary.LittleEndian.Uint32(data[0:4])
		ptr := binary.LittleEndian.Uint32(data[4:8])
		return DataValue{Kind: VDArray, Length: uint64(length), DataPtr: uint64(ptr)}, nil

	case typ.IsDelegate():
		data, err := b.bridge.Read(addr, uint32(typ.Size()))
		if err != nil {
			return DataValue{}, err
		}
		ctxAddr := binary.LittleEndian.Uint32(data[0:4])
		fnAddr := binary.LittleEndian.Uint32(data[4:8])
		return DataValue{Kind: VDelegate, ContextAddr: uint64(ctxAddr), FuncAddr: uint64(fnAddr)}, nil

	default:
		return DataValue{}, cverrors.Wrap(cverrors.NotFound, "GetValueByAddr: undecodable type")
	}
}

// SetValueByDecl is the symmetric inverse of GetValueByDecl (§4.6).
func (b *Binder) SetValueByDecl(d *decl.Declaration, v DataValue) error {
	loc, ok := d.View().GetLocation()
	if !ok {
		return cverrors.Wrap(cverrors.InvalidState, "declaration has no location")
	}
	typ, err := d.Type()
	if err != nil {
		return err
	}

	switch loc {
	case cvsession.LocIsRegRel, cvsession.LocIsStatic, cvsession.LocIsTLS:
		addr, err := b.AddressOf(d)
		if err != nil {
			return err
		}
		return b.SetValueByAddr(addr, typ, v)
	case cvsession.LocIsConstant:
		return cverrors.Wrap(cverrors.NotImplemented, "SetValue: cannot write a constant")
	case cvsession.LocIsEnregistered:
		return cverrors.Wrap(cverrors.NotImplemented, "SetValue: writing to an enregistered symbol")
	default:
		return cverrors.Wrap(cverrors.NotFound, "SetValue: ThisRel/BitField are not the right entry point")
	}
}

// SetValueByAddr is the symmetric inverse of GetValueByAddr (§4.6).
func (b *Binder) SetValueByAddr(addr uint64, typ *typeenv.Type, v DataValue) error {
	if !typ.IsScalar() && !typ.IsDArray() && !typ.IsAArray() && !typ.IsDelegate() {
		// Aggregate: succeed as a no-op.
		return nil
	}

	switch {
	case typ.Kind == typeenv.Tpointer || typ.IsAArray():
		return b.writeUint(addr, uint32(b.archSize), v.Address)

	case isIntegralKind(typ.Kind):
		return b.writeUint(addr, uint32(typ.Size()), v.UInt64)

	case isRealOrImaginaryKind(typ.Kind):
		return b.bridge.Write(addr, float80ToBytes(v.Float80, typ.Size()))

	case isComplexKind(typ.Kind):
		half := typ.Size() / 2
		re := float80ToBytes(v.ComplexRe, half)
		im := float80ToBytes(v.ComplexIm, half)
		return b.bridge.Write(addr, append(re, im...))

	case typ.IsDArray():
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(v.Length))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(v.DataPtr))
		return b.bridge.Write(addr, buf)

	case typ.IsDelegate():
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(v.ContextAddr))
		binary.LittleEndian.PutUint32(buf[4:8], uint32(v.FuncAddr))
		return b.bridge.Write(addr, buf)

	default:
		return cverrors.Wrap(cverrors.NotFound, "SetValueByAddr: unencodable type")
	}
}

func (b *Binder) writeUint(addr uint64, size uint32, v uint64) error {
	buf := make([]byte, size)
	switch size {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(buf, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(buf, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(buf, v)
	default:
		return cverrors.Wrapf(cverrors.InvalidArgument, "unsupported integer width %d", size)
	}
	return b.bridge.Write(addr, buf)
}

func isIntegralKind(k typeenv.ENUMTY) bool {
	switch k {
	case typeenv.Tint8, typeenv.Tint16, typeenv.Tint32, typeenv.Tint64,
		typeenv.Tuns8, typeenv.Tuns16, typeenv.Tuns32, typeenv.Tuns64,
		typeenv.Tbool, typeenv.Tchar, typeenv.Twchar, typeenv.Tdchar:
		return true
	}
	return false
}

func isRealOrImaginaryKind(k typeenv.ENUMTY) bool {
	switch k {
	case typeenv.Tfloat32, typeenv.Tfloat64, typeenv.Tfloat80,
		typeenv.Timaginary32, typeenv.Timaginary64, typeenv.Timaginary80:
		return true
	}
	return false
}

func isComplexKind(k typeenv.ENUMTY) bool {
	switch k {
	case typeenv.Tcomplex32, typeenv.Tcomplex64, typeenv.Tcomplex80:
		return true
	}
	return false
}

func isFloatKind(k typeenv.ENUMTY) bool {
	return isRealOrImaginaryKind(k) || isComplexKind(k)
}

func signExtend(raw uint64, typ *typeenv.Type) uint64 {
	if !typ.IsSigned() {
		return raw
	}
	bits := typ.Size() * 8
	if bits == 0 || bits >= 64 {
		return raw
	}
	signBit := uint64(1) << (bits - 1)
	if raw&signBit != 0 {
		return raw | (^uint64(0) << bits)
	}
	return raw
}
