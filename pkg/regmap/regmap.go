// Package regmap implements the Register Map (spec §4.2), grounded on
// Mago-D's gRegMapX86 table and GetRegValue in
// original_source/DebugEngine/MagoNatDE/ExprContext.cpp: a dense,
// compile-time-sized table from debug-info register numbers to an
// architecture-neutral register id, plus the EDX:EAX synthetic pair.
package regmap

import (
	"encoding/binary"

	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
)

// TableSize is the required cardinality of the register table (spec:
// "exactly 252 (a compile-time assertion)").
const TableSize = 252

// RegID is an architecture-neutral register identity. RegNone marks a
// debug-info register number the table does not support.
type RegID int

const (
	RegNone RegID = iota
	RegEAX
	RegECX
	RegEDX
	RegEBX
	RegESP
	RegEBP
	RegESI
	RegEDI
	RegAX
	RegCX
	RegDX
	RegBX
	RegSP
	RegBP
	RegSI
	RegDI
	RegAL
	RegCL
	RegDL
	RegBL
	RegAH
	RegCH
	RegDH
	RegBH
	RegST0
	RegEDXEAX // synthetic 64-bit pair
)

// Table maps debug-info register numbers (CV_REG_* in CodeView) to RegID.
// Entries left at RegNone are "unsupported" per spec §4.2. The entries
// filled in by init below are: 0 reserved/none, 1-8 the 8-bit registers
// (AL, CL, DL, BL, AH, CH, DH, BH), 9-16 the 16-bit GPRs (AX..DI), 17-24
// the 32-bit GPRs (EAX..EDI), 128 ST0, and 144 the synthetic EDX:EAX
// pair used for 64-bit locals split across two 32-bit registers. Every
// other number maps to RegNone.
var Table [TableSize]RegID

func init() {
	Table[1] = RegAL
	Table[2] = RegCL
	Table[3] = RegDL
	Table[4] = RegBL
	Table[5] = RegAH
	Table[6] = RegCH
	Table[7] = RegDH
	Table[8] = RegBH
	Table[9] = RegAX
	Table[10] = RegCX
	Table[11] = RegDX
	Table[12] = RegBX
	Table[13] = RegSP
	Table[14] = RegBP
	Table[15] = RegSI
	Table[16] = RegDI
	Table[17] = RegEAX
	Table[18] = RegECX
	Table[19] = RegEDX
	Table[20] = RegEBX
	Table[21] = RegESP
	Table[22] = RegEBP
	Table[23] = RegESI
	Table[24] = RegEDI
	Table[128] = RegST0
	Table[144] = RegEDXEAX // CV_REG_EDXEAX
}

// Value is a decoded register value ready to be folded into a DataValue
// by the Value Binder.
type Value struct {
	// Uint64 holds the widened integer value for integral reads and for
	// the synthetic EDXEAX pair.
	Uint64 uint64
	// IsFloat80 is true when Bytes holds a raw (or widened) 80-bit
	// extended-precision float instead of Uint64.
	IsFloat80 bool
	Bytes     [10]byte // valid only when IsFloat80
}

// Read resolves a debug-info register number to its RegID via Table and
// fetches its value from rs, applying the widening rules of §4.2: 8/16/
// 32/64-bit integers widen to 64-bit; 32/64-bit floats widen to 80-bit
// extended; a raw 80-bit float is copied verbatim. The synthetic EDXEAX
// id is handled specially: EDX is read, shifted left 32, OR'd with EAX.
func Read(rs cvsession.RegisterSet, debugRegNum int, regIDOf func(RegID) int) (Value, error) {
	if debugRegNum < 0 || debugRegNum >= TableSize {
		return Value{}, cverrors.Wrapf(cverrors.NotFound, "register number %d out of range", debugRegNum)
	}
	id := Table[debugRegNum]
	if id == RegNone {
		return Value{}, cverrors.Wrapf(cverrors.NotFound, "register number %d is unsupported", debugRegNum)
	}
	if id == RegEDXEAX {
		edx, err := rs.GetValue(regIDOf(RegEDX))
		if err != nil {
			return Value{}, cverrors.Wrap(cverrors.IoError, "reading EDX")
		}
		eax, err := rs.GetValue(regIDOf(RegEAX))
		if err != nil {
			return Value{}, cverrors.Wrap(cverrors.IoError, "reading EAX")
		}
		edxVal, err := widenToUint64(edx)
		if err != nil {
			return Value{}, err
		}
		eaxVal, err := widenToUint64(eax)
		if err != nil {
			return Value{}, err
		}
		return Value{Uint64: (edxVal << 32) | (eaxVal & 0xFFFFFFFF)}, nil
	}

	rv, err := rs.GetValue(regIDOf(id))
	if err != nil {
		return Value{}, cverrors.Wrap(cverrors.IoError, "reading register")
	}
	return widenValue(rv)
}

func widenValue(rv cvsession.RegisterValue) (Value, error) {
	switch rv.Kind {
	case cvsession.RegInt8, cvsession.RegInt16, cvsession.RegInt32, cvsession.RegInt64:
		u, err := widenToUint64(rv)
		if err != nil {
			return Value{}, err
		}
		return Value{Uint64: u}, nil
	case cvsession.RegFloat32:
		if len(rv.Bytes) < 4 {
			return Value{}, cverrors.Wrap(cverrors.PartialCopy, "float32 register")
		}
		bits := binary.LittleEndian.Uint32(rv.Bytes)
		return Value{IsFloat80: true, Bytes: float32BitsTo80(bits)}, nil
	case cvsession.RegFloat64:
		if len(rv.Bytes) < 8 {
			return Value{}, cverrors.Wrap(cverrors.PartialCopy, "float64 register")
		}
		bits := binary.LittleEndian.Uint64(rv.Bytes)
		return Value{IsFloat80: true, Bytes: float64BitsTo80(bits)}, nil
	case cvsession.RegFloat80:
		if len(rv.Bytes) < 10 {
			return Value{}, cverrors.Wrap(cverrors.PartialCopy, "float80 register")
		}
		var b [10]byte
		copy(b[:], rv.Bytes[:10])
		return Value{IsFloat80: true, Bytes: b}, nil
	default:
		return Value{}, cverrors.Wrap(cverrors.NotFound, "unsupported register width")
	}
}

func widenToUint64(rv cvsession.RegisterValue) (uint64, error) {
	switch rv.Kind {
	case cvsession.RegInt8:
		if len(rv.Bytes) < 1 {
			return 0, cverrors.Wrap(cverrors.PartialCopy, "int8 register")
		}
		return uint64(rv.Bytes[0]), nil
	case cvsession.RegInt16:
		if len(rv.Bytes) < 2 {
			return 0, cverrors.Wrap(cverrors.PartialCopy, "int16 register")
		}
		return uint64(binary.LittleEndian.Uint16(rv.Bytes)), nil
	case cvsession.RegInt32:
		if len(rv.Bytes) < 4 {
			return 0, cverrors.Wrap(cverrors.PartialCopy, "int32 register")
		}
		return uint64(binary.LittleEndian.Uint32(rv.Bytes)), nil
	case cvsession.RegInt64:
		if len(rv.Bytes) < 8 {
			return 0, cverrors.Wrap(cverrors.PartialCopy, "int64 register")
		}
		return binary.LittleEndian.Uint64(rv.Bytes), nil
	default:
		return 0, cverrors.Wrap(cverrors.NotFound, "register is not integral")
	}
}

// float32BitsTo80 widens an IEEE-754 single to 80-bit extended precision
// (1 sign, 15 exponent, explicit integer bit + 63 fraction bits), stored
// little-endian as x87 natively lays it out.
func float32BitsTo80(bits uint32) [10]byte {
	sign := uint64(bits>>31) & 1
	exp := int64((bits >> 23) & 0xFF)
	frac := uint64(bits & 0x7FFFFF)

	var exp80 uint64
	var mantissa uint64
	switch {
	case exp == 0 && frac == 0:
		exp80, mantissa = 0, 0
	case exp == 0xFF:
		exp80 = 0x7FFF
		mantissa = 1 << 63
		if frac != 0 {
			mantissa |= frac << 40
		}
	default:
		exp80 = uint64(exp-127+16383) & 0x7FFF
		mantissa = (1 << 63) | (frac << 40)
	}

	var out [10]byte
	binary.LittleEndian.PutUint64(out[0:8], mantissa)
	binary.LittleEndian.PutUint16(out[8:10], uint16((sign<<15)|exp80))
	return out
}

// float64BitsTo80 widens an IEEE-754 double to 80-bit extended precision.
func float64BitsTo80(bits uint64) [10]byte {
	sign := (bits >> 63) & 1
	exp := int64((bits >> 52) & 0x7FF)
	frac := bits & 0xFFFFFFFFFFFFF

	var exp80 uint64
	var mantissa uint64
	switch {
	case exp == 0 && frac == 0:
		exp80, mantissa = 0, 0
	case exp == 0x7FF:
		exp80 = 0x7FFF
		mantissa = 1 << 63
		if frac != 0 {
			mantissa |= frac << 11
		}
	default:
		exp80 = uint64(exp-1023+16383) & 0x7FFF
		mantissa = (1 << 63) | (frac << 11)
	}

	var out [10]byte
	binary.LittleEndian.PutUint64(out[0:8], mantissa)
	binary.LittleEndian.PutUint16(out[8:10], uint16((sign<<15)|exp80))
	return out
}
