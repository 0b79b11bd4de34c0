package main

import (
	"github.com/jtang613/cvprobe/pkg/decl"
	"github.com/jtang613/cvprobe/pkg/typeenv"
)

func declKindString(k decl.Kind) string {
	switch k {
	case decl.KindVar:
		return "var"
	case decl.KindField:
		return "field"
	case decl.KindConstant:
		return "constant"
	case decl.KindType:
		return "type"
	default:
		return "unknown"
	}
}

func typeKindString(k typeenv.ENUMTY) string {
	switch k {
	case typeenv.Tnone:
		return "none"
	case typeenv.Tvoid:
		return "void"
	case typeenv.Tint8:
		return "int8"
	case typeenv.Tint16:
		return "int16"
	case typeenv.Tint32:
		return "int32"
	case typeenv.Tint64:
		return "int64"
	case typeenv.Tuns8:
		return "uint8"
	case typeenv.Tuns16:
		return "uint16"
	case typeenv.Tuns32:
		return "uint32"
	case typeenv.Tuns64:
		return "uint64"
	case typeenv.Tbool:
		return "bool"
	case typeenv.Tchar:
		return "char"
	case typeenv.Twchar:
		return "wchar_t"
	case typeenv.Tdchar:
		return "dchar"
	case typeenv.Tfloat32:
		return "float"
	case typeenv.Tfloat64:
		return "double"
	case typeenv.Tfloat80:
		return "long double"
	case typeenv.Timaginary32, typeenv.Timaginary64, typeenv.Timaginary80:
		return "imaginary"
	case typeenv.Tcomplex32, typeenv.Tcomplex64, typeenv.Tcomplex80:
		return "complex"
	case typeenv.Tpointer:
		return "pointer"
	case typeenv.Tsarray:
		return "array"
	case typeenv.Tfunction:
		return "function"
	case typeenv.Tstruct:
		return "struct/union/class"
	case typeenv.Tenum:
		return "enum"
	case typeenv.Ttypedef:
		return "typedef"
	case typeenv.TdarrayT:
		return "dynamic array"
	case typeenv.TaarrayT:
		return "associative array"
	case typeenv.Tdelegate:
		return "delegate"
	default:
		return "unknown"
	}
}
