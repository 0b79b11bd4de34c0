package binder

import "encoding/binary"

// floatBytesToFloat80 decodes a little-endian IEEE-754 float of width
// len(data) (4, 8, or already 10) into the canonical 80-bit extended
// internal representation (§4.1: "stored canonically as 80-bit extended
// precision internally").
func floatBytesToFloat80(data []byte) [10]byte {
	switch len(data) {
	case 4:
		return float32BitsTo80(binary.LittleEndian.Uint32(data))
	case 8:
		return float64BitsTo80(binary.LittleEndian.Uint64(data))
	case 10:
		var out [10]byte
		copy(out[:], data)
		return out
	default:
		var out [10]byte
		copy(out[:], data)
		return out
	}
}

// float80ToBytes encodes a canonical 80-bit value back down to the
// target width (4, 8, or 10 bytes) for a write.
func float80ToBytes(f [10]byte, width uint64) []byte {
	switch width {
	case 4:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, float80To32Bits(f))
		return buf
	case 8:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, float80To64Bits(f))
		return buf
	default:
		buf := make([]byte, 10)
		copy(buf, f[:])
		return buf
	}
}

func uint64BitsToFloat80(raw uint64, width uint64) [10]byte {
	switch width {
	case 4:
		return float32BitsTo80(uint32(raw))
	case 8:
		return float64BitsTo80(raw)
	default:
		var out [10]byte
		binary.LittleEndian.PutUint64(out[0:8], raw)
		return out
	}
}

func float32BitsTo80(bits uint32) [10]byte {
	sign := uint64(bits>>31) & 1
	exp := int64((bits >> 23) & 0xFF)
	frac := uint64(bits & 0x7FFFFF)

	var exp80, mantissa uint64
	switch {
	case exp == 0 && frac == 0:
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

func float64BitsTo80(bits uint64) [10]byte {
	sign := (bits >> 63) & 1
	exp := int64((bits >> 52) & 0x7FF)
	frac := bits & 0xFFFFFFFFFFFFF

	var exp80, mantissa uint64
	switch {
	case exp == 0 && frac == 0:
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

func float80To32Bits(f [10]byte) uint32 {
	mantissa := binary.LittleEndian.Uint64(f[0:8])
	signExp := binary.LittleEndian.Uint16(f[8:10])
	sign := uint32(signExp>>15) & 1
	exp80 := int64(signExp & 0x7FFF)

	if exp80 == 0 && mantissa == 0 {
		return sign << 31
	}
	exp32 := exp80 - 16383 + 127
	frac32 := uint32((mantissa << 1) >> 41) // drop explicit integer bit, keep top 23 fraction bits
	if exp32 <= 0 {
		return sign << 31
	}
	if exp32 >= 0xFF {
		return (sign << 31) | (0xFF << 23)
	}
	return (sign << 31) | (uint32(exp32) << 23) | frac32
}

func float80To64Bits(f [10]byte) uint64 {
	mantissa := binary.LittleEndian.Uint64(f[0:8])
	signExp := binary.LittleEndian.Uint16(f[8:10])
	sign := uint64(signExp>>15) & 1
	exp80 := int64(signExp & 0x7FFF)

	if exp80 == 0 && mantissa == 0 {
		return sign << 63
	}
	exp64 := exp80 - 16383 + 1023
	frac64 := (mantissa << 1) >> 12 // drop explicit integer bit, keep top 52 fraction bits
	if exp64 <= 0 {
		return sign << 63
	}
	if exp64 >= 0x7FF {
		return (sign << 63) | (0x7FF << 52)
	}
	return (sign << 63) | (uint64(exp64) << 52) | frac64
}
