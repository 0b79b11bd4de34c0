package regmap_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/regmap"
)

func TestTableSize(t *testing.T) {
	assert.Equal(t, regmap.TableSize, len(regmap.Table))
}

type fakeRegs map[int]cvsession.RegisterValue

func (f fakeRegs) GetValue(regID int) (cvsession.RegisterValue, error) {
	rv, ok := f[regID]
	if !ok {
		return cvsession.RegisterValue{}, assertErr{}
	}
	return rv, nil
}

type assertErr struct{}

func (assertErr) Error() string { return "no such register" }

func identity(r regmap.RegID) int { return int(r) }

func TestReadWidensIntegers(t *testing.T) {
	regs := fakeRegs{
		int(regmap.RegAL): {Kind: cvsession.RegInt8, Bytes: []byte{0x7F}},
	}
	v, err := regmap.Read(regs, 1, identity) // Table[1] == RegAL
	require.NoError(t, err)
	assert.False(t, v.IsFloat80)
	assert.Equal(t, uint64(0x7F), v.Uint64)
}

func TestReadEDXEAXPair(t *testing.T) {
	regs := fakeRegs{
		int(regmap.RegEDX): {Kind: cvsession.RegInt32, Bytes: leU32(0xDEADBEEF)},
		int(regmap.RegEAX): {Kind: cvsession.RegInt32, Bytes: leU32(0xCAFEBABE)},
	}
	v, err := regmap.Read(regs, 144, identity) // Table[144] == RegEDXEAX
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEFCAFEBABE), v.Uint64)
}

func TestReadUnsupportedRegisterNumber(t *testing.T) {
	_, err := regmap.Read(fakeRegs{}, 0, identity) // Table[0] == RegNone
	assert.Error(t, err)

	_, err = regmap.Read(fakeRegs{}, regmap.TableSize, identity)
	assert.Error(t, err)
}

func TestReadWidensFloat32To80(t *testing.T) {
	regs := fakeRegs{
		int(regmap.RegST0): {Kind: cvsession.RegFloat32, Bytes: leU32(math.Float32bits(1.5))},
	}
	v, err := regmap.Read(regs, 128, identity) // Table[128] == RegST0
	require.NoError(t, err)
	assert.True(t, v.IsFloat80)
	// 1.5 = 1.1b * 2^0: exponent biased to 16383, explicit leading 1 bit set.
	exp := binary.LittleEndian.Uint16(v.Bytes[8:10])
	assert.Equal(t, uint16(16383), exp)
	mantissa := binary.LittleEndian.Uint64(v.Bytes[0:8])
	assert.Equal(t, uint64(1)<<63|uint64(1)<<62, mantissa)
}

func leU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
