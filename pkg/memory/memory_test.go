package memory_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/memory"
)

// fakeProxy serves reads/writes out of an in-memory byte slice addressed
// from base, truncating (never erroring) when a request runs past the
// end — the shape of a real target running off the end of a mapped page.
type fakeProxy struct {
	base  uint64
	image []byte
}

func (p *fakeProxy) ReadMemory(process uintptr, addr uint64, length uint32) ([]byte, uint32, error) {
	off := int(addr - p.base)
	end := off + int(length)
	if end > len(p.image) {
		end = len(p.image)
	}
	if off > len(p.image) || off < 0 {
		return nil, length, nil
	}
	data := p.image[off:end]
	unreadable := length - uint32(len(data))
	return data, unreadable, nil
}

func (p *fakeProxy) WriteMemory(process uintptr, addr uint64, data []byte) (uint32, error) {
	off := int(addr - p.base)
	n := copy(p.image[off:], data)
	return uint32(n), nil
}

type fakeThread struct {
	proxy *fakeProxy
}

func (fakeThread) GetCoreThread() uintptr                      { return 1 }
func (fakeThread) GetTlsBase() uint64                          { return 0 }
func (fakeThread) GetCoreProcess() uintptr                     { return 1 }
func (t fakeThread) GetDebuggerProxy() cvsession.DebuggerProxy { return t.proxy }

func TestReadFullRequest(t *testing.T) {
	img := make([]byte, 16)
	binary.LittleEndian.PutUint32(img[4:], 0xCAFEBABE)
	th := fakeThread{proxy: &fakeProxy{base: 0x1000, image: img}}
	b := memory.New(th)

	v, err := b.ReadUint32(0x1004)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEBABE), v)
}

func TestReadPastEndIsPartialCopy(t *testing.T) {
	img := make([]byte, 4)
	th := fakeThread{proxy: &fakeProxy{base: 0x1000, image: img}}
	b := memory.New(th)

	_, err := b.Read(0x1000, 8)
	assert.True(t, cverrors.Is(err, cverrors.PartialCopy))
}

func TestWriteThenReadRoundTrips(t *testing.T) {
	img := make([]byte, 8)
	th := fakeThread{proxy: &fakeProxy{base: 0x2000, image: img}}
	b := memory.New(th)

	require.NoError(t, b.Write(0x2000, []byte{1, 2, 3, 4}))
	v, err := b.ReadInt(0x2000, 4, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x04030201), v)
}

func TestReadIntSignExtends(t *testing.T) {
	img := []byte{0xFF}
	th := fakeThread{proxy: &fakeProxy{base: 0x3000, image: img}}
	b := memory.New(th)

	unsigned, err := b.ReadInt(0x3000, 1, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFF), unsigned)

	signed, err := b.ReadInt(0x3000, 1, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), signed)
}
