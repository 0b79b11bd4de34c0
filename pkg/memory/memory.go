// Package memory implements the Memory Bridge (spec §4.1): typed read/
// write of fixed-width scalars and composite records against the target
// address space via the external debugger proxy. Grounded on
// ExprContext::ReadMemory in
// original_source/DebugEngine/MagoNatDE/ExprContext.cpp, which treats a
// short read as PartialCopy even when some bytes were retrieved.
package memory

import (
	"encoding/binary"

	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
)

// Bridge reads and writes typed values against one thread's process via
// its debugger proxy.
type Bridge struct {
	thread cvsession.Thread
}

// New returns a Bridge bound to a thread's process/proxy.
func New(thread cvsession.Thread) *Bridge {
	return &Bridge{thread: thread}
}

// Read returns the full byte image at addr, or PartialCopy if the proxy
// returned fewer bytes than requested (the valid prefix is still
// returned alongside the error, per §4.1: "if the read is short, signal
// PartialCopy even if some bytes were retrieved").
func (b *Bridge) Read(addr uint64, size uint32) ([]byte, error) {
	proxy := b.thread.GetDebuggerProxy()
	if proxy == nil {
		return nil, cverrors.Wrap(cverrors.IoError, "no debugger proxy")
	}
	data, unreadableTail, err := proxy.ReadMemory(b.thread.GetCoreProcess(), addr, size)
	if err != nil {
		return data, cverrors.Wrap(cverrors.IoError, "read memory")
	}
	if unreadableTail != 0 || uint32(len(data)) < size {
		return data, cverrors.Wrapf(cverrors.PartialCopy, "short read at 0x%x: got %d of %d", addr, len(data), size)
	}
	return data, nil
}

// Write writes bytes at addr; a short write is PartialCopy.
func (b *Bridge) Write(addr uint64, data []byte) error {
	proxy := b.thread.GetDebuggerProxy()
	if proxy == nil {
		return cverrors.Wrap(cverrors.IoError, "no debugger proxy")
	}
	written, err := proxy.WriteMemory(b.thread.GetCoreProcess(), addr, data)
	if err != nil {
		return cverrors.Wrap(cverrors.IoError, "write memory")
	}
	if int(written) != len(data) {
		return cverrors.Wrapf(cverrors.PartialCopy, "short write at 0x%x: wrote %d of %d", addr, written, len(data))
	}
	return nil
}

// ReadUint32 reads exactly 4 little-endian bytes at addr, the width every
// TEB/TLS-walking step in the binder needs (§6.5: "All TEB reads are 4
// bytes").
func (b *Bridge) ReadUint32(addr uint64) (uint32, error) {
	data, err := b.Read(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(data), nil
}

// ReadInt decodes size little-endian bytes at addr as a 64-bit integer,
// zero- or sign-extended per signed.
func (b *Bridge) ReadInt(addr uint64, size uint32, signed bool) (uint64, error) {
	data, err := b.Read(addr, size)
	if err != nil {
		return 0, err
	}
	return decodeInt(data, signed), nil
}

func decodeInt(data []byte, signed bool) uint64 {
	var u uint64
	for i := len(data) - 1; i >= 0; i-- {
		u = (u << 8) | uint64(data[i])
	}
	if !signed || len(data) == 8 {
		return u
	}
	bits := uint(len(data)) * 8
	signBit := uint64(1) << (bits - 1)
	if u&signBit != 0 {
		u |= ^uint64(0) << bits
	}
	return u
}
