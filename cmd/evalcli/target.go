package main

import (
	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
	"github.com/jtang613/cvprobe/pkg/regmap"
)

// noProcessThread stands in for a live debuggee: evalcli resolves symbols
// and addresses against a PDB alone, with no attached process behind it.
// Its DebuggerProxy refuses every memory access with NotImplemented so
// GetAddress/static resolution still work while GetValue fails cleanly
// instead of reading garbage.
type noProcessThread struct{}

func (noProcessThread) GetCoreThread() uintptr                    { return 0 }
func (noProcessThread) GetTlsBase() uint64                        { return 0 }
func (noProcessThread) GetCoreProcess() uintptr                   { return 0 }
func (noProcessThread) GetDebuggerProxy() cvsession.DebuggerProxy { return noProcessProxy{} }

type noProcessProxy struct{}

func (noProcessProxy) ReadMemory(process uintptr, addr uint64, length uint32) ([]byte, uint32, error) {
	return nil, length, cverrors.Wrap(cverrors.NotImplemented, "no attached process: memory is unreadable")
}

func (noProcessProxy) WriteMemory(process uintptr, addr uint64, data []byte) (uint32, error) {
	return 0, cverrors.Wrap(cverrors.NotImplemented, "no attached process: memory is not writable")
}

// noProcessRegs backs register-relative/enregistered locals, which also
// need a live thread evalcli doesn't have.
type noProcessRegs struct{}

func (noProcessRegs) GetValue(regID int) (cvsession.RegisterValue, error) {
	return cvsession.RegisterValue{}, cverrors.Wrap(cverrors.NotImplemented, "no attached process: registers are unavailable")
}

// identityRegIDMapper is the trivial regmap.RegID -> debug-info register
// id mapping; with no live RegisterSet behind it the exact mapping never
// matters, but Binder requires one to construct.
func identityRegIDMapper(r regmap.RegID) int { return int(r) }
