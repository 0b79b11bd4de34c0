package pdb

import (
	"fmt"

	"github.com/jtang613/cvprobe/pkg/pdb/codeview"
	"github.com/jtang613/cvprobe/pkg/pdb/streams"

	"github.com/jtang613/cvprobe/pkg/cverrors"
	"github.com/jtang613/cvprobe/pkg/cvsession"
)

// Session adapts a parsed PDB (MSF/TPI/DBI/CodeView) into cvsession.Session.
// It decodes symbol and type records on demand from an opaque SymHandle/
// TypeHandle rather than building its own shadow tree, mirroring how
// MagoNatDE's CvSymbolInfo wraps DIA/CodeView positions directly.
type Session struct {
	pdb *PDB

	// fieldMembers backs the synthetic TypeHandles minted for field-list
	// entries (LF_MEMBER/LF_BCLASS/LF_NESTTYPE/LF_ENUMERATE): those leaves
	// have no TPI type index of their own, so a handle to one is only
	// resolvable with both the owning field list's index and the leaf's
	// byte offset within it.
	fieldMembers      map[uint32]fieldMemberLoc
	nextFieldMemberID uint32
}

// fieldMemberLoc locates one field-list leaf record.
type fieldMemberLoc struct {
	fieldList uint32
	offset    int
}

// NewSession wraps an opened PDB for use by the core packages.
func NewSession(p *PDB) *Session { return &Session{pdb: p} }

// GetSession implements cvsession.Module for a PDB acting as its own
// module; evalcli uses this when it has only one module to bind against.
func (p *PDB) GetSession() (cvsession.Session, error) {
	return NewSession(p), nil
}

// symStream returns the raw symbol bytes for a module index, or the
// global symbol-record stream for cvsession.GlobalModule.
func (s *Session) symStream(modIndex int) ([]byte, error) {
	if modIndex == cvsession.GlobalModule {
		if s.pdb.dbi == nil || s.pdb.dbi.Header.SymRecordStream == 0xFFFF {
			return nil, fmt.Errorf("no global symbol stream")
		}
		stream, err := s.pdb.msf.Stream(int(s.pdb.dbi.Header.SymRecordStream))
		if err != nil {
			return nil, err
		}
		return stream.ReadAll()
	}
	if s.pdb.dbi == nil || modIndex < 0 || modIndex >= len(s.pdb.dbi.Modules) {
		return nil, fmt.Errorf("module index out of range: %d", modIndex)
	}
	mod := s.pdb.dbi.Modules[modIndex]
	if !mod.HasSymbols() {
		return nil, fmt.Errorf("module has no symbols")
	}
	stream, err := s.pdb.msf.Stream(int(mod.ModuleSymStream))
	if err != nil {
		return nil, err
	}
	data, err := stream.ReadAll()
	if err != nil {
		return nil, err
	}
	if uint32(len(data)) > mod.SymByteSize {
		data = data[:mod.SymByteSize]
	}
	return data, nil
}

// readSymbolAt decodes the single symbol record that starts at byte
// offset off within a module's symbol stream: off addresses the record's
// 2-byte length field, followed by the 2-byte kind, and the returned
// Data begins 4 bytes past off (mirroring ParseSymbols' own walk).
func (s *Session) readSymbolAt(modIndex, off int) (codeview.SymbolRecord, error) {
	data, err := s.symStream(modIndex)
	if err != nil {
		return codeview.SymbolRecord{}, err
	}
	if off < 0 || off+4 > len(data) {
		return codeview.SymbolRecord{}, fmt.Errorf("symbol offset out of range: %d", off)
	}
	recLen := int(le16(data[off:]))
	kind := le16(data[off+2:])
	if off+2+recLen > len(data) || recLen < 2 {
		return codeview.SymbolRecord{}, fmt.Errorf("malformed symbol record at %d", off)
	}
	return codeview.SymbolRecord{Kind: kind, Data: data[off+4 : off+2+recLen]}, nil
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }

// symView captures a decoded symbol record so ISymbolInfo accessors can
// answer without re-parsing.
type symView struct {
	kind uint16

	name      string
	typeIndex uint32
	offset    uint32 // code/data offset, or TLS byte offset
	segment   uint16
	length    uint64
	value     uint64
	reg       uint16
	hasReg    bool
}

func (s *Session) decodeSymbol(rec codeview.SymbolRecord) (symView, error) {
	v := symView{kind: rec.Kind}
	switch {
	case codeview.IsProcSymbol(rec.Kind):
		proc, err := codeview.ParseProcSym(rec.Data)
		if err != nil {
			return v, err
		}
		v.name, v.typeIndex, v.offset, v.segment, v.length = proc.Name, proc.TypeIndex, proc.Offset, proc.Segment, uint64(proc.Length)

	case codeview.IsDataSymbol(rec.Kind):
		d, err := codeview.ParseDataSym(rec.Data)
		if err != nil {
			return v, err
		}
		v.name, v.typeIndex, v.offset, v.segment = d.Name, d.TypeIndex, d.Offset, d.Segment

	case rec.Kind == codeview.S_REGREL32:
		rr, err := codeview.ParseRegRelSym(rec.Data)
		if err != nil {
			return v, err
		}
		v.name, v.typeIndex, v.offset, v.reg, v.hasReg = rr.Name, rr.TypeIndex, uint32(rr.Offset), rr.Register, true

	case rec.Kind == codeview.S_REGISTER || rec.Kind == codeview.S_REGISTER_NEW:
		r, err := codeview.ParseRegisterSym(rec.Data)
		if err != nil {
			return v, err
		}
		v.name, v.typeIndex, v.reg, v.hasReg = r.Name, r.TypeIndex, r.Register, true

	case rec.Kind == codeview.S_CONSTANT || rec.Kind == codeview.S_CONSTANT_NEW:
		c, err := codeview.ParseConstantSym(rec.Data)
		if err != nil {
			return v, err
		}
		v.name, v.typeIndex, v.value = c.Name, c.TypeIndex, c.Value

	case rec.Kind == codeview.S_UDT || rec.Kind == codeview.S_UDT_NEW:
		u, err := codeview.ParseUDTSym(rec.Data)
		if err != nil {
			return v, err
		}
		v.name, v.typeIndex = u.Name, u.TypeIndex

	case rec.Kind == codeview.S_PUB32:
		pub, err := codeview.ParsePubSym(rec.Data)
		if err != nil {
			return v, err
		}
		v.name, v.offset, v.segment = pub.Name, pub.Offset, pub.Segment

	case rec.Kind == codeview.S_BLOCK32:
		b, err := codeview.ParseBlockSym(rec.Data)
		if err != nil {
			return v, err
		}
		v.name, v.offset, v.segment, v.length = b.Name, b.Offset, b.Segment, uint64(b.End)

	default:
		return v, fmt.Errorf("unsupported symbol kind 0x%04x", rec.Kind)
	}
	return v, nil
}

// symHandleDataKind classifies a decoded symbol for GetDataKind, mirroring
// CodeView's own kind split between locals, registers, globals and
// statics.
func symHandleDataKind(modIndex int, v symView) (cvsession.DataKind, bool) {
	switch v.kind {
	case codeview.S_REGREL32, codeview.S_REGISTER, codeview.S_REGISTER_NEW:
		if v.name == "this" {
			return cvsession.DataIsObjectPtr, true
		}
		return cvsession.DataIsLocal, true
	case codeview.S_CONSTANT, codeview.S_CONSTANT_NEW:
		return cvsession.DataIsConstant, true
	case codeview.S_GDATA32, codeview.S_GTHREAD32:
		return cvsession.DataIsGlobal, true
	case codeview.S_LDATA32, codeview.S_LTHREAD32:
		if modIndex == cvsession.GlobalModule {
			return cvsession.DataIsGlobal, true
		}
		return cvsession.DataIsFileStatic, true
	}
	return cvsession.DataIsUnknown, false
}

// symInfoView implements cvsession.ISymbolInfo over a decoded symView plus
// enough session context (for GetVAFromSecOffset-style RVA mapping and
// for resolving a field-list/type-based view, handled separately by
// typeInfoView).
type symInfoView struct {
	s      *Session
	modIdx int
	v      symView
}

func (w symInfoView) GetName() (string, bool) {
	if w.v.name == "" {
		return "", false
	}
	return w.v.name, true
}

func (w symInfoView) symTag() cvsession.SymTag {
	switch {
	case codeview.IsProcSymbol(w.v.kind):
		return cvsession.SymTagFunction
	case codeview.IsDataSymbol(w.v.kind), w.v.kind == codeview.S_REGREL32,
		w.v.kind == codeview.S_REGISTER, w.v.kind == codeview.S_REGISTER_NEW,
		w.v.kind == codeview.S_CONSTANT, w.v.kind == codeview.S_CONSTANT_NEW,
		w.v.kind == codeview.S_PUB32:
		return cvsession.SymTagData
	case w.v.kind == codeview.S_UDT || w.v.kind == codeview.S_UDT_NEW:
		return cvsession.SymTagTypedef
	}
	return cvsession.SymTagNull
}

func (w symInfoView) GetSymTag() cvsession.SymTag { return w.symTag() }

func (w symInfoView) GetDataKind() (cvsession.DataKind, bool) {
	return symHandleDataKind(w.modIdx, w.v)
}

func (w symInfoView) GetLocation() (cvsession.LocationKind, bool) {
	switch w.v.kind {
	case codeview.S_REGREL32:
		return cvsession.LocIsRegRel, true
	case codeview.S_REGISTER, codeview.S_REGISTER_NEW:
		return cvsession.LocIsEnregistered, true
	case codeview.S_CONSTANT, codeview.S_CONSTANT_NEW:
		return cvsession.LocIsConstant, true
	case codeview.S_GTHREAD32, codeview.S_LTHREAD32:
		return cvsession.LocIsTLS, true
	case codeview.S_GDATA32, codeview.S_LDATA32, codeview.S_PUB32:
		return cvsession.LocIsStatic, true
	}
	return cvsession.LocIsNull, false
}

func (w symInfoView) GetRegister() (int, bool) {
	if !w.v.hasReg {
		return 0, false
	}
	return int(w.v.reg), true
}

// GetOffset is the TLS byte offset (per §6.5), and also the RegRel
// displacement from the base register; both are carried in v.offset.
func (w symInfoView) GetOffset() (int64, bool) {
	switch w.v.kind {
	case codeview.S_REGREL32, codeview.S_GTHREAD32, codeview.S_LTHREAD32:
		return int64(int32(w.v.offset)), true
	}
	return 0, false
}

func (w symInfoView) GetAddressOffset() (uint32, bool) {
	switch w.v.kind {
	case codeview.S_GDATA32, codeview.S_LDATA32, codeview.S_PUB32,
		codeview.S_GTHREAD32, codeview.S_LTHREAD32:
		return w.v.offset, true
	case codeview.S_GPROC32, codeview.S_LPROC32, codeview.S_GPROC32_ID, codeview.S_LPROC32_ID:
		return w.v.offset, true
	}
	return 0, false
}

func (w symInfoView) GetAddressSegment() (uint16, bool) {
	switch w.v.kind {
	case codeview.S_GDATA32, codeview.S_LDATA32, codeview.S_PUB32,
		codeview.S_GPROC32, codeview.S_LPROC32, codeview.S_GPROC32_ID, codeview.S_LPROC32_ID:
		return w.v.segment, true
	}
	return 0, false
}

func (w symInfoView) GetValue() (uint64, bool) {
	if w.v.kind == codeview.S_CONSTANT || w.v.kind == codeview.S_CONSTANT_NEW {
		return w.v.value, true
	}
	return 0, false
}

func (w symInfoView) GetType() (cvsession.TypeHandle, bool) {
	if w.v.typeIndex == 0 {
		return cvsession.TypeHandle{}, false
	}
	return cvsession.TypeHandle{Index: w.v.typeIndex}, true
}

func (w symInfoView) GetLength() (uint64, bool) {
	if w.v.length == 0 {
		return 0, false
	}
	return w.v.length, true
}

func (w symInfoView) GetCount() (uint32, bool)                  { return 0, false }
func (w symInfoView) GetBasicType() (cvsession.BasicType, bool) { return 0, false }
func (w symInfoView) GetUdtKind() (cvsession.UdtKind, bool)     { return 0, false }
func (w symInfoView) GetFieldList() (cvsession.TypeHandle, bool) {
	return cvsession.TypeHandle{}, false
}
func (w symInfoView) GetParamList() (cvsession.TypeHandle, bool) {
	return cvsession.TypeHandle{}, false
}
func (w symInfoView) GetTypes() ([]cvsession.TypeHandle, bool) { return nil, false }
func (w symInfoView) GetOemId() (uint32, bool)                 { return 0, false }
func (w symInfoView) GetOemSymbolId() (uint32, bool)           { return 0, false }

// GetSymbolInfo decodes the symbol record at h and returns its view.
func (s *Session) GetSymbolInfo(h cvsession.SymHandle) (cvsession.SymInfoData, cvsession.ISymbolInfo, error) {
	rec, err := s.readSymbolAt(h.ModIndex, h.Offset)
	if err != nil {
		return cvsession.SymInfoData{}, nil, cverrors.Wrap(cverrors.NotFound, "GetSymbolInfo: "+err.Error())
	}
	v, err := s.decodeSymbol(rec)
	if err != nil {
		return cvsession.SymInfoData{}, nil, cverrors.Wrap(cverrors.NotFound, "GetSymbolInfo: "+err.Error())
	}
	data := cvsession.SymInfoData{Raw: v}
	return data, symInfoView{s: s, modIdx: h.ModIndex, v: v}, nil
}

// CopySymbolInfo is identical to GetSymbolInfo's data half; the core uses
// it when it needs to keep a SymInfoData alive past a scope where the
// handle itself might be invalidated (§6.1).
func (s *Session) CopySymbolInfo(h cvsession.SymHandle) (cvsession.SymInfoData, error) {
	data, _, err := s.GetSymbolInfo(h)
	return data, err
}

// typeInfoView implements cvsession.ISymbolInfo over a TPI type record
// (struct/union/class, enum, pointer, array, function, modifier, field-
// list member, base class, enumerate).
type typeInfoView struct {
	s    *Session
	kind uint16 // LF_* or a field-list sub-leaf kind
	data []byte
}

func (s *Session) typeRecordView(idx uint32) (typeInfoView, error) {
	if s.pdb.tpi == nil {
		return typeInfoView{}, fmt.Errorf("no TPI stream")
	}
	rec := s.pdb.tpi.GetType(idx)
	if rec == nil {
		return typeInfoView{}, fmt.Errorf("unknown type index 0x%x", idx)
	}
	return typeInfoView{s: s, kind: rec.Kind, data: rec.Data}, nil
}

func (w typeInfoView) GetSymTag() cvsession.SymTag {
	switch w.kind {
	case streams.LF_POINTER:
		return cvsession.SymTagPointerType
	case streams.LF_ARRAY, streams.LF_ARRAY_newformat:
		return cvsession.SymTagArrayType
	case streams.LF_PROCEDURE, streams.LF_MFUNCTION:
		return cvsession.SymTagFunctionType
	case streams.LF_STRUCTURE, streams.LF_STRUCTURE_newformat,
		streams.LF_CLASS, streams.LF_CLASS_newformat,
		streams.LF_UNION, streams.LF_UNION_newformat:
		return cvsession.SymTagUDT
	case streams.LF_ENUM, streams.LF_ENUM_newformat:
		return cvsession.SymTagEnum
	case streams.LF_BCLASS:
		return cvsession.SymTagBaseClass
	case streams.LF_OEM:
		return cvsession.SymTagCustomType
	case streams.LF_MEMBER, streams.LF_MEMBER_newformat, streams.LF_STMEMBER, streams.LF_STMEMBER_newformat,
		streams.LF_ENUMERATE:
		return cvsession.SymTagData
	case streams.LF_NESTTYPE, streams.LF_NESTTYPE_newformat:
		return cvsession.SymTagTypedef
	}
	return cvsession.SymTagNull
}

func (w typeInfoView) GetName() (string, bool) {
	switch w.kind {
	case streams.LF_STRUCTURE, streams.LF_STRUCTURE_newformat,
		streams.LF_CLASS, streams.LF_CLASS_newformat,
		streams.LF_UNION, streams.LF_UNION_newformat:
		if len(w.data) < 18 {
			return "", false
		}
		_, consumed := streams.ParseNumeric(w.data[16:])
		name, _ := streams.ParseString(w.data[16+consumed:])
		return name, name != ""
	case streams.LF_ENUM, streams.LF_ENUM_newformat:
		if len(w.data) < 12 {
			return "", false
		}
		name, _ := streams.ParseString(w.data[12:])
		return name, name != ""
	case streams.LF_MEMBER, streams.LF_MEMBER_newformat:
		if len(w.data) < 6 {
			return "", false
		}
		_, consumed := streams.ParseNumeric(w.data[6:])
		name, _ := streams.ParseString(w.data[6+consumed:])
		return name, name != ""
	case streams.LF_STMEMBER, streams.LF_STMEMBER_newformat,
		streams.LF_NESTTYPE, streams.LF_NESTTYPE_newformat,
		streams.LF_METHOD, streams.LF_METHOD_newformat,
		streams.LF_ONEMETHOD, streams.LF_ONEMETHOD_newformat:
		if len(w.data) < 6 {
			return "", false
		}
		name, _ := streams.ParseString(w.data[6:])
		return name, name != ""
	case streams.LF_ENUMERATE:
		if len(w.data) < 2 {
			return "", false
		}
		_, consumed := streams.ParseNumeric(w.data[2:])
		name, _ := streams.ParseString(w.data[2+consumed:])
		return name, name != ""
	case streams.LF_BCLASS:
		return "(base)", true
	}
	return "", false
}

func (w typeInfoView) GetDataKind() (cvsession.DataKind, bool)     { return 0, false }
func (w typeInfoView) GetLocation() (cvsession.LocationKind, bool) { return 0, false }
func (w typeInfoView) GetRegister() (int, bool)                    { return 0, false }
func (w typeInfoView) GetOffset() (int64, bool)                    { return 0, false }
func (w typeInfoView) GetAddressOffset() (uint32, bool)            { return 0, false }
func (w typeInfoView) GetAddressSegment() (uint16, bool)           { return 0, false }

func (w typeInfoView) GetValue() (uint64, bool) {
	if w.kind != streams.LF_ENUMERATE {
		return 0, false
	}
	if len(w.data) < 2 {
		return 0, false
	}
	val, _ := streams.ParseNumeric(w.data[2:])
	return val, true
}

func (w typeInfoView) GetType() (cvsession.TypeHandle, bool) {
	switch w.kind {
	case streams.LF_POINTER:
		if len(w.data) < 4 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: le32(w.data[0:])}, true
	case streams.LF_ARRAY, streams.LF_ARRAY_newformat:
		if len(w.data) < 4 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: le32(w.data[0:])}, true
	case streams.LF_PROCEDURE, streams.LF_MFUNCTION:
		if len(w.data) < 4 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: le32(w.data[0:])}, true
	case streams.LF_BCLASS:
		if len(w.data) < 6 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: le32(w.data[2:])}, true
	case streams.LF_MEMBER, streams.LF_MEMBER_newformat:
		if len(w.data) < 6 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: le32(w.data[2:])}, true
	case streams.LF_ENUM, streams.LF_ENUM_newformat:
		if len(w.data) < 8 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: le32(w.data[4:])}, true
	}
	return cvsession.TypeHandle{}, false
}

func (w typeInfoView) GetLength() (uint64, bool) {
	switch w.kind {
	case streams.LF_STRUCTURE, streams.LF_STRUCTURE_newformat,
		streams.LF_CLASS, streams.LF_CLASS_newformat,
		streams.LF_UNION, streams.LF_UNION_newformat:
		if len(w.data) < 18 {
			return 0, false
		}
		size, _ := streams.ParseNumeric(w.data[16:])
		return size, true
	case streams.LF_ARRAY, streams.LF_ARRAY_newformat:
		if len(w.data) < 10 {
			return 0, false
		}
		size, _ := streams.ParseNumeric(w.data[8:])
		return size, true
	case streams.LF_MEMBER, streams.LF_MEMBER_newformat:
		if len(w.data) < 8 {
			return 0, false
		}
		off, _ := streams.ParseNumeric(w.data[6:])
		return off, true
	case streams.LF_BCLASS:
		if len(w.data) < 8 {
			return 0, false
		}
		off, _ := streams.ParseNumeric(w.data[6:])
		return off, true
	}
	return 0, false
}

func (w typeInfoView) GetCount() (uint32, bool) {
	if w.kind != streams.LF_PROCEDURE && w.kind != streams.LF_MFUNCTION {
		return 0, false
	}
	off := 6
	if w.kind == streams.LF_MFUNCTION {
		off = 14
	}
	if len(w.data) < off+2 {
		return 0, false
	}
	return uint32(le16(w.data[off:])), true
}

func (w typeInfoView) GetBasicType() (cvsession.BasicType, bool) { return 0, false }

func (w typeInfoView) GetUdtKind() (cvsession.UdtKind, bool) {
	switch w.kind {
	case streams.LF_STRUCTURE, streams.LF_STRUCTURE_newformat:
		return cvsession.UdtStruct, true
	case streams.LF_CLASS, streams.LF_CLASS_newformat:
		return cvsession.UdtClass, true
	case streams.LF_UNION, streams.LF_UNION_newformat:
		return cvsession.UdtUnion, true
	}
	return 0, false
}

func (w typeInfoView) GetFieldList() (cvsession.TypeHandle, bool) {
	switch w.kind {
	case streams.LF_STRUCTURE, streams.LF_STRUCTURE_newformat,
		streams.LF_CLASS, streams.LF_CLASS_newformat,
		streams.LF_UNION, streams.LF_UNION_newformat:
		if len(w.data) < 8 {
			return cvsession.TypeHandle{}, false
		}
		idx := le32(w.data[4:])
		if idx == 0 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: idx}, true
	case streams.LF_ENUM, streams.LF_ENUM_newformat:
		if len(w.data) < 12 {
			return cvsession.TypeHandle{}, false
		}
		idx := le32(w.data[8:])
		if idx == 0 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: idx}, true
	}
	return cvsession.TypeHandle{}, false
}

func (w typeInfoView) GetParamList() (cvsession.TypeHandle, bool) {
	switch w.kind {
	case streams.LF_PROCEDURE:
		if len(w.data) < 12 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: le32(w.data[8:])}, true
	case streams.LF_MFUNCTION:
		if len(w.data) < 20 {
			return cvsession.TypeHandle{}, false
		}
		return cvsession.TypeHandle{Index: le32(w.data[16:])}, true
	}
	return cvsession.TypeHandle{}, false
}

// GetTypes returns an LF_ARGLIST's parameter type handles, or an LF_OEM
// record's sub-type list (vendor 0x42's darray/aarray/delegate carry
// their element/key/return types this way).
func (w typeInfoView) GetTypes() ([]cvsession.TypeHandle, bool) {
	switch w.kind {
	case streams.LF_ARGLIST:
		if len(w.data) < 4 {
			return nil, false
		}
		count := int(le32(w.data[0:]))
		var out []cvsession.TypeHandle
		off := 4
		for i := 0; i < count && off+4 <= len(w.data); i++ {
			out = append(out, cvsession.TypeHandle{Index: le32(w.data[off:])})
			off += 4
		}
		return out, true
	case streams.LF_OEM:
		if len(w.data) < 10 {
			return nil, false
		}
		count := int(le16(w.data[8:]))
		var out []cvsession.TypeHandle
		off := 10
		for i := 0; i < count && off+4 <= len(w.data); i++ {
			out = append(out, cvsession.TypeHandle{Index: le32(w.data[off:])})
			off += 4
		}
		return out, true
	}
	return nil, false
}

func (w typeInfoView) GetOemId() (uint32, bool) {
	if w.kind != streams.LF_OEM || len(w.data) < 4 {
		return 0, false
	}
	return le32(w.data[0:]), true
}

func (w typeInfoView) GetOemSymbolId() (uint32, bool) {
	if w.kind != streams.LF_OEM || len(w.data) < 8 {
		return 0, false
	}
	return le32(w.data[4:]), true
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// GetTypeInfo decodes the TPI record at h, the field-list leaf a synthetic
// handle (minted by FindChildType/NextType) addresses, or — for an index
// below TypeIndexBegin — one of CodeView's built-in basic types.
func (s *Session) GetTypeInfo(h cvsession.TypeHandle) (cvsession.SymInfoData, cvsession.ISymbolInfo, error) {
	if id, ok := isFieldMemberHandle(h); ok {
		loc, known := s.fieldMembers[id]
		if !known {
			return cvsession.SymInfoData{}, nil, cverrors.Wrap(cverrors.NotFound, "GetTypeInfo: unknown field handle")
		}
		w, err := s.fieldLeafView(loc)
		if err != nil {
			return cvsession.SymInfoData{}, nil, cverrors.Wrap(cverrors.NotFound, "GetTypeInfo: "+err.Error())
		}
		return cvsession.SymInfoData{Raw: w}, w, nil
	}

	if h.Index < streams.TypeIndexBegin {
		w := basicTypeView{typeIdx: h.Index}
		return cvsession.SymInfoData{Raw: w}, w, nil
	}

	w, err := s.typeRecordView(h.Index)
	if err != nil {
		return cvsession.SymInfoData{}, nil, cverrors.Wrap(cverrors.NotFound, "GetTypeInfo: "+err.Error())
	}
	return cvsession.SymInfoData{Raw: w}, w, nil
}

// basicTypeView implements cvsession.ISymbolInfo over a built-in CodeView
// type index (kind in bits 0-7, pointer mode in bits 8-11; see
// streams.GetBuiltinTypeName). A non-direct mode is surfaced as a pointer
// type whose pointee is the same kind with mode cleared, mirroring how a
// real TPI LF_POINTER record relates to its referent.
type basicTypeView struct {
	typeIdx uint32
}

func (w basicTypeView) mode() uint32 { return (w.typeIdx >> 8) & 0xF }
func (w basicTypeView) kind() uint32 { return w.typeIdx & 0xFF }

func (w basicTypeView) GetSymTag() cvsession.SymTag {
	if w.mode() != streams.TM_DIRECT {
		return cvsession.SymTagPointerType
	}
	return cvsession.SymTagBaseType
}

func (w basicTypeView) GetName() (string, bool) {
	name := streams.GetBuiltinTypeName(w.typeIdx)
	return name, name != ""
}

func (w basicTypeView) GetDataKind() (cvsession.DataKind, bool)     { return 0, false }
func (w basicTypeView) GetLocation() (cvsession.LocationKind, bool) { return 0, false }
func (w basicTypeView) GetRegister() (int, bool)                    { return 0, false }
func (w basicTypeView) GetOffset() (int64, bool)                    { return 0, false }
func (w basicTypeView) GetAddressOffset() (uint32, bool)            { return 0, false }
func (w basicTypeView) GetAddressSegment() (uint16, bool)           { return 0, false }
func (w basicTypeView) GetValue() (uint64, bool)                    { return 0, false }
func (w basicTypeView) GetCount() (uint32, bool)                    { return 0, false }
func (w basicTypeView) GetUdtKind() (cvsession.UdtKind, bool)       { return 0, false }
func (w basicTypeView) GetFieldList() (cvsession.TypeHandle, bool) {
	return cvsession.TypeHandle{}, false
}
func (w basicTypeView) GetParamList() (cvsession.TypeHandle, bool) {
	return cvsession.TypeHandle{}, false
}
func (w basicTypeView) GetTypes() ([]cvsession.TypeHandle, bool) { return nil, false }
func (w basicTypeView) GetOemId() (uint32, bool)                 { return 0, false }
func (w basicTypeView) GetOemSymbolId() (uint32, bool)           { return 0, false }

// GetType answers the pointee of a non-direct basic type index: the same
// kind bits with mode cleared back to TM_DIRECT.
func (w basicTypeView) GetType() (cvsession.TypeHandle, bool) {
	if w.mode() == streams.TM_DIRECT {
		return cvsession.TypeHandle{}, false
	}
	return cvsession.TypeHandle{Index: w.kind()}, true
}

// GetBasicType and GetLength only answer for a direct (non-pointer) basic
// type; a pointer-mode index is routed to SymTagPointerType above, whose
// pointee (fetched through GetType) carries the real basic_id/size.
func (w basicTypeView) GetBasicType() (cvsession.BasicType, bool) {
	if w.mode() != streams.TM_DIRECT {
		return 0, false
	}
	switch w.kind() {
	case streams.T_NOTYPE:
		return cvsession.BasicNone, true
	case streams.T_VOID:
		return cvsession.BasicVoid, true
	case streams.T_CHAR, streams.T_RCHAR, streams.T_CHAR8:
		return cvsession.BasicChar, true
	case streams.T_CHAR16, streams.T_CHAR32, streams.T_WCHAR:
		return cvsession.BasicWChar, true
	case streams.T_SHORT, streams.T_LONG, streams.T_QUAD,
		streams.T_INT1, streams.T_INT2, streams.T_INT4, streams.T_INT8, streams.T_INT16:
		return cvsession.BasicInt, true
	case streams.T_UCHAR, streams.T_USHORT, streams.T_ULONG, streams.T_UQUAD,
		streams.T_UINT1, streams.T_UINT2, streams.T_UINT4, streams.T_UINT8, streams.T_UINT16,
		streams.T_HRESULT:
		return cvsession.BasicUInt, true
	case streams.T_BOOL08, streams.T_BOOL16, streams.T_BOOL32, streams.T_BOOL64:
		return cvsession.BasicBool, true
	case streams.T_REAL32, streams.T_REAL64, streams.T_REAL80:
		return cvsession.BasicFloat, true
	case streams.T_CPLX32, streams.T_CPLX64, streams.T_CPLX80:
		return cvsession.BasicComplex, true
	}
	return 0, false
}

func (w basicTypeView) GetLength() (uint64, bool) {
	if w.mode() != streams.TM_DIRECT {
		return 0, false
	}
	switch w.kind() {
	case streams.T_NOTYPE, streams.T_VOID:
		return 0, true
	case streams.T_CHAR, streams.T_RCHAR, streams.T_CHAR8, streams.T_UCHAR,
		streams.T_INT1, streams.T_UINT1, streams.T_BOOL08:
		return 1, true
	case streams.T_SHORT, streams.T_USHORT, streams.T_INT2, streams.T_UINT2,
		streams.T_CHAR16, streams.T_WCHAR, streams.T_BOOL16:
		return 2, true
	case streams.T_LONG, streams.T_ULONG, streams.T_INT4, streams.T_UINT4,
		streams.T_CHAR32, streams.T_BOOL32, streams.T_REAL32, streams.T_HRESULT:
		return 4, true
	case streams.T_QUAD, streams.T_UQUAD, streams.T_INT8, streams.T_UINT8,
		streams.T_BOOL64, streams.T_REAL64, streams.T_CPLX32:
		return 8, true
	case streams.T_REAL80:
		return 10, true
	case streams.T_CPLX64:
		return 16, true
	case streams.T_CPLX80:
		return 20, true
	case streams.T_INT16, streams.T_UINT16:
		return 16, true
	}
	return 0, false
}

// GetTypeFromTypeIndex is a thin validity check: it exists because the
// spec (and MagoNatDE) distinguish "a raw TPI index, as found embedded in
// another record" from "a TypeHandle already known to be valid".
func (s *Session) GetTypeFromTypeIndex(index uint32) (cvsession.TypeHandle, error) {
	if index < streams.TypeIndexBegin {
		return cvsession.TypeHandle{Index: index}, nil
	}
	if s.pdb.tpi == nil || s.pdb.tpi.GetType(index) == nil {
		return cvsession.TypeHandle{}, cverrors.Wrap(cverrors.NotFound, "GetTypeFromTypeIndex")
	}
	return cvsession.TypeHandle{Index: index}, nil
}

// FindChildSymbol looks up name among the locals/params declared directly
// inside the lexical block or procedure at block's position (§4.5's
// "immediate block only" scoping): it scans forward from just after
// block's own record to the position its End field names, matching on
// name for register-relative, enregistered, constant, static-data and
// thread-local symbols, and
// skipping over (not descending into) any nested S_BLOCK32 it meets.
func (s *Session) FindChildSymbol(block cvsession.SymHandle, name string) (cvsession.SymHandle, error) {
	data, err := s.symStream(block.ModIndex)
	if err != nil {
		return cvsession.SymHandle{}, cverrors.Wrap(cverrors.NotFound, "FindChildSymbol: "+err.Error())
	}

	start, end, err := s.blockBounds(block, data)
	if err != nil {
		return cvsession.SymHandle{}, cverrors.Wrap(cverrors.NotFound, "FindChildSymbol: "+err.Error())
	}

	off := start
	for off+4 <= end && off+4 <= len(data) {
		recLen := int(le16(data[off:]))
		kind := le16(data[off+2:])
		if recLen < 2 || off+2+recLen > len(data) {
			break
		}
		recData := data[off+4 : off+2+recLen]

		switch kind {
		case codeview.S_BLOCK32:
			b, perr := codeview.ParseBlockSym(recData)
			if perr == nil {
				off = int(b.End)
				continue
			}
		case codeview.S_REGREL32:
			rr, perr := codeview.ParseRegRelSym(recData)
			if perr == nil && rr.Name == name {
				return cvsession.SymHandle{ModIndex: block.ModIndex, Offset: off}, nil
			}
		case codeview.S_REGISTER, codeview.S_REGISTER_NEW:
			r, perr := codeview.ParseRegisterSym(recData)
			if perr == nil && r.Name == name {
				return cvsession.SymHandle{ModIndex: block.ModIndex, Offset: off}, nil
			}
		case codeview.S_CONSTANT, codeview.S_CONSTANT_NEW:
			c, perr := codeview.ParseConstantSym(recData)
			if perr == nil && c.Name == name {
				return cvsession.SymHandle{ModIndex: block.ModIndex, Offset: off}, nil
			}
		case codeview.S_LDATA32, codeview.S_GDATA32, codeview.S_LTHREAD32, codeview.S_GTHREAD32:
			d, perr := codeview.ParseDataSym(recData)
			if perr == nil && d.Name == name {
				return cvsession.SymHandle{ModIndex: block.ModIndex, Offset: off}, nil
			}
		}
		off += 2 + recLen
	}
	return cvsession.SymHandle{}, cverrors.Wrap(cverrors.NotFound, "FindChildSymbol: "+name)
}

// blockBounds returns the [start,end) byte range of the symbols lexically
// nested directly inside the block/proc record at h: start is just past
// h's own record, end is the matching S_END (read from the Proc/Block's
// End field) or the stream length if h is not itself a scope symbol.
func (s *Session) blockBounds(h cvsession.SymHandle, data []byte) (int, int, error) {
	if h.Offset < 0 || h.Offset+4 > len(data) {
		return 0, 0, fmt.Errorf("block handle out of range")
	}
	recLen := int(le16(data[h.Offset:]))
	kind := le16(data[h.Offset+2:])
	if recLen < 2 || h.Offset+2+recLen > len(data) {
		return 0, 0, fmt.Errorf("malformed block record")
	}
	recData := data[h.Offset+4 : h.Offset+2+recLen]
	start := h.Offset + 2 + recLen

	switch {
	case codeview.IsProcSymbol(kind):
		proc, err := codeview.ParseProcSym(recData)
		if err != nil {
			return 0, 0, err
		}
		return start, int(proc.End), nil
	case kind == codeview.S_BLOCK32:
		b, err := codeview.ParseBlockSym(recData)
		if err != nil {
			return 0, 0, err
		}
		return start, int(b.End), nil
	}
	return start, len(data), nil
}

// FindChildType finds name among a field list's direct members
// (LF_MEMBER/STMEMBER/NESTTYPE/ENUMERATE), skipping base-class and
// method entries and following LF_INDEX continuations into the next
// field list (the caller, locator.FindMember, walks base classes itself
// on miss).
func (s *Session) FindChildType(fieldList cvsession.TypeHandle, name string) (cvsession.TypeHandle, error) {
	rec := s.pdb.tpi.GetType(fieldList.Index)
	if rec == nil || rec.Kind != streams.LF_FIELDLIST {
		return cvsession.TypeHandle{}, cverrors.Wrap(cverrors.NotFound, "FindChildType: not a field list")
	}
	found, ok := s.walkFieldList(fieldList.Index, rec.Data, func(leafKind uint16, memberName string) bool {
		return memberName == name
	})
	if !ok {
		return cvsession.TypeHandle{}, cverrors.Wrap(cverrors.NotFound, "FindChildType: "+name)
	}
	return found, nil
}

// walkFieldList scans an LF_FIELDLIST's member records (following
// LF_INDEX continuations), invoking match(leafKind, name) for each named
// entry and returning the first synthetic TypeHandle for which match
// returns true. Since struct members, enumerates and nested types don't
// carry their own TPI type index, the handle synthesized here addresses
// the field list plus a byte offset instead of a TPI index; fieldLeafView
// decodes it back.
func (s *Session) walkFieldList(fieldListIdx uint32, data []byte, match func(leafKind uint16, name string) bool) (cvsession.TypeHandle, bool) {
	offset := 0
	for offset < len(data) {
		if offset+2 > len(data) {
			break
		}
		leafKind := le16(data[offset:])
		recStart := offset
		offset += 2

		var name string
		consumed := 0
		switch leafKind {
		case streams.LF_MEMBER, streams.LF_MEMBER_newformat:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			_, n := streams.ParseNumeric(data[offset+6:])
			nameOff := offset + 6 + n
			name, consumed = streams.ParseString(data[nameOff:])
			offset = nameOff + consumed
		case streams.LF_STMEMBER, streams.LF_STMEMBER_newformat:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			name, consumed = streams.ParseString(data[offset+6:])
			offset = offset + 6 + consumed
		case streams.LF_NESTTYPE, streams.LF_NESTTYPE_newformat:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			name, consumed = streams.ParseString(data[offset+6:])
			offset = offset + 6 + consumed
		case streams.LF_ENUMERATE:
			if offset+2 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			_, n := streams.ParseNumeric(data[offset+2:])
			nameOff := offset + 2 + n
			name, consumed = streams.ParseString(data[nameOff:])
			offset = nameOff + consumed
		case streams.LF_BCLASS:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			_, n := streams.ParseNumeric(data[offset+6:])
			offset = offset + 6 + n
		case streams.LF_METHOD, streams.LF_METHOD_newformat:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			_, consumed = streams.ParseString(data[offset+6:])
			offset = offset + 6 + consumed
		case streams.LF_ONEMETHOD, streams.LF_ONEMETHOD_newformat:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			_, consumed = streams.ParseString(data[offset+6:])
			offset = offset + 6 + consumed
		case streams.LF_VFUNCTAB:
			offset += 6
		case streams.LF_INDEX:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			contIdx := le32(data[offset+2:])
			offset += 6
			if contRec := s.pdb.tpi.GetType(contIdx); contRec != nil && contRec.Kind == streams.LF_FIELDLIST {
				if h, ok := s.walkFieldList(contIdx, contRec.Data, match); ok {
					return h, true
				}
			}
			continue
		default:
			if leafKind >= 0xF0 && leafKind <= 0xFF {
				offset = recStart + (int(leafKind) & 0x0F)
				continue
			}
			return cvsession.TypeHandle{}, false
		}

		if name != "" && match(leafKind, name) {
			return s.allocFieldMemberHandle(fieldListIdx, recStart), true
		}
		offset = alignTo4(offset)
	}
	return cvsession.TypeHandle{}, false
}

func alignTo4(n int) int { return (n + 3) &^ 3 }

// allocFieldMemberHandle mints a synthetic TypeHandle for the field-list
// leaf at byteOffset within fieldListIdx, marked with the top bit so it
// can flow through the same TypeHandle type as real TPI indices (which
// never reach 1<<31: they're allocated sequentially from 0x1000).
func (s *Session) allocFieldMemberHandle(fieldListIdx uint32, byteOffset int) cvsession.TypeHandle {
	if s.fieldMembers == nil {
		s.fieldMembers = make(map[uint32]fieldMemberLoc)
	}
	id := s.nextFieldMemberID
	s.nextFieldMemberID++
	s.fieldMembers[id] = fieldMemberLoc{fieldList: fieldListIdx, offset: byteOffset}
	return cvsession.TypeHandle{Index: 0x80000000 | id}
}

func isFieldMemberHandle(h cvsession.TypeHandle) (uint32, bool) {
	if h.Index&0x80000000 == 0 {
		return 0, false
	}
	return h.Index &^ 0x80000000, true
}

// fieldLeafView decodes the single field-list leaf a synthetic TypeHandle
// points at, into a typeInfoView whose data starts right after the
// 2-byte leaf kind — the same layout GetType/GetLength/GetValue/GetName
// already assume for the LF_MEMBER/LF_BCLASS/LF_ENUMERATE/LF_NESTTYPE
// cases above, since those never occur as a standalone top-level TPI
// record (only ever nested inside one LF_FIELDLIST blob).
func (s *Session) fieldLeafView(loc fieldMemberLoc) (typeInfoView, error) {
	rec := s.pdb.tpi.GetType(loc.fieldList)
	if rec == nil || rec.Kind != streams.LF_FIELDLIST {
		return typeInfoView{}, fmt.Errorf("field member: owning field list 0x%x gone", loc.fieldList)
	}
	if loc.offset+2 > len(rec.Data) {
		return typeInfoView{}, fmt.Errorf("field member: offset out of range")
	}
	leafKind := le16(rec.Data[loc.offset:])
	return typeInfoView{s: s, kind: leafKind, data: rec.Data[loc.offset+2:]}, nil
}

// SetChildTypeScope begins an iteration cursor over fieldList's direct
// members.
func (s *Session) SetChildTypeScope(fieldList cvsession.TypeHandle) (cvsession.ChildTypeScope, error) {
	rec := s.pdb.tpi.GetType(fieldList.Index)
	if rec == nil || rec.Kind != streams.LF_FIELDLIST {
		return cvsession.ChildTypeScope{}, cverrors.Wrap(cverrors.NotFound, "SetChildTypeScope: not a field list")
	}
	return cvsession.ChildTypeScope{FieldList: fieldList, Index: 0}, nil
}

// NextType advances scope and returns the next direct member, in field-
// list order (base classes first, matching the source's invariant that
// FindMember's base-class fallback can assume scope.NextType()'s first
// hit is the base class record).
func (s *Session) NextType(scope *cvsession.ChildTypeScope) (cvsession.TypeHandle, bool) {
	rec := s.pdb.tpi.GetType(scope.FieldList.Index)
	if rec == nil {
		return cvsession.TypeHandle{}, false
	}
	data := rec.Data
	offset := 0
	count := 0
	for offset < len(data) {
		if offset+2 > len(data) {
			break
		}
		leafKind := le16(data[offset:])
		recStart := offset
		offset += 2

		var consumed int
		switch leafKind {
		case streams.LF_MEMBER, streams.LF_MEMBER_newformat:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			_, n := streams.ParseNumeric(data[offset+6:])
			_, consumed = streams.ParseString(data[offset+6+n:])
			offset = offset + 6 + n + consumed
		case streams.LF_BCLASS:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			_, n := streams.ParseNumeric(data[offset+6:])
			offset = offset + 6 + n
		case streams.LF_STMEMBER, streams.LF_STMEMBER_newformat,
			streams.LF_NESTTYPE, streams.LF_NESTTYPE_newformat,
			streams.LF_METHOD, streams.LF_METHOD_newformat,
			streams.LF_ONEMETHOD, streams.LF_ONEMETHOD_newformat:
			if offset+6 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			_, consumed = streams.ParseString(data[offset+6:])
			offset = offset + 6 + consumed
		case streams.LF_ENUMERATE:
			if offset+2 > len(data) {
				return cvsession.TypeHandle{}, false
			}
			_, n := streams.ParseNumeric(data[offset+2:])
			_, consumed = streams.ParseString(data[offset+2+n:])
			offset = offset + 2 + n + consumed
		case streams.LF_VFUNCTAB:
			offset += 6
		default:
			if leafKind >= 0xF0 && leafKind <= 0xFF {
				offset = recStart + (int(leafKind) & 0x0F)
				offset = alignTo4(offset)
				continue
			}
			return cvsession.TypeHandle{}, false
		}
		offset = alignTo4(offset)

		if count == scope.Index {
			scope.Index++
			return s.allocFieldMemberHandle(scope.FieldList.Index, recStart), true
		}
		count++
	}
	return cvsession.TypeHandle{}, false
}

// FindFirstSymbol begins a global-heap search for name. This session
// models every module's symbol stream plus the global record stream as
// one flat sequence of heaps (§6.1's "iterate heap 0..HeapCount"):
// heap 0 is the global stream, heaps 1..N are the per-module streams.
func (s *Session) FindFirstSymbol(heap int, name string) (cvsession.SymbolEnum, error) {
	modIndex, err := s.heapModIndex(heap)
	if err != nil {
		return cvsession.SymbolEnum{}, err
	}
	data, err := s.symStream(modIndex)
	if err != nil {
		return cvsession.SymbolEnum{}, cverrors.Wrap(cverrors.NotFound, "FindFirstSymbol: "+err.Error())
	}
	off := 0
	if len(data) >= 4 && le32(data) == 4 {
		off = 4
	}
	for off+4 <= len(data) {
		recLen := int(le16(data[off:]))
		kind := le16(data[off+2:])
		if recLen < 2 || off+2+recLen > len(data) {
			break
		}
		rec := codeview.SymbolRecord{Kind: kind, Data: data[off+4 : off+2+recLen]}
		v, err := s.decodeSymbol(rec)
		if err == nil && v.name == name {
			return cvsession.SymbolEnum{Heap: heap, Index: off, Valid: true}, nil
		}
		off += 2 + recLen
	}
	return cvsession.SymbolEnum{}, cverrors.Wrap(cverrors.NotFound, "FindFirstSymbol: "+name)
}

// heapModIndex maps a §6.1 heap number to a ModIndex: 0 is the global
// record stream, everything else indexes s.pdb.dbi.Modules directly.
func (s *Session) heapModIndex(heap int) (int, error) {
	if heap == 0 {
		return cvsession.GlobalModule, nil
	}
	if s.pdb.dbi == nil || heap-1 >= len(s.pdb.dbi.Modules) {
		return 0, fmt.Errorf("heap out of range: %d", heap)
	}
	return heap - 1, nil
}

// GetCurrentSymbol resolves a SymbolEnum cursor back to a SymHandle.
func (s *Session) GetCurrentSymbol(e cvsession.SymbolEnum) (cvsession.SymHandle, error) {
	if !e.Valid {
		return cvsession.SymHandle{}, cverrors.Wrap(cverrors.NotFound, "GetCurrentSymbol: invalid cursor")
	}
	modIndex, err := s.heapModIndex(e.Heap)
	if err != nil {
		return cvsession.SymHandle{}, cverrors.Wrap(cverrors.NotFound, "GetCurrentSymbol: "+err.Error())
	}
	return cvsession.SymHandle{ModIndex: modIndex, Offset: e.Index}, nil
}

// HeapCount is 1 (the global record stream) plus one per module.
func (s *Session) HeapCount() int {
	n := 1
	if s.pdb.dbi != nil {
		n += len(s.pdb.dbi.Modules)
	}
	return n
}

// GetVAFromSecOffset resolves a CodeView segment:offset pair through
// SegmentToRVA (PE section headers, else the DBI section map) for Static
// location resolution. The result is the image-relative RVA: the PDB does
// not record a load address, so no image base is added to it.
func (s *Session) GetVAFromSecOffset(section uint16, offset uint32) (uint64, error) {
	rva := s.pdb.SegmentToRVA(section, offset)
	if rva == 0 && offset != 0 {
		return 0, cverrors.Wrap(cverrors.NotFound, "GetVAFromSecOffset: unmapped section")
	}
	return uint64(rva), nil
}
