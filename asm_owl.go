// asm_owl.go - Owl-2820 machine code assembler with label and fixup support

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Owl2820
License: GPLv3 or later
*/

package owl2820

import "errors"

// ===== Field encoders =====
//
// These are the inverses of the extractors in dispatch_owl.go. Branch and
// jump offsets drop their low bit when packed; uimm20 is stored in place.

func encOpcode(op Opcode) uint32  { return uint32(op) }
func encRd(r uint32) uint32       { return (r & 0x1f) << 7 }
func encRs1(r uint32) uint32      { return (r & 0x1f) << 12 }
func encRs2(r uint32) uint32      { return (r & 0x1f) << 17 }
func encShamt(s uint32) uint32    { return (s & 0x1f) << 17 }
func encImm12(imm int32) uint32   { return uint32(imm) << 20 }
func encOffs12(offs int32) uint32 { return (uint32(offs) << 19) & 0xfff00000 }
func encOffs20(offs int32) uint32 { return (uint32(offs) << 11) & 0xfffff000 }
func encUimm20(u uint32) uint32   { return u & 0xfffff000 }

// ===== Assembler =====

// badAddress marks a label that has not been bound yet.
const badAddress = ^uint32(0)

// Label identifies a position in the code stream. Labels are created with
// MakeLabel, may be referenced before they are bound, and are bound exactly
// once with BindLabel.
type Label int

type fixupKind int

const (
	fixupOffs12 fixupKind = iota // branch offset relative to the patched word
	fixupOffs20                  // jump offset relative to the patched word
	fixupHi20                    // absolute address bits [31:12]
	fixupLo12                    // absolute address bits [11:0]
)

// A fixup records a word that referenced a label before it was bound, and
// which field of that word to patch once the label's address is known.
type fixup struct {
	target uint32 // byte offset of the word to patch
	kind   fixupKind
}

// Assembler emits Owl-2820 machine code a word at a time. It is an
// InstructionHandler whose Item is the emitted word, so it doubles as the
// back end of the RV32I transcoder: dispatching an RV32I word into an
// Assembler re-emits it in the Owl-2820 encoding.
//
// The zero value is an empty assembler ready for use.
type Assembler struct {
	code    []uint32 // assembled words, in wire order
	current uint32   // byte offset of the next word to be emitted
	labels  []uint32 // label id -> bound address, badAddress while unbound
	fixups  map[Label][]fixup
}

func NewAssembler() *Assembler {
	return &Assembler{}
}

// Current returns the byte offset at which the next word will be emitted.
func (a *Assembler) Current() uint32 { return a.current }

// MakeLabel creates a new, unbound label.
func (a *Assembler) MakeLabel() Label {
	a.labels = append(a.labels, badAddress)
	return Label(len(a.labels) - 1)
}

func (a *Assembler) addressOf(label Label) (uint32, bool) {
	if addr := a.labels[label]; addr != badAddress {
		return addr, true
	}
	return 0, false
}

func (a *Assembler) addFixup(label Label, kind fixupKind) {
	if a.fixups == nil {
		a.fixups = make(map[Label][]fixup)
	}
	a.fixups[label] = append(a.fixups[label], fixup{target: a.current, kind: kind})
}

// resolveFixup patches the referencing word now that the label's address is
// known. Words are held in wire order, so the patch round-trips through the
// host representation.
func (a *Assembler) resolveFixup(f fixup, address uint32) {
	word := AsLE32(a.code[f.target/4])
	switch f.kind {
	case fixupOffs12:
		word = word&0x000fffff | encOffs12(int32(address-f.target))
	case fixupOffs20:
		word = word&0x00000fff | encOffs20(int32(address-f.target))
	case fixupHi20:
		word = word&0x00000fff | encUimm20(address)
	case fixupLo12:
		word = word&0x000fffff | encImm12(int32(address&0xfff))
	}
	a.code[f.target/4] = AsLE32(word)
}

// BindLabel binds label to the current position and patches every word that
// referenced it ahead of time.
func (a *Assembler) BindLabel(label Label) {
	address := a.current
	a.labels[label] = address
	for _, f := range a.fixups[label] {
		a.resolveFixup(f, address)
	}
	delete(a.fixups, label)
}

// Code returns the assembled program as wire-order words. It fails if any
// emitted instruction still references an unbound label.
func (a *Assembler) Code() ([]uint32, error) {
	if len(a.fixups) != 0 {
		return nil, errors.New("there are unbound labels")
	}
	return a.code, nil
}

// Emit appends one instruction word, converting it to wire order, and
// returns the word as emitted.
func (a *Assembler) Emit(u uint32) uint32 {
	a.code = append(a.code, AsLE32(u))
	a.current += 4
	return u
}

// Word emits a raw data word.
func (a *Assembler) Word(u uint32) uint32 {
	return a.Emit(u)
}

// Hi yields bits [31:12] of label's address, positioned for Lui. Forward
// references emit zero and are patched when the label is bound.
func (a *Assembler) Hi(label Label) uint32 {
	if addr, ok := a.addressOf(label); ok {
		return encUimm20(addr)
	}
	a.addFixup(label, fixupHi20)
	return 0
}

// Lo yields bits [11:0] of label's address, for the addi of a lui/addi pair.
// Forward references emit zero and are patched when the label is bound.
func (a *Assembler) Lo(label Label) int32 {
	if addr, ok := a.addressOf(label); ok {
		return int32(addr & 0xfff)
	}
	a.addFixup(label, fixupLo12)
	return 0
}

// ===== System instructions =====

func (a *Assembler) Ecall() uint32 {
	return a.Emit(encOpcode(OP_ECALL))
}

func (a *Assembler) Ebreak() uint32 {
	return a.Emit(encOpcode(OP_EBREAK))
}

// ===== Register-register instructions =====

func (a *Assembler) alu(op Opcode, rd, rs1, rs2 uint32) uint32 {
	return a.Emit(encOpcode(op) | encRd(rd) | encRs1(rs1) | encRs2(rs2))
}

func (a *Assembler) Add(rd, rs1, rs2 uint32) uint32  { return a.alu(OP_ADD, rd, rs1, rs2) }
func (a *Assembler) Sub(rd, rs1, rs2 uint32) uint32  { return a.alu(OP_SUB, rd, rs1, rs2) }
func (a *Assembler) Sll(rd, rs1, rs2 uint32) uint32  { return a.alu(OP_SLL, rd, rs1, rs2) }
func (a *Assembler) Slt(rd, rs1, rs2 uint32) uint32  { return a.alu(OP_SLT, rd, rs1, rs2) }
func (a *Assembler) Sltu(rd, rs1, rs2 uint32) uint32 { return a.alu(OP_SLTU, rd, rs1, rs2) }
func (a *Assembler) Xor(rd, rs1, rs2 uint32) uint32  { return a.alu(OP_XOR, rd, rs1, rs2) }
func (a *Assembler) Srl(rd, rs1, rs2 uint32) uint32  { return a.alu(OP_SRL, rd, rs1, rs2) }
func (a *Assembler) Sra(rd, rs1, rs2 uint32) uint32  { return a.alu(OP_SRA, rd, rs1, rs2) }
func (a *Assembler) Or(rd, rs1, rs2 uint32) uint32   { return a.alu(OP_OR, rd, rs1, rs2) }
func (a *Assembler) And(rd, rs1, rs2 uint32) uint32  { return a.alu(OP_AND, rd, rs1, rs2) }

// ===== Immediate shift instructions =====

func (a *Assembler) shiftImm(op Opcode, rd, rs1, shamt uint32) uint32 {
	return a.Emit(encOpcode(op) | encRd(rd) | encRs1(rs1) | encShamt(shamt))
}

func (a *Assembler) Slli(rd, rs1, shamt uint32) uint32 { return a.shiftImm(OP_SLLI, rd, rs1, shamt) }
func (a *Assembler) Srli(rd, rs1, shamt uint32) uint32 { return a.shiftImm(OP_SRLI, rd, rs1, shamt) }
func (a *Assembler) Srai(rd, rs1, shamt uint32) uint32 { return a.shiftImm(OP_SRAI, rd, rs1, shamt) }

// ===== Branch instructions =====
//
// Branches pack their source registers into the rd and rs1 slots. Each has a
// literal-offset form and a label form; the label form records a fixup when
// the label is still unbound.

func (a *Assembler) branch(op Opcode, rs1, rs2 uint32, offs int32) uint32 {
	return a.Emit(encOpcode(op) | encRd(rs1) | encRs1(rs2) | encOffs12(offs))
}

func (a *Assembler) branchLabel(op Opcode, rs1, rs2 uint32, label Label) uint32 {
	if addr, ok := a.addressOf(label); ok {
		return a.branch(op, rs1, rs2, int32(addr-a.current))
	}
	a.addFixup(label, fixupOffs12)
	return a.branch(op, rs1, rs2, 0)
}

func (a *Assembler) Beq(rs1, rs2 uint32, offs int32) uint32  { return a.branch(OP_BEQ, rs1, rs2, offs) }
func (a *Assembler) Bne(rs1, rs2 uint32, offs int32) uint32  { return a.branch(OP_BNE, rs1, rs2, offs) }
func (a *Assembler) Blt(rs1, rs2 uint32, offs int32) uint32  { return a.branch(OP_BLT, rs1, rs2, offs) }
func (a *Assembler) Bge(rs1, rs2 uint32, offs int32) uint32  { return a.branch(OP_BGE, rs1, rs2, offs) }
func (a *Assembler) Bltu(rs1, rs2 uint32, offs int32) uint32 { return a.branch(OP_BLTU, rs1, rs2, offs) }
func (a *Assembler) Bgeu(rs1, rs2 uint32, offs int32) uint32 { return a.branch(OP_BGEU, rs1, rs2, offs) }

func (a *Assembler) BeqLabel(rs1, rs2 uint32, label Label) uint32 {
	return a.branchLabel(OP_BEQ, rs1, rs2, label)
}

func (a *Assembler) BneLabel(rs1, rs2 uint32, label Label) uint32 {
	return a.branchLabel(OP_BNE, rs1, rs2, label)
}

func (a *Assembler) BltLabel(rs1, rs2 uint32, label Label) uint32 {
	return a.branchLabel(OP_BLT, rs1, rs2, label)
}

func (a *Assembler) BgeLabel(rs1, rs2 uint32, label Label) uint32 {
	return a.branchLabel(OP_BGE, rs1, rs2, label)
}

func (a *Assembler) BltuLabel(rs1, rs2 uint32, label Label) uint32 {
	return a.branchLabel(OP_BLTU, rs1, rs2, label)
}

func (a *Assembler) BgeuLabel(rs1, rs2 uint32, label Label) uint32 {
	return a.branchLabel(OP_BGEU, rs1, rs2, label)
}

// ===== Register-immediate instructions =====

func (a *Assembler) aluImm(op Opcode, rd, rs1 uint32, imm int32) uint32 {
	return a.Emit(encOpcode(op) | encRd(rd) | encRs1(rs1) | encImm12(imm))
}

func (a *Assembler) Addi(rd, rs1 uint32, imm int32) uint32  { return a.aluImm(OP_ADDI, rd, rs1, imm) }
func (a *Assembler) Slti(rd, rs1 uint32, imm int32) uint32  { return a.aluImm(OP_SLTI, rd, rs1, imm) }
func (a *Assembler) Sltiu(rd, rs1 uint32, imm int32) uint32 { return a.aluImm(OP_SLTIU, rd, rs1, imm) }
func (a *Assembler) Xori(rd, rs1 uint32, imm int32) uint32  { return a.aluImm(OP_XORI, rd, rs1, imm) }
func (a *Assembler) Ori(rd, rs1 uint32, imm int32) uint32   { return a.aluImm(OP_ORI, rd, rs1, imm) }
func (a *Assembler) Andi(rd, rs1 uint32, imm int32) uint32  { return a.aluImm(OP_ANDI, rd, rs1, imm) }

// ===== Load and store instructions =====
//
// Loads and stores share one layout: the data register in the rd slot, the
// base register in the rs1 slot, the displacement as imm12.

func (a *Assembler) loadStore(op Opcode, data uint32, imm int32, base uint32) uint32 {
	return a.Emit(encOpcode(op) | encRd(data) | encRs1(base) | encImm12(imm))
}

func (a *Assembler) Lb(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.loadStore(OP_LB, rd, imm, rs1)
}

func (a *Assembler) Lbu(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.loadStore(OP_LBU, rd, imm, rs1)
}

func (a *Assembler) Lh(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.loadStore(OP_LH, rd, imm, rs1)
}

func (a *Assembler) Lhu(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.loadStore(OP_LHU, rd, imm, rs1)
}

func (a *Assembler) Lw(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.loadStore(OP_LW, rd, imm, rs1)
}

func (a *Assembler) Sb(rs2 uint32, imm int32, rs1 uint32) uint32 {
	return a.loadStore(OP_SB, rs2, imm, rs1)
}

func (a *Assembler) Sh(rs2 uint32, imm int32, rs1 uint32) uint32 {
	return a.loadStore(OP_SH, rs2, imm, rs1)
}

func (a *Assembler) Sw(rs2 uint32, imm int32, rs1 uint32) uint32 {
	return a.loadStore(OP_SW, rs2, imm, rs1)
}

// ===== Memory ordering instructions =====

func (a *Assembler) Fence() uint32 {
	return a.Emit(encOpcode(OP_FENCE))
}

// ===== Subroutine call instructions =====

func (a *Assembler) Jalr(rd uint32, offs int32, rs1 uint32) uint32 {
	return a.Emit(encOpcode(OP_JALR) | encRd(rd) | encRs1(rs1) | encImm12(offs))
}

func (a *Assembler) Jal(rd uint32, offs int32) uint32 {
	return a.Emit(encOpcode(OP_JAL) | encRd(rd) | encOffs20(offs))
}

func (a *Assembler) JalLabel(rd uint32, label Label) uint32 {
	if addr, ok := a.addressOf(label); ok {
		return a.Jal(rd, int32(addr-a.current))
	}
	a.addFixup(label, fixupOffs20)
	return a.Jal(rd, 0)
}

// ===== Miscellaneous instructions =====

func (a *Assembler) Lui(rd, uimm uint32) uint32 {
	return a.Emit(encOpcode(OP_LUI) | encRd(rd) | encUimm20(uimm))
}

func (a *Assembler) Auipc(rd, uimm uint32) uint32 {
	return a.Emit(encOpcode(OP_AUIPC) | encRd(rd) | encUimm20(uimm))
}

// ===== Owl-2820 only instructions =====

func (a *Assembler) jump(op Opcode, offs int32) uint32 {
	return a.Emit(encOpcode(op) | encOffs20(offs))
}

func (a *Assembler) jumpLabel(op Opcode, label Label) uint32 {
	if addr, ok := a.addressOf(label); ok {
		return a.jump(op, int32(addr-a.current))
	}
	a.addFixup(label, fixupOffs20)
	return a.jump(op, 0)
}

func (a *Assembler) J(offs int32) uint32    { return a.jump(OP_J, offs) }
func (a *Assembler) Call(offs int32) uint32 { return a.jump(OP_CALL, offs) }

func (a *Assembler) JLabel(label Label) uint32    { return a.jumpLabel(OP_J, label) }
func (a *Assembler) CallLabel(label Label) uint32 { return a.jumpLabel(OP_CALL, label) }

func (a *Assembler) Ret() uint32 {
	return a.Emit(encOpcode(OP_RET))
}

func (a *Assembler) Li(rd uint32, imm int32) uint32 {
	return a.Emit(encOpcode(OP_LI) | encRd(rd) | encImm12(imm))
}

func (a *Assembler) Mv(rd, rs uint32) uint32 {
	return a.Emit(encOpcode(OP_MV) | encRd(rd) | encRs1(rs))
}

// Illegal emits an illegal word in place of an unrecognized one, keeping
// program addresses intact when transcoding.
func (a *Assembler) Illegal(ins uint32) uint32 {
	return a.Emit(encOpcode(OP_ILLEGAL))
}
