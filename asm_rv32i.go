// asm_rv32i.go - RV32I machine code assembler

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

// RV32I format packers. Each scatters its operands into the standard RISC-V
// field positions; the B and J packers are the inverses of the immediate
// extractors in dispatch_rv32i.go.

func rv32R(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return funct7<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | funct3<<12 | (rd&0x1f)<<7 | opcode
}

func rv32I(opcode, funct3, rd, rs1 uint32, imm int32) uint32 {
	return uint32(imm)<<20 | (rs1&0x1f)<<15 | funct3<<12 | (rd&0x1f)<<7 | opcode
}

func rv32S(opcode, funct3, rs1, rs2 uint32, imm int32) uint32 {
	u := uint32(imm)
	return (u>>5&0x7f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 | funct3<<12 | (u&0x1f)<<7 | opcode
}

func rv32B(opcode, funct3, rs1, rs2 uint32, offs int32) uint32 {
	u := uint32(offs)
	return (u>>12&0x1)<<31 | (u>>5&0x3f)<<25 | (rs2&0x1f)<<20 | (rs1&0x1f)<<15 |
		funct3<<12 | (u>>1&0xf)<<8 | (u>>11&0x1)<<7 | opcode
}

func rv32U(opcode, rd, uimm uint32) uint32 {
	return uimm&0xfffff000 | (rd&0x1f)<<7 | opcode
}

func rv32J(opcode, rd uint32, offs int32) uint32 {
	u := uint32(offs)
	return (u>>20&0x1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&0x1)<<20 | (u>>12&0xff)<<12 |
		(rd&0x1f)<<7 | opcode
}

// RV32Assembler emits RV32I machine code a word at a time. Like Assembler it
// is an InstructionHandler producing the emitted word, which makes it the
// back end of the Owl-2820 to RV32I transcoder. The Owl-2820 only
// instructions assemble to their standard RV32I pseudo-instruction idioms.
//
// The zero value is an empty assembler ready for use.
type RV32Assembler struct {
	code    []uint32 // assembled words, in wire order
	current uint32   // byte offset of the next word to be emitted
}

func NewRV32Assembler() *RV32Assembler {
	return &RV32Assembler{}
}

// Current returns the byte offset at which the next word will be emitted.
func (a *RV32Assembler) Current() uint32 { return a.current }

// Code returns the assembled program as wire-order words.
func (a *RV32Assembler) Code() []uint32 { return a.code }

// Emit appends one instruction word, converting it to wire order, and
// returns the word as emitted.
func (a *RV32Assembler) Emit(u uint32) uint32 {
	a.code = append(a.code, AsLE32(u))
	a.current += 4
	return u
}

// Word emits a raw data word.
func (a *RV32Assembler) Word(u uint32) uint32 {
	return a.Emit(u)
}

// ===== System instructions =====

func (a *RV32Assembler) Ecall() uint32  { return a.Emit(0x00000073) }
func (a *RV32Assembler) Ebreak() uint32 { return a.Emit(0x00100073) }

// ===== Register-register instructions =====

func (a *RV32Assembler) Add(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 0, 0x00, rd, rs1, rs2))
}

func (a *RV32Assembler) Sub(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 0, 0x20, rd, rs1, rs2))
}

func (a *RV32Assembler) Sll(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 1, 0x00, rd, rs1, rs2))
}

func (a *RV32Assembler) Slt(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 2, 0x00, rd, rs1, rs2))
}

func (a *RV32Assembler) Sltu(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 3, 0x00, rd, rs1, rs2))
}

func (a *RV32Assembler) Xor(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 4, 0x00, rd, rs1, rs2))
}

func (a *RV32Assembler) Srl(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 5, 0x00, rd, rs1, rs2))
}

func (a *RV32Assembler) Sra(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 5, 0x20, rd, rs1, rs2))
}

func (a *RV32Assembler) Or(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 6, 0x00, rd, rs1, rs2))
}

func (a *RV32Assembler) And(rd, rs1, rs2 uint32) uint32 {
	return a.Emit(rv32R(0x33, 7, 0x00, rd, rs1, rs2))
}

// ===== Immediate shift instructions =====
//
// Shift immediates use the R layout with the shift amount in the rs2 slot.

func (a *RV32Assembler) Slli(rd, rs1, shamt uint32) uint32 {
	return a.Emit(rv32R(0x13, 1, 0x00, rd, rs1, shamt))
}

func (a *RV32Assembler) Srli(rd, rs1, shamt uint32) uint32 {
	return a.Emit(rv32R(0x13, 5, 0x00, rd, rs1, shamt))
}

func (a *RV32Assembler) Srai(rd, rs1, shamt uint32) uint32 {
	return a.Emit(rv32R(0x13, 5, 0x20, rd, rs1, shamt))
}

// ===== Branch instructions =====

func (a *RV32Assembler) Beq(rs1, rs2 uint32, offs int32) uint32 {
	return a.Emit(rv32B(0x63, 0, rs1, rs2, offs))
}

func (a *RV32Assembler) Bne(rs1, rs2 uint32, offs int32) uint32 {
	return a.Emit(rv32B(0x63, 1, rs1, rs2, offs))
}

func (a *RV32Assembler) Blt(rs1, rs2 uint32, offs int32) uint32 {
	return a.Emit(rv32B(0x63, 4, rs1, rs2, offs))
}

func (a *RV32Assembler) Bge(rs1, rs2 uint32, offs int32) uint32 {
	return a.Emit(rv32B(0x63, 5, rs1, rs2, offs))
}

func (a *RV32Assembler) Bltu(rs1, rs2 uint32, offs int32) uint32 {
	return a.Emit(rv32B(0x63, 6, rs1, rs2, offs))
}

func (a *RV32Assembler) Bgeu(rs1, rs2 uint32, offs int32) uint32 {
	return a.Emit(rv32B(0x63, 7, rs1, rs2, offs))
}

// ===== Register-immediate instructions =====

func (a *RV32Assembler) Addi(rd, rs1 uint32, imm int32) uint32 {
	return a.Emit(rv32I(0x13, 0, rd, rs1, imm))
}

func (a *RV32Assembler) Slti(rd, rs1 uint32, imm int32) uint32 {
	return a.Emit(rv32I(0x13, 2, rd, rs1, imm))
}

func (a *RV32Assembler) Sltiu(rd, rs1 uint32, imm int32) uint32 {
	return a.Emit(rv32I(0x13, 3, rd, rs1, imm))
}

func (a *RV32Assembler) Xori(rd, rs1 uint32, imm int32) uint32 {
	return a.Emit(rv32I(0x13, 4, rd, rs1, imm))
}

func (a *RV32Assembler) Ori(rd, rs1 uint32, imm int32) uint32 {
	return a.Emit(rv32I(0x13, 6, rd, rs1, imm))
}

func (a *RV32Assembler) Andi(rd, rs1 uint32, imm int32) uint32 {
	return a.Emit(rv32I(0x13, 7, rd, rs1, imm))
}

// ===== Load and store instructions =====

func (a *RV32Assembler) Lb(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.Emit(rv32I(0x03, 0, rd, rs1, imm))
}

func (a *RV32Assembler) Lbu(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.Emit(rv32I(0x03, 4, rd, rs1, imm))
}

func (a *RV32Assembler) Lh(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.Emit(rv32I(0x03, 1, rd, rs1, imm))
}

func (a *RV32Assembler) Lhu(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.Emit(rv32I(0x03, 5, rd, rs1, imm))
}

func (a *RV32Assembler) Lw(rd uint32, imm int32, rs1 uint32) uint32 {
	return a.Emit(rv32I(0x03, 2, rd, rs1, imm))
}

func (a *RV32Assembler) Sb(rs2 uint32, imm int32, rs1 uint32) uint32 {
	return a.Emit(rv32S(0x23, 0, rs1, rs2, imm))
}

func (a *RV32Assembler) Sh(rs2 uint32, imm int32, rs1 uint32) uint32 {
	return a.Emit(rv32S(0x23, 1, rs1, rs2, imm))
}

func (a *RV32Assembler) Sw(rs2 uint32, imm int32, rs1 uint32) uint32 {
	return a.Emit(rv32S(0x23, 2, rs1, rs2, imm))
}

// ===== Memory ordering instructions =====

func (a *RV32Assembler) Fence() uint32 {
	return a.Emit(0x0000000f)
}

// ===== Subroutine call instructions =====

func (a *RV32Assembler) Jalr(rd uint32, offs int32, rs1 uint32) uint32 {
	return a.Emit(rv32I(0x67, 0, rd, rs1, offs))
}

func (a *RV32Assembler) Jal(rd uint32, offs int32) uint32 {
	return a.Emit(rv32J(0x6f, rd, offs))
}

// ===== Miscellaneous instructions =====

func (a *RV32Assembler) Lui(rd, uimm uint32) uint32 {
	return a.Emit(rv32U(0x37, rd, uimm))
}

func (a *RV32Assembler) Auipc(rd, uimm uint32) uint32 {
	return a.Emit(rv32U(0x17, rd, uimm))
}

// ===== Pseudo-instructions =====

func (a *RV32Assembler) J(offs int32) uint32 {
	return a.Jal(ZERO, offs)
}

func (a *RV32Assembler) Call(offs int32) uint32 {
	return a.Jal(RA, offs)
}

func (a *RV32Assembler) Ret() uint32 {
	return a.Jalr(ZERO, 0, RA)
}

func (a *RV32Assembler) Li(rd uint32, imm int32) uint32 {
	return a.Addi(rd, ZERO, imm)
}

func (a *RV32Assembler) Mv(rd, rs uint32) uint32 {
	return a.Addi(rd, rs, 0)
}

// Illegal emits the all-zero word, which no RV32I pattern matches, keeping
// program addresses intact when transcoding.
func (a *RV32Assembler) Illegal(ins uint32) uint32 {
	return a.Emit(0)
}
