// disasm_owl.go - Disassembler producing assembly text with pseudo-instruction folding

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

import "fmt"

// Disassembler renders instructions as assembly text. It is an
// InstructionHandler whose Item is string, so the same Disassembler value
// works behind either dispatcher. Common pseudo-instruction idioms are
// folded back to their short forms: addi rd, zero, imm reads as li,
// addi rd, rs, 0 as mv, jalr zero, 0(ra) as ret.
type Disassembler struct{}

func fmtR3(mnemonic string, rd, rs1, rs2 uint32) string {
	return fmt.Sprintf("%s %s, %s, %s", mnemonic, regNames[rd], regNames[rs1], regNames[rs2])
}

func fmtShift(mnemonic string, rd, rs1, shamt uint32) string {
	return fmt.Sprintf("%s %s, %s, %d", mnemonic, regNames[rd], regNames[rs1], shamt)
}

func fmtBranch(mnemonic string, rs1, rs2 uint32, offs int32) string {
	return fmt.Sprintf("%s %s, %s, %d", mnemonic, regNames[rs1], regNames[rs2], offs)
}

func fmtImm(mnemonic string, rd, rs1 uint32, imm int32) string {
	return fmt.Sprintf("%s %s, %s, %d", mnemonic, regNames[rd], regNames[rs1], imm)
}

func fmtMem(mnemonic string, data uint32, imm int32, base uint32) string {
	return fmt.Sprintf("%s %s, %d(%s)", mnemonic, regNames[data], imm, regNames[base])
}

// ===== System instructions =====

func (Disassembler) Ecall() string  { return "ecall" }
func (Disassembler) Ebreak() string { return "ebreak" }

// ===== Register-register instructions =====

func (Disassembler) Add(rd, rs1, rs2 uint32) string  { return fmtR3("add", rd, rs1, rs2) }
func (Disassembler) Sub(rd, rs1, rs2 uint32) string  { return fmtR3("sub", rd, rs1, rs2) }
func (Disassembler) Sll(rd, rs1, rs2 uint32) string  { return fmtR3("sll", rd, rs1, rs2) }
func (Disassembler) Slt(rd, rs1, rs2 uint32) string  { return fmtR3("slt", rd, rs1, rs2) }
func (Disassembler) Sltu(rd, rs1, rs2 uint32) string { return fmtR3("sltu", rd, rs1, rs2) }
func (Disassembler) Xor(rd, rs1, rs2 uint32) string  { return fmtR3("xor", rd, rs1, rs2) }
func (Disassembler) Srl(rd, rs1, rs2 uint32) string  { return fmtR3("srl", rd, rs1, rs2) }
func (Disassembler) Sra(rd, rs1, rs2 uint32) string  { return fmtR3("sra", rd, rs1, rs2) }
func (Disassembler) Or(rd, rs1, rs2 uint32) string   { return fmtR3("or", rd, rs1, rs2) }
func (Disassembler) And(rd, rs1, rs2 uint32) string  { return fmtR3("and", rd, rs1, rs2) }

// ===== Immediate shift instructions =====

func (Disassembler) Slli(rd, rs1, shamt uint32) string { return fmtShift("slli", rd, rs1, shamt) }
func (Disassembler) Srli(rd, rs1, shamt uint32) string { return fmtShift("srli", rd, rs1, shamt) }
func (Disassembler) Srai(rd, rs1, shamt uint32) string { return fmtShift("srai", rd, rs1, shamt) }

// ===== Branch instructions =====

func (Disassembler) Beq(rs1, rs2 uint32, offs int32) string  { return fmtBranch("beq", rs1, rs2, offs) }
func (Disassembler) Bne(rs1, rs2 uint32, offs int32) string  { return fmtBranch("bne", rs1, rs2, offs) }
func (Disassembler) Blt(rs1, rs2 uint32, offs int32) string  { return fmtBranch("blt", rs1, rs2, offs) }
func (Disassembler) Bge(rs1, rs2 uint32, offs int32) string  { return fmtBranch("bge", rs1, rs2, offs) }
func (Disassembler) Bltu(rs1, rs2 uint32, offs int32) string { return fmtBranch("bltu", rs1, rs2, offs) }
func (Disassembler) Bgeu(rs1, rs2 uint32, offs int32) string { return fmtBranch("bgeu", rs1, rs2, offs) }

// ===== Register-immediate instructions =====

// Addi folds the li and mv idioms.
func (d Disassembler) Addi(rd, rs1 uint32, imm int32) string {
	if rs1 == ZERO {
		return d.Li(rd, imm)
	}
	if imm == 0 {
		return d.Mv(rd, rs1)
	}
	return fmtImm("addi", rd, rs1, imm)
}

func (Disassembler) Slti(rd, rs1 uint32, imm int32) string  { return fmtImm("slti", rd, rs1, imm) }
func (Disassembler) Sltiu(rd, rs1 uint32, imm int32) string { return fmtImm("sltiu", rd, rs1, imm) }
func (Disassembler) Xori(rd, rs1 uint32, imm int32) string  { return fmtImm("xori", rd, rs1, imm) }
func (Disassembler) Ori(rd, rs1 uint32, imm int32) string   { return fmtImm("ori", rd, rs1, imm) }
func (Disassembler) Andi(rd, rs1 uint32, imm int32) string  { return fmtImm("andi", rd, rs1, imm) }

// ===== Load and store instructions =====

func (Disassembler) Lb(rd uint32, imm int32, rs1 uint32) string  { return fmtMem("lb", rd, imm, rs1) }
func (Disassembler) Lbu(rd uint32, imm int32, rs1 uint32) string { return fmtMem("lbu", rd, imm, rs1) }
func (Disassembler) Lh(rd uint32, imm int32, rs1 uint32) string  { return fmtMem("lh", rd, imm, rs1) }
func (Disassembler) Lhu(rd uint32, imm int32, rs1 uint32) string { return fmtMem("lhu", rd, imm, rs1) }
func (Disassembler) Lw(rd uint32, imm int32, rs1 uint32) string  { return fmtMem("lw", rd, imm, rs1) }
func (Disassembler) Sb(rs2 uint32, imm int32, rs1 uint32) string { return fmtMem("sb", rs2, imm, rs1) }
func (Disassembler) Sh(rs2 uint32, imm int32, rs1 uint32) string { return fmtMem("sh", rs2, imm, rs1) }
func (Disassembler) Sw(rs2 uint32, imm int32, rs1 uint32) string { return fmtMem("sw", rs2, imm, rs1) }

// ===== Memory ordering instructions =====

func (Disassembler) Fence() string { return "fence" }

// ===== Subroutine call instructions =====

// Jalr folds the ret idiom.
func (d Disassembler) Jalr(rd uint32, offs int32, rs1 uint32) string {
	if rd == ZERO && offs == 0 && rs1 == RA {
		return d.Ret()
	}
	return fmtMem("jalr", rd, offs, rs1)
}

// Jal folds jumps that link through ra to the short form.
func (Disassembler) Jal(rd uint32, offs int32) string {
	if rd == RA {
		return fmt.Sprintf("jal %d", offs)
	}
	return fmt.Sprintf("jal %s, %d", regNames[rd], offs)
}

// ===== Miscellaneous instructions =====

func (Disassembler) Lui(rd, uimm uint32) string {
	return fmt.Sprintf("lui %s, %d", regNames[rd], uimm>>12)
}

func (Disassembler) Auipc(rd, uimm uint32) string {
	return fmt.Sprintf("auipc %s, %d", regNames[rd], uimm>>12)
}

// ===== Owl-2820 only instructions =====

func (Disassembler) J(offs int32) string    { return fmt.Sprintf("j %d", offs) }
func (Disassembler) Call(offs int32) string { return fmt.Sprintf("call %d", offs) }
func (Disassembler) Ret() string            { return "ret" }

func (Disassembler) Li(rd uint32, imm int32) string {
	return fmt.Sprintf("li %s, %d", regNames[rd], imm)
}

func (Disassembler) Mv(rd, rs uint32) string {
	return fmt.Sprintf("mv %s, %s", regNames[rd], regNames[rs])
}

func (Disassembler) Illegal(ins uint32) string {
	return fmt.Sprintf("illegal %08x", ins)
}
