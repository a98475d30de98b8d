// handler.go - The instruction handler interface driven by the dispatchers

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

// InstructionHandler is implemented by anything that can be driven by the
// instruction dispatchers: one method per instruction, taking fully decoded
// operands. The same handler works unchanged behind every supported binary
// encoding because the dispatchers do all field extraction.
//
// Item is whatever a handler produces per instruction: the OwlCPU executes
// and produces error, the assemblers produce the emitted uint32 word, the
// Disassembler produces a string.
//
// Branch and jump offsets are byte offsets relative to the address of the
// instruction itself. Upper immediates (Lui, Auipc) arrive with the value
// already positioned in bits [31:12].
type InstructionHandler[Item any] interface {
	// System instructions.
	Ecall() Item
	Ebreak() Item

	// Register-register instructions.
	Add(rd, rs1, rs2 uint32) Item
	Sub(rd, rs1, rs2 uint32) Item
	Sll(rd, rs1, rs2 uint32) Item
	Slt(rd, rs1, rs2 uint32) Item
	Sltu(rd, rs1, rs2 uint32) Item
	Xor(rd, rs1, rs2 uint32) Item
	Srl(rd, rs1, rs2 uint32) Item
	Sra(rd, rs1, rs2 uint32) Item
	Or(rd, rs1, rs2 uint32) Item
	And(rd, rs1, rs2 uint32) Item

	// Immediate shift instructions.
	Slli(rd, rs1, shamt uint32) Item
	Srli(rd, rs1, shamt uint32) Item
	Srai(rd, rs1, shamt uint32) Item

	// Branch instructions.
	Beq(rs1, rs2 uint32, offs int32) Item
	Bne(rs1, rs2 uint32, offs int32) Item
	Blt(rs1, rs2 uint32, offs int32) Item
	Bge(rs1, rs2 uint32, offs int32) Item
	Bltu(rs1, rs2 uint32, offs int32) Item
	Bgeu(rs1, rs2 uint32, offs int32) Item

	// Register-immediate instructions.
	Addi(rd, rs1 uint32, imm int32) Item
	Slti(rd, rs1 uint32, imm int32) Item
	Sltiu(rd, rs1 uint32, imm int32) Item
	Xori(rd, rs1 uint32, imm int32) Item
	Ori(rd, rs1 uint32, imm int32) Item
	Andi(rd, rs1 uint32, imm int32) Item

	// Load instructions: rd <- memory[rs1 + imm].
	Lb(rd uint32, imm int32, rs1 uint32) Item
	Lbu(rd uint32, imm int32, rs1 uint32) Item
	Lh(rd uint32, imm int32, rs1 uint32) Item
	Lhu(rd uint32, imm int32, rs1 uint32) Item
	Lw(rd uint32, imm int32, rs1 uint32) Item

	// Store instructions: memory[rs1 + imm] <- rs2.
	Sb(rs2 uint32, imm int32, rs1 uint32) Item
	Sh(rs2 uint32, imm int32, rs1 uint32) Item
	Sw(rs2 uint32, imm int32, rs1 uint32) Item

	// Memory ordering instructions.
	Fence() Item

	// Subroutine call instructions.
	Jalr(rd uint32, offs int32, rs1 uint32) Item
	Jal(rd uint32, offs int32) Item

	// Miscellaneous instructions.
	Lui(rd, uimm uint32) Item
	Auipc(rd, uimm uint32) Item

	// Owl-2820 only instructions. On the RV32I side these correspond to the
	// usual pseudo-instruction idioms.
	J(offs int32) Item
	Call(offs int32) Item
	Ret() Item
	Li(rd uint32, imm int32) Item
	Mv(rd, rs uint32) Item

	// Illegal receives the raw, undecoded word.
	Illegal(ins uint32) Item
}
