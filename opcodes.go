// opcodes.go - Owl-2820 opcode, register and syscall definitions

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

Owl-2820 — a 32-bit register VM binary-compatible with an RV32I subset
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Owl2820
License: GPLv3 or later
*/

package owl2820

// Opcode is the 7-bit instruction tag held in bits [6:0] of every Owl-2820
// instruction word. The numbering is part of the binary format and must not
// be reordered.
type Opcode uint32

const (
	OP_ILLEGAL Opcode = iota // sentinel for unrecognized encodings

	// System instructions
	OP_ECALL
	OP_EBREAK

	// Register-register instructions
	OP_ADD
	OP_SUB
	OP_SLL
	OP_SLT
	OP_SLTU
	OP_XOR
	OP_SRL
	OP_SRA
	OP_OR
	OP_AND

	// Immediate shift instructions
	OP_SLLI
	OP_SRLI
	OP_SRAI

	// Branch instructions
	OP_BEQ
	OP_BNE
	OP_BLT
	OP_BGE
	OP_BLTU
	OP_BGEU

	// Register-immediate instructions
	OP_ADDI
	OP_SLTI
	OP_SLTIU
	OP_XORI
	OP_ORI
	OP_ANDI

	// Load instructions
	OP_LB
	OP_LBU
	OP_LH
	OP_LHU
	OP_LW

	// Store instructions
	OP_SB
	OP_SH
	OP_SW

	// Memory ordering instructions
	OP_FENCE

	// Subroutine call instructions
	OP_JALR
	OP_JAL

	// Miscellaneous instructions
	OP_LUI
	OP_AUIPC

	// Owl-2820 only instructions
	OP_J
	OP_CALL
	OP_RET
	OP_LI
	OP_MV
)

// Symbolic register names. These follow the RV32I ABI and are purely
// documentation aliases for the indices 0..31. Register 0 (ZERO) is
// hardwired to read as zero.
const (
	ZERO = iota // x0, always zero
	RA          // return address (the link register)
	SP          // stack pointer
	GP          // global pointer
	TP          // thread pointer
	T0
	T1
	T2
	S0
	S1
	A0 // argument / return value registers
	A1
	A2
	A3
	A4
	A5
	A6
	A7 // syscall number
	S2
	S3
	S4
	S5
	S6
	S7
	S8
	S9
	S10
	S11
	T3
	T4
	T5
	T6
)

// regNames maps register indices to their ABI names for disassembly.
var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Syscall numbers recognized by Ecall. The syscall number is taken from a7,
// arguments from a0/a1.
type Syscall uint32

const (
	SYS_EXIT      Syscall = iota // a0 = exit status
	SYS_PRINT_FIB                // a0 = index, a1 = value
)
