// dispatch_owl.go - Decoding and dispatch of Owl-2820 instruction words

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

// Owl-2820 instruction word layout. Bits [6:0] hold the Opcode; operands are
// packed into the remaining bits depending on the operand class:
//
//	rd    [11:7]    destination register (source value for stores)
//	rs1   [16:12]   first source register (base register for loads/stores)
//	rs2   [21:17]   second source register, or a 5-bit shift amount
//	imm12 [31:20]   12-bit signed immediate
//	offs12 [31:20]  branch offset: bits [12:1] of a signed byte offset
//	offs20 [31:12]  jump offset: bits [20:1] of a signed byte offset
//	uimm20 [31:12]  upper immediate, stored in place
//
// Branch and jump offsets drop the offset's low bit, which is always zero
// for 4-byte aligned instructions.

func owlRd(ins uint32) uint32    { return (ins >> 7) & 0x1f }
func owlRs1(ins uint32) uint32   { return (ins >> 12) & 0x1f }
func owlRs2(ins uint32) uint32   { return (ins >> 17) & 0x1f }
func owlShamt(ins uint32) uint32 { return (ins >> 17) & 0x1f }

// The arithmetic right shifts below sign extend from the field's top bit.
func owlImm12(ins uint32) int32   { return int32(ins&0xfff00000) >> 20 }
func owlOffs12(ins uint32) int32  { return int32(ins&0xfff00000) >> 19 }
func owlOffs20(ins uint32) int32  { return int32(ins&0xfffff000) >> 11 }
func owlUimm20(ins uint32) uint32 { return ins & 0xfffff000 }

// DispatchOwl decodes one Owl-2820 instruction word and invokes the matching
// handler method. Words with an unknown opcode go to Illegal. The Item type
// parameter cannot be inferred from the arguments, so calls spell it out,
// e.g. DispatchOwl[error](cpu, ins).
func DispatchOwl[Item any](h InstructionHandler[Item], ins uint32) Item {
	switch Opcode(ins & 0x7f) {
	case OP_ECALL:
		return h.Ecall()
	case OP_EBREAK:
		return h.Ebreak()
	case OP_ADD:
		return h.Add(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_SUB:
		return h.Sub(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_SLL:
		return h.Sll(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_SLT:
		return h.Slt(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_SLTU:
		return h.Sltu(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_XOR:
		return h.Xor(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_SRL:
		return h.Srl(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_SRA:
		return h.Sra(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_OR:
		return h.Or(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_AND:
		return h.And(owlRd(ins), owlRs1(ins), owlRs2(ins))
	case OP_SLLI:
		return h.Slli(owlRd(ins), owlRs1(ins), owlShamt(ins))
	case OP_SRLI:
		return h.Srli(owlRd(ins), owlRs1(ins), owlShamt(ins))
	case OP_SRAI:
		return h.Srai(owlRd(ins), owlRs1(ins), owlShamt(ins))
	case OP_BEQ:
		return h.Beq(owlRd(ins), owlRs1(ins), owlOffs12(ins))
	case OP_BNE:
		return h.Bne(owlRd(ins), owlRs1(ins), owlOffs12(ins))
	case OP_BLT:
		return h.Blt(owlRd(ins), owlRs1(ins), owlOffs12(ins))
	case OP_BGE:
		return h.Bge(owlRd(ins), owlRs1(ins), owlOffs12(ins))
	case OP_BLTU:
		return h.Bltu(owlRd(ins), owlRs1(ins), owlOffs12(ins))
	case OP_BGEU:
		return h.Bgeu(owlRd(ins), owlRs1(ins), owlOffs12(ins))
	case OP_ADDI:
		return h.Addi(owlRd(ins), owlRs1(ins), owlImm12(ins))
	case OP_SLTI:
		return h.Slti(owlRd(ins), owlRs1(ins), owlImm12(ins))
	case OP_SLTIU:
		return h.Sltiu(owlRd(ins), owlRs1(ins), owlImm12(ins))
	case OP_XORI:
		return h.Xori(owlRd(ins), owlRs1(ins), owlImm12(ins))
	case OP_ORI:
		return h.Ori(owlRd(ins), owlRs1(ins), owlImm12(ins))
	case OP_ANDI:
		return h.Andi(owlRd(ins), owlRs1(ins), owlImm12(ins))
	case OP_LB:
		return h.Lb(owlRd(ins), owlImm12(ins), owlRs1(ins))
	case OP_LBU:
		return h.Lbu(owlRd(ins), owlImm12(ins), owlRs1(ins))
	case OP_LH:
		return h.Lh(owlRd(ins), owlImm12(ins), owlRs1(ins))
	case OP_LHU:
		return h.Lhu(owlRd(ins), owlImm12(ins), owlRs1(ins))
	case OP_LW:
		return h.Lw(owlRd(ins), owlImm12(ins), owlRs1(ins))
	case OP_SB:
		return h.Sb(owlRd(ins), owlImm12(ins), owlRs1(ins))
	case OP_SH:
		return h.Sh(owlRd(ins), owlImm12(ins), owlRs1(ins))
	case OP_SW:
		return h.Sw(owlRd(ins), owlImm12(ins), owlRs1(ins))
	case OP_FENCE:
		return h.Fence()
	case OP_JALR:
		return h.Jalr(owlRd(ins), owlImm12(ins), owlRs1(ins))
	case OP_JAL:
		return h.Jal(owlRd(ins), owlOffs20(ins))
	case OP_LUI:
		return h.Lui(owlRd(ins), owlUimm20(ins))
	case OP_AUIPC:
		return h.Auipc(owlRd(ins), owlUimm20(ins))
	case OP_J:
		return h.J(owlOffs20(ins))
	case OP_CALL:
		return h.Call(owlOffs20(ins))
	case OP_RET:
		return h.Ret()
	case OP_LI:
		return h.Li(owlRd(ins), owlImm12(ins))
	case OP_MV:
		return h.Mv(owlRd(ins), owlRs1(ins))
	default:
		return h.Illegal(ins)
	}
}
