// dispatch_rv32i.go - Decoding and dispatch of RV32I instruction words

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

// rv32Ins wraps a raw RV32I word for operand extraction. The B and J format
// immediates are bit-interleaved in the instruction word; the extractors
// below unscramble them and sign extend from the offset's top bit.
type rv32Ins uint32

func (ins rv32Ins) rd() uint32     { return (uint32(ins) >> 7) & 0x1f }
func (ins rv32Ins) rs1() uint32    { return (uint32(ins) >> 15) & 0x1f }
func (ins rv32Ins) rs2() uint32    { return (uint32(ins) >> 20) & 0x1f }
func (ins rv32Ins) shamtw() uint32 { return (uint32(ins) >> 20) & 0x1f }

// bImmediate recovers the B format branch offset:
// imm[12|10:5] in ins[31:25], imm[4:1|11] in ins[11:7].
func (ins rv32Ins) bImmediate() int32 {
	imm12 := int32(uint32(ins)&0x80000000) >> 19   // ins[31] -> imm[12], sign extended
	imm11 := int32(uint32(ins)&0x00000080) << 4    // ins[7] -> imm[11]
	imm10_5 := int32(uint32(ins)&0x7e000000) >> 20 // ins[30:25] -> imm[10:5]
	imm4_1 := int32(uint32(ins)&0x00000f00) >> 7   // ins[11:8] -> imm[4:1]
	return imm12 | imm11 | imm10_5 | imm4_1
}

// iImmediate recovers the I format immediate: imm[11:0] in ins[31:20].
func (ins rv32Ins) iImmediate() int32 {
	return int32(ins) >> 20
}

// sImmediate recovers the S format immediate:
// imm[11:5] in ins[31:25], imm[4:0] in ins[11:7].
func (ins rv32Ins) sImmediate() int32 {
	imm11_5 := int32(uint32(ins)&0xfe000000) >> 20 // ins[31:25] -> imm[11:5], sign extended
	imm4_0 := int32(uint32(ins)&0x00000f80) >> 7   // ins[11:7] -> imm[4:0]
	return imm11_5 | imm4_0
}

// jImmediate recovers the J format jump offset:
// imm[20|10:1|11|19:12] in ins[31:12].
func (ins rv32Ins) jImmediate() int32 {
	imm20 := int32(uint32(ins)&0x80000000) >> 11    // ins[31] -> imm[20], sign extended
	imm19_12 := int32(uint32(ins) & 0x000ff000)     // ins[19:12] -> imm[19:12]
	imm11 := int32(uint32(ins)&0x00100000) >> 9     // ins[20] -> imm[11]
	imm10_1 := int32(uint32(ins)&0x7fe00000) >> 20  // ins[30:21] -> imm[10:1]
	return imm20 | imm19_12 | imm11 | imm10_1
}

// uImmediate recovers the U format upper immediate in place: ins[31:12].
func (ins rv32Ins) uImmediate() uint32 {
	return uint32(ins) & 0xfffff000
}

// DispatchRV32I decodes one RV32I instruction word and invokes the matching
// handler method. Recognition cascades from the most specific pattern to the
// least: exact words, then opcode+funct3+funct7, then opcode+funct3, then
// opcode alone. Anything left over goes to Illegal. As with DispatchOwl, the
// Item type parameter is spelled out at the call site.
func DispatchRV32I[Item any](h InstructionHandler[Item], code uint32) Item {
	ins := rv32Ins(code)

	switch code {
	case 0x00000073:
		return h.Ecall()
	case 0x00100073:
		return h.Ebreak()
	}

	switch code & 0xfe00707f {
	case 0x00000033:
		return h.Add(ins.rd(), ins.rs1(), ins.rs2())
	case 0x40000033:
		return h.Sub(ins.rd(), ins.rs1(), ins.rs2())
	case 0x00001033:
		return h.Sll(ins.rd(), ins.rs1(), ins.rs2())
	case 0x00002033:
		return h.Slt(ins.rd(), ins.rs1(), ins.rs2())
	case 0x00003033:
		return h.Sltu(ins.rd(), ins.rs1(), ins.rs2())
	case 0x00004033:
		return h.Xor(ins.rd(), ins.rs1(), ins.rs2())
	case 0x00005033:
		return h.Srl(ins.rd(), ins.rs1(), ins.rs2())
	case 0x40005033:
		return h.Sra(ins.rd(), ins.rs1(), ins.rs2())
	case 0x00006033:
		return h.Or(ins.rd(), ins.rs1(), ins.rs2())
	case 0x00007033:
		return h.And(ins.rd(), ins.rs1(), ins.rs2())
	case 0x00001013:
		return h.Slli(ins.rd(), ins.rs1(), ins.shamtw())
	case 0x00005013:
		return h.Srli(ins.rd(), ins.rs1(), ins.shamtw())
	case 0x40005013:
		return h.Srai(ins.rd(), ins.rs1(), ins.shamtw())
	}

	switch code & 0x0000707f {
	case 0x00000063:
		return h.Beq(ins.rs1(), ins.rs2(), ins.bImmediate())
	case 0x00001063:
		return h.Bne(ins.rs1(), ins.rs2(), ins.bImmediate())
	case 0x00004063:
		return h.Blt(ins.rs1(), ins.rs2(), ins.bImmediate())
	case 0x00005063:
		return h.Bge(ins.rs1(), ins.rs2(), ins.bImmediate())
	case 0x00006063:
		return h.Bltu(ins.rs1(), ins.rs2(), ins.bImmediate())
	case 0x00007063:
		return h.Bgeu(ins.rs1(), ins.rs2(), ins.bImmediate())
	case 0x00000067:
		return h.Jalr(ins.rd(), ins.iImmediate(), ins.rs1())
	case 0x00000013:
		return h.Addi(ins.rd(), ins.rs1(), ins.iImmediate())
	case 0x00002013:
		return h.Slti(ins.rd(), ins.rs1(), ins.iImmediate())
	case 0x00003013:
		return h.Sltiu(ins.rd(), ins.rs1(), ins.iImmediate())
	case 0x00004013:
		return h.Xori(ins.rd(), ins.rs1(), ins.iImmediate())
	case 0x00006013:
		return h.Ori(ins.rd(), ins.rs1(), ins.iImmediate())
	case 0x00007013:
		return h.Andi(ins.rd(), ins.rs1(), ins.iImmediate())
	case 0x00000003:
		return h.Lb(ins.rd(), ins.iImmediate(), ins.rs1())
	case 0x00004003:
		return h.Lbu(ins.rd(), ins.iImmediate(), ins.rs1())
	case 0x00001003:
		return h.Lh(ins.rd(), ins.iImmediate(), ins.rs1())
	case 0x00005003:
		return h.Lhu(ins.rd(), ins.iImmediate(), ins.rs1())
	case 0x00002003:
		return h.Lw(ins.rd(), ins.iImmediate(), ins.rs1())
	case 0x00000023:
		return h.Sb(ins.rs2(), ins.sImmediate(), ins.rs1())
	case 0x00001023:
		return h.Sh(ins.rs2(), ins.sImmediate(), ins.rs1())
	case 0x00002023:
		return h.Sw(ins.rs2(), ins.sImmediate(), ins.rs1())
	case 0x0000000f:
		return h.Fence()
	}

	switch code & 0x0000007f {
	case 0x0000006f:
		return h.Jal(ins.rd(), ins.jImmediate())
	case 0x00000037:
		return h.Lui(ins.rd(), ins.uImmediate())
	case 0x00000017:
		return h.Auipc(ins.rd(), ins.uImmediate())
	}

	return h.Illegal(code)
}
