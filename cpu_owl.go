// cpu_owl.go - Owl-2820 CPU interpreter

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

Buy me a coffee: https://ko-fi.com/intuition/tip

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/Owl2820
License: GPLv3 or later
*/

package owl2820

import (
	"fmt"
	"io"
	"os"
)

// OwlCPU interprets Owl-2820 machine code. It is an InstructionHandler whose
// Item is error, so memory faults raised inside a load, store or fetch
// propagate out through the dispatcher to Run.
//
// Register x0 reads as zero. Rather than guarding every destination write,
// instructions write the register file freely and clear x[0] afterwards.
type OwlCPU struct {
	pc     uint32 // address of the current instruction
	nextPc uint32 // address of the next instruction
	x      [32]uint32
	mem    Memory
	out    io.Writer

	done       bool
	exitStatus uint32
	illegalIns uint32
	trapped    bool
}

// NewOwlCPU returns a CPU executing from address 0 of mem, with the stack
// pointer at the top of memory.
func NewOwlCPU(mem Memory) *OwlCPU {
	cpu := &OwlCPU{mem: mem, out: os.Stdout}
	cpu.x[SP] = uint32(len(mem))
	return cpu
}

// SetOutput redirects syscall output, which defaults to os.Stdout.
func (c *OwlCPU) SetOutput(w io.Writer) { c.out = w }

// Done reports whether the CPU has halted.
func (c *OwlCPU) Done() bool { return c.done }

// PC returns the address of the most recently fetched instruction.
func (c *OwlCPU) PC() uint32 { return c.pc }

// ExitStatus returns the status passed to the exit syscall, zero if the CPU
// halted some other way.
func (c *OwlCPU) ExitStatus() uint32 { return c.exitStatus }

// IllegalInstruction returns the offending word if the CPU halted on an
// unrecognized instruction.
func (c *OwlCPU) IllegalInstruction() (uint32, bool) {
	return c.illegalIns, c.trapped
}

// Fetch advances to the next instruction and reads its word from memory.
func (c *OwlCPU) Fetch() (uint32, error) {
	c.pc = c.nextPc
	c.nextPc += 4
	return c.mem.ReadU32(c.pc)
}

// Run interprets Owl-2820 encoded instructions until the CPU halts. A fetch
// or data access outside memory stops execution with a *MemoryFault.
func (c *OwlCPU) Run() error {
	for !c.done {
		ins, err := c.Fetch()
		if err != nil {
			return err
		}
		if err := DispatchOwl[error](c, ins); err != nil {
			return err
		}
	}
	return nil
}

// RunRV32I interprets RV32I encoded instructions directly, without
// transcoding. The CPU itself is encoding-agnostic; only the dispatcher
// differs.
func (c *OwlCPU) RunRV32I() error {
	for !c.done {
		ins, err := c.Fetch()
		if err != nil {
			return err
		}
		if err := DispatchRV32I[error](c, ins); err != nil {
			return err
		}
	}
	return nil
}

func btou32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// ===== System instructions =====

// ecall: syscall number in a7, arguments in a0/a1.
func (c *OwlCPU) Ecall() error {
	switch Syscall(c.x[A7]) {
	case SYS_EXIT:
		fmt.Fprintf(c.out, "Exiting with status %d\n", c.x[A0])
		c.exitStatus = c.x[A0]
		c.done = true
	case SYS_PRINT_FIB:
		fmt.Fprintf(c.out, "fib(%d) = %d\n", c.x[A0], c.x[A1])
	}
	return nil
}

// ebreak
func (c *OwlCPU) Ebreak() error {
	c.done = true
	return nil
}

// ===== Register-register instructions =====

// add rd, rs1, rs2
func (c *OwlCPU) Add(rd, rs1, rs2 uint32) error {
	c.x[rd] = c.x[rs1] + c.x[rs2]
	c.x[0] = 0
	return nil
}

// sub rd, rs1, rs2
func (c *OwlCPU) Sub(rd, rs1, rs2 uint32) error {
	c.x[rd] = c.x[rs1] - c.x[rs2]
	c.x[0] = 0
	return nil
}

// sll rd, rs1, rs2
func (c *OwlCPU) Sll(rd, rs1, rs2 uint32) error {
	c.x[rd] = c.x[rs1] << (c.x[rs2] % 32)
	c.x[0] = 0
	return nil
}

// slt rd, rs1, rs2
func (c *OwlCPU) Slt(rd, rs1, rs2 uint32) error {
	c.x[rd] = btou32(int32(c.x[rs1]) < int32(c.x[rs2]))
	c.x[0] = 0
	return nil
}

// sltu rd, rs1, rs2
func (c *OwlCPU) Sltu(rd, rs1, rs2 uint32) error {
	c.x[rd] = btou32(c.x[rs1] < c.x[rs2])
	c.x[0] = 0
	return nil
}

// xor rd, rs1, rs2
func (c *OwlCPU) Xor(rd, rs1, rs2 uint32) error {
	c.x[rd] = c.x[rs1] ^ c.x[rs2]
	c.x[0] = 0
	return nil
}

// srl rd, rs1, rs2
func (c *OwlCPU) Srl(rd, rs1, rs2 uint32) error {
	c.x[rd] = c.x[rs1] >> (c.x[rs2] % 32)
	c.x[0] = 0
	return nil
}

// sra rd, rs1, rs2
func (c *OwlCPU) Sra(rd, rs1, rs2 uint32) error {
	c.x[rd] = uint32(int32(c.x[rs1]) >> (c.x[rs2] % 32))
	c.x[0] = 0
	return nil
}

// or rd, rs1, rs2
func (c *OwlCPU) Or(rd, rs1, rs2 uint32) error {
	c.x[rd] = c.x[rs1] | c.x[rs2]
	c.x[0] = 0
	return nil
}

// and rd, rs1, rs2
func (c *OwlCPU) And(rd, rs1, rs2 uint32) error {
	c.x[rd] = c.x[rs1] & c.x[rs2]
	c.x[0] = 0
	return nil
}

// ===== Immediate shift instructions =====

// slli rd, rs1, shamt
func (c *OwlCPU) Slli(rd, rs1, shamt uint32) error {
	c.x[rd] = c.x[rs1] << shamt
	c.x[0] = 0
	return nil
}

// srli rd, rs1, shamt
func (c *OwlCPU) Srli(rd, rs1, shamt uint32) error {
	c.x[rd] = c.x[rs1] >> shamt
	c.x[0] = 0
	return nil
}

// srai rd, rs1, shamt
func (c *OwlCPU) Srai(rd, rs1, shamt uint32) error {
	c.x[rd] = uint32(int32(c.x[rs1]) >> shamt)
	c.x[0] = 0
	return nil
}

// ===== Branch instructions =====

// beq rs1, rs2, offs
func (c *OwlCPU) Beq(rs1, rs2 uint32, offs int32) error {
	if c.x[rs1] == c.x[rs2] {
		c.nextPc = c.pc + uint32(offs)
	}
	return nil
}

// bne rs1, rs2, offs
func (c *OwlCPU) Bne(rs1, rs2 uint32, offs int32) error {
	if c.x[rs1] != c.x[rs2] {
		c.nextPc = c.pc + uint32(offs)
	}
	return nil
}

// blt rs1, rs2, offs
func (c *OwlCPU) Blt(rs1, rs2 uint32, offs int32) error {
	if int32(c.x[rs1]) < int32(c.x[rs2]) {
		c.nextPc = c.pc + uint32(offs)
	}
	return nil
}

// bge rs1, rs2, offs
func (c *OwlCPU) Bge(rs1, rs2 uint32, offs int32) error {
	if int32(c.x[rs1]) >= int32(c.x[rs2]) {
		c.nextPc = c.pc + uint32(offs)
	}
	return nil
}

// bltu rs1, rs2, offs
func (c *OwlCPU) Bltu(rs1, rs2 uint32, offs int32) error {
	if c.x[rs1] < c.x[rs2] {
		c.nextPc = c.pc + uint32(offs)
	}
	return nil
}

// bgeu rs1, rs2, offs
func (c *OwlCPU) Bgeu(rs1, rs2 uint32, offs int32) error {
	if c.x[rs1] >= c.x[rs2] {
		c.nextPc = c.pc + uint32(offs)
	}
	return nil
}

// ===== Register-immediate instructions =====

// addi rd, rs1, imm
func (c *OwlCPU) Addi(rd, rs1 uint32, imm int32) error {
	c.x[rd] = c.x[rs1] + uint32(imm)
	c.x[0] = 0
	return nil
}

// slti rd, rs1, imm
func (c *OwlCPU) Slti(rd, rs1 uint32, imm int32) error {
	c.x[rd] = btou32(int32(c.x[rs1]) < imm)
	c.x[0] = 0
	return nil
}

// sltiu rd, rs1, imm
func (c *OwlCPU) Sltiu(rd, rs1 uint32, imm int32) error {
	c.x[rd] = btou32(c.x[rs1] < uint32(imm))
	c.x[0] = 0
	return nil
}

// xori rd, rs1, imm
func (c *OwlCPU) Xori(rd, rs1 uint32, imm int32) error {
	c.x[rd] = c.x[rs1] ^ uint32(imm)
	c.x[0] = 0
	return nil
}

// ori rd, rs1, imm
func (c *OwlCPU) Ori(rd, rs1 uint32, imm int32) error {
	c.x[rd] = c.x[rs1] | uint32(imm)
	c.x[0] = 0
	return nil
}

// andi rd, rs1, imm
func (c *OwlCPU) Andi(rd, rs1 uint32, imm int32) error {
	c.x[rd] = c.x[rs1] & uint32(imm)
	c.x[0] = 0
	return nil
}

// ===== Load instructions =====

// lb rd, imm(rs1)
func (c *OwlCPU) Lb(rd uint32, imm int32, rs1 uint32) error {
	v, err := c.mem.ReadU8(c.x[rs1] + uint32(imm))
	if err != nil {
		return err
	}
	c.x[rd] = uint32(int32(int8(v)))
	c.x[0] = 0
	return nil
}

// lbu rd, imm(rs1)
func (c *OwlCPU) Lbu(rd uint32, imm int32, rs1 uint32) error {
	v, err := c.mem.ReadU8(c.x[rs1] + uint32(imm))
	if err != nil {
		return err
	}
	c.x[rd] = uint32(v)
	c.x[0] = 0
	return nil
}

// lh rd, imm(rs1)
func (c *OwlCPU) Lh(rd uint32, imm int32, rs1 uint32) error {
	v, err := c.mem.ReadU16(c.x[rs1] + uint32(imm))
	if err != nil {
		return err
	}
	c.x[rd] = uint32(int32(int16(v)))
	c.x[0] = 0
	return nil
}

// lhu rd, imm(rs1)
func (c *OwlCPU) Lhu(rd uint32, imm int32, rs1 uint32) error {
	v, err := c.mem.ReadU16(c.x[rs1] + uint32(imm))
	if err != nil {
		return err
	}
	c.x[rd] = uint32(v)
	c.x[0] = 0
	return nil
}

// lw rd, imm(rs1)
func (c *OwlCPU) Lw(rd uint32, imm int32, rs1 uint32) error {
	v, err := c.mem.ReadU32(c.x[rs1] + uint32(imm))
	if err != nil {
		return err
	}
	c.x[rd] = v
	c.x[0] = 0
	return nil
}

// ===== Store instructions =====

// sb rs2, imm(rs1)
func (c *OwlCPU) Sb(rs2 uint32, imm int32, rs1 uint32) error {
	return c.mem.WriteU8(c.x[rs1]+uint32(imm), uint8(c.x[rs2]))
}

// sh rs2, imm(rs1)
func (c *OwlCPU) Sh(rs2 uint32, imm int32, rs1 uint32) error {
	return c.mem.WriteU16(c.x[rs1]+uint32(imm), uint16(c.x[rs2]))
}

// sw rs2, imm(rs1)
func (c *OwlCPU) Sw(rs2 uint32, imm int32, rs1 uint32) error {
	return c.mem.WriteU32(c.x[rs1]+uint32(imm), c.x[rs2])
}

// ===== Memory ordering instructions =====

// fence: a no-op on a single-hart interpreter.
func (c *OwlCPU) Fence() error {
	return nil
}

// ===== Subroutine call instructions =====

// jalr rd, offs(rs1)
func (c *OwlCPU) Jalr(rd uint32, offs int32, rs1 uint32) error {
	base := c.x[rs1] // rd and rs1 may alias
	c.x[rd] = c.nextPc
	c.nextPc = base + uint32(offs)
	c.x[0] = 0
	return nil
}

// jal rd, offs
func (c *OwlCPU) Jal(rd uint32, offs int32) error {
	c.x[rd] = c.nextPc
	c.nextPc = c.pc + uint32(offs)
	c.x[0] = 0
	return nil
}

// ===== Miscellaneous instructions =====

// lui rd, uimm
func (c *OwlCPU) Lui(rd, uimm uint32) error {
	c.x[rd] = uimm
	c.x[0] = 0
	return nil
}

// auipc rd, uimm
func (c *OwlCPU) Auipc(rd, uimm uint32) error {
	c.x[rd] = c.pc + uimm
	c.x[0] = 0
	return nil
}

// ===== Owl-2820 only instructions =====

// j offs
func (c *OwlCPU) J(offs int32) error {
	c.nextPc = c.pc + uint32(offs)
	return nil
}

// call offs
func (c *OwlCPU) Call(offs int32) error {
	c.x[RA] = c.nextPc
	c.nextPc = c.pc + uint32(offs)
	return nil
}

// ret
func (c *OwlCPU) Ret() error {
	c.nextPc = c.x[RA]
	return nil
}

// li rd, imm
func (c *OwlCPU) Li(rd uint32, imm int32) error {
	c.x[rd] = uint32(imm)
	c.x[0] = 0
	return nil
}

// mv rd, rs
func (c *OwlCPU) Mv(rd, rs uint32) error {
	c.x[rd] = c.x[rs]
	c.x[0] = 0
	return nil
}

// Illegal halts the CPU, recording the offending word. Register and memory
// state is left as it was before the fetch.
func (c *OwlCPU) Illegal(ins uint32) error {
	c.illegalIns = ins
	c.trapped = true
	c.done = true
	return nil
}
