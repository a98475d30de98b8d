package owl2820

import (
	"bytes"
	"errors"
	"testing"
)

// ==============================================================================
// Test Helpers
// ==============================================================================

// owlTestRig assembles a program into fresh memory and wraps the CPU with a
// captured output stream.
type owlTestRig struct {
	cpu *OwlCPU
	out *bytes.Buffer
}

// newOwlTestRig builds a program with the assembler and loads it at address
// 0 of a 4 KiB memory.
func newOwlTestRig(t *testing.T, build func(a *Assembler)) *owlTestRig {
	t.Helper()
	a := NewAssembler()
	build(a)
	code, err := a.Code()
	if err != nil {
		t.Fatalf("assembly failed: %v", err)
	}
	mem := make(Memory, 4096)
	if err := mem.LoadWords(0, code); err != nil {
		t.Fatalf("program load failed: %v", err)
	}
	rig := &owlTestRig{cpu: NewOwlCPU(mem), out: &bytes.Buffer{}}
	rig.cpu.SetOutput(rig.out)
	return rig
}

// run executes until the CPU halts, failing the test on a memory fault.
func (r *owlTestRig) run(t *testing.T) {
	t.Helper()
	if err := r.cpu.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

// assertReg checks a single register value after execution.
func assertReg(t *testing.T, cpu *OwlCPU, reg int, want uint32) {
	t.Helper()
	if got := cpu.x[reg]; got != want {
		t.Fatalf("%s = 0x%08X, want 0x%08X", regNames[reg], got, want)
	}
}

// ==============================================================================
// Register-Register Instructions
// ==============================================================================

func TestAddSubWrap(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Add(T2, T0, T1)
		a.Sub(T3, T0, T1)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 0xffffffff
	rig.cpu.x[T1] = 2
	rig.run(t)
	assertReg(t, rig.cpu, T2, 1)          // wraps
	assertReg(t, rig.cpu, T3, 0xfffffffd) // borrows
}

func TestLogicalOps(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.And(T2, T0, T1)
		a.Or(T3, T0, T1)
		a.Xor(T4, T0, T1)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 0xff00ff00
	rig.cpu.x[T1] = 0x0ff00ff0
	rig.run(t)
	assertReg(t, rig.cpu, T2, 0x0f000f00)
	assertReg(t, rig.cpu, T3, 0xfff0fff0)
	assertReg(t, rig.cpu, T4, 0xf0f0f0f0)
}

// TestShiftAmountMasking: register shifts take their amount modulo 32.
func TestShiftAmountMasking(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Sll(T2, T0, T1)
		a.Srl(T3, T0, T1)
		a.Sra(T4, T0, T1)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 0x80000001
	rig.cpu.x[T1] = 33 // shifts by 1
	rig.run(t)
	assertReg(t, rig.cpu, T2, 0x00000002)
	assertReg(t, rig.cpu, T3, 0x40000000)
	assertReg(t, rig.cpu, T4, 0xc0000000)
}

func TestSetLessThan(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Slt(T2, T0, T1)  // -1 < 1 signed
		a.Sltu(T3, T0, T1) // 0xffffffff < 1 unsigned
		a.Slt(T4, T1, T0)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 0xffffffff
	rig.cpu.x[T1] = 1
	rig.run(t)
	assertReg(t, rig.cpu, T2, 1)
	assertReg(t, rig.cpu, T3, 0)
	assertReg(t, rig.cpu, T4, 0)
}

// ==============================================================================
// Immediate Instructions
// ==============================================================================

func TestImmediateShifts(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Slli(T2, T0, 4)
		a.Srli(T3, T0, 4)
		a.Srai(T4, T0, 4)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 0x80000010
	rig.run(t)
	assertReg(t, rig.cpu, T2, 0x00000100)
	assertReg(t, rig.cpu, T3, 0x08000001)
	assertReg(t, rig.cpu, T4, 0xf8000001)
}

func TestImmediateAlu(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Addi(T2, T0, -5)
		a.Andi(T3, T0, -16) // sign extended to 0xfffffff0
		a.Ori(T4, T0, 0x0f)
		a.Xori(T5, T0, -1) // bitwise not
		a.Slti(T6, T0, 11)
		a.Sltiu(S2, T0, 11)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 10
	rig.run(t)
	assertReg(t, rig.cpu, T2, 5)
	assertReg(t, rig.cpu, T3, 0)
	assertReg(t, rig.cpu, T4, 0x0f)
	assertReg(t, rig.cpu, T5, 0xfffffff5)
	assertReg(t, rig.cpu, T6, 1)
	assertReg(t, rig.cpu, S2, 1)
}

// ==============================================================================
// The Zero Register
// ==============================================================================

// TestZeroRegisterStaysZero: x0 reads as zero no matter what is written to
// it.
func TestZeroRegisterStaysZero(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Li(ZERO, 123)
		a.Addi(ZERO, ZERO, 77)
		a.Lui(ZERO, 0xfffff000)
		a.Add(T2, ZERO, ZERO)
		a.Ebreak()
	})
	rig.run(t)
	assertReg(t, rig.cpu, ZERO, 0)
	assertReg(t, rig.cpu, T2, 0)
}

// ==============================================================================
// Branch Instructions
// ==============================================================================

// TestBranchTaken: a taken branch skips the instruction it jumps over; a not
// taken branch falls through.
func TestBranchTaken(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		skip := a.MakeLabel()
		a.BeqLabel(T0, T1, skip) // taken: t0 == t1
		a.Li(T2, 1)              // skipped
		a.BindLabel(skip)
		a.BneLabel(T0, T1, skip) // not taken: falls through
		a.Li(T3, 2)
		a.Ebreak()
	})
	rig.run(t)
	assertReg(t, rig.cpu, T2, 0)
	assertReg(t, rig.cpu, T3, 2)
}

func TestBranchSignedness(t *testing.T) {
	// t0 = -1 signed, 0xffffffff unsigned. Signed and unsigned comparisons
	// disagree about it.
	rig := newOwlTestRig(t, func(a *Assembler) {
		over := a.MakeLabel()
		a.BltLabel(T0, T1, over) // taken: -1 < 1
		a.Li(T2, 1)
		a.BindLabel(over)
		done := a.MakeLabel()
		a.BltuLabel(T0, T1, done) // not taken: 0xffffffff > 1
		a.Li(T3, 2)
		a.BindLabel(done)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 0xffffffff
	rig.cpu.x[T1] = 1
	rig.run(t)
	assertReg(t, rig.cpu, T2, 0)
	assertReg(t, rig.cpu, T3, 2)
}

// TestCountingLoop runs a counted loop to completion: increments until the
// counter reaches the bound, then exits through the exit syscall exactly
// once.
func TestCountingLoop(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		exit := a.MakeLabel()
		loop := a.MakeLabel()
		a.Li(T0, 0)
		a.Li(T1, 2)
		a.BindLabel(loop)
		a.BgeuLabel(T0, T1, exit)
		a.Addi(T0, T0, 1)
		a.JLabel(loop)
		a.BindLabel(exit)
		a.Li(A0, 0)
		a.Li(A7, int32(SYS_EXIT))
		a.Ecall()
	})
	rig.run(t)
	assertReg(t, rig.cpu, T0, 2)
	if !rig.cpu.Done() {
		t.Fatal("CPU did not halt")
	}
	if got, want := rig.out.String(), "Exiting with status 0\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// ==============================================================================
// Loads and Stores
// ==============================================================================

func TestStoreLoadRoundTrip(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Sw(T0, 0, S0)
		a.Lw(T2, 0, S0)
		a.Lh(T3, 0, S0)
		a.Lhu(T4, 0, S0)
		a.Lb(T5, 1, S0)
		a.Lbu(T6, 1, S0)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 0x8001fa85
	rig.cpu.x[S0] = 0x100
	rig.run(t)
	assertReg(t, rig.cpu, T2, 0x8001fa85)
	assertReg(t, rig.cpu, T3, 0xfffffa85) // lh sign extends
	assertReg(t, rig.cpu, T4, 0x0000fa85)
	assertReg(t, rig.cpu, T5, 0xfffffffa) // lb sign extends
	assertReg(t, rig.cpu, T6, 0x000000fa)
}

func TestStoreWidths(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Sw(T0, 0, S0)
		a.Sh(T1, 0, S0) // overwrites the low half only
		a.Sb(ZERO, 3, S0)
		a.Lw(T2, 0, S0)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 0xaabbccdd
	rig.cpu.x[T1] = 0x1234
	rig.cpu.x[S0] = 0x200
	rig.run(t)
	assertReg(t, rig.cpu, T2, 0x00bb1234)
}

func TestNegativeDisplacement(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Sw(T0, -4, SP) // push below the stack pointer
		a.Lw(T2, -4, SP)
		a.Ebreak()
	})
	rig.cpu.x[T0] = 0x12345678
	rig.run(t)
	assertReg(t, rig.cpu, T2, 0x12345678)
}

// ==============================================================================
// Jumps and Subroutines
// ==============================================================================

func TestJalLinksAndJumps(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		over := a.MakeLabel()
		a.Jal(T0, 8) // to the ebreak, linking the skipped address
		a.Li(T2, 1)  // skipped
		a.BindLabel(over)
		a.Ebreak()
	})
	rig.run(t)
	assertReg(t, rig.cpu, T0, 4)
	assertReg(t, rig.cpu, T2, 0)
}

// TestJalrAliasedRegisters: jalr must read its base register before writing
// the link register when they are the same register.
func TestJalrAliasedRegisters(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Jalr(T0, 0, T0) // t0 holds 8: jump there, link 4 into t0
		a.Li(T2, 1)       // skipped
		a.Ebreak()        // at 8
	})
	rig.cpu.x[T0] = 8
	rig.run(t)
	assertReg(t, rig.cpu, T0, 4)
	assertReg(t, rig.cpu, T2, 0)
}

func TestCallAndRet(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		sub := a.MakeLabel()
		a.CallLabel(sub)
		a.Li(T3, 7) // executes after ret
		a.Ebreak()
		a.BindLabel(sub)
		a.Li(T2, 5)
		a.Ret()
	})
	rig.run(t)
	assertReg(t, rig.cpu, T2, 5)
	assertReg(t, rig.cpu, T3, 7)
	assertReg(t, rig.cpu, RA, 4)
}

func TestLuiAuipc(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Lui(T2, 0x12345000)
		a.Auipc(T3, 0x00001000) // pc is 4 here
		a.Ebreak()
	})
	rig.run(t)
	assertReg(t, rig.cpu, T2, 0x12345000)
	assertReg(t, rig.cpu, T3, 0x00001004)
}

// ==============================================================================
// Halting
// ==============================================================================

func TestEcallExit(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Li(A0, 7)
		a.Li(A7, int32(SYS_EXIT))
		a.Ecall()
	})
	rig.run(t)
	if !rig.cpu.Done() {
		t.Fatal("CPU did not halt")
	}
	if got := rig.cpu.ExitStatus(); got != 7 {
		t.Errorf("ExitStatus() = %d, want 7", got)
	}
	if got, want := rig.out.String(), "Exiting with status 7\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestEcallPrintFib(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Li(A0, 11)
		a.Li(A1, 89)
		a.Li(A7, int32(SYS_PRINT_FIB))
		a.Ecall()
		a.Ebreak()
	})
	rig.run(t)
	if got, want := rig.out.String(), "fib(11) = 89\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestIllegalInstructionHalts(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Li(T2, 9)
		a.Word(0x0000007f) // no such opcode
		a.Li(T3, 1)        // never reached
	})
	rig.run(t)
	if !rig.cpu.Done() {
		t.Fatal("CPU did not halt")
	}
	ins, ok := rig.cpu.IllegalInstruction()
	if !ok || ins != 0x0000007f {
		t.Fatalf("IllegalInstruction() = (0x%08X, %v), want (0x0000007F, true)", ins, ok)
	}
	// State from before the illegal word is intact, nothing after it ran.
	assertReg(t, rig.cpu, T2, 9)
	assertReg(t, rig.cpu, T3, 0)
}

// TestRunAfterHalt: running a halted CPU is a no-op.
func TestRunAfterHalt(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Ebreak()
	})
	rig.run(t)
	pc := rig.cpu.PC()
	rig.run(t)
	if got := rig.cpu.PC(); got != pc {
		t.Errorf("PC moved from 0x%08X to 0x%08X after halt", pc, got)
	}
}

// ==============================================================================
// Memory Faults
// ==============================================================================

func TestLoadFaultStopsExecution(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Lui(T0, 0x10000000) // far outside the 4 KiB memory
		a.Lw(T2, 0, T0)
		a.Li(T3, 1) // never reached
	})
	err := rig.cpu.Run()
	var fault *MemoryFault
	if !errors.As(err, &fault) {
		t.Fatalf("Run() = %v, want *MemoryFault", err)
	}
	if fault.Addr != 0x10000000 || fault.Size != 4 {
		t.Errorf("fault = {Addr: 0x%08X, Size: %d}, want {Addr: 0x10000000, Size: 4}", fault.Addr, fault.Size)
	}
	assertReg(t, rig.cpu, T3, 0)
}

func TestStoreFaultStopsExecution(t *testing.T) {
	rig := newOwlTestRig(t, func(a *Assembler) {
		a.Sw(T0, 0, SP) // sp starts at the top of memory
	})
	err := rig.cpu.Run()
	var fault *MemoryFault
	if !errors.As(err, &fault) {
		t.Fatalf("Run() = %v, want *MemoryFault", err)
	}
}

func TestFetchFault(t *testing.T) {
	// A jump beyond a tiny memory faults on the next fetch.
	a := NewAssembler()
	a.J(64)
	code, err := a.Code()
	if err != nil {
		t.Fatalf("assembly failed: %v", err)
	}
	mem := make(Memory, 8)
	if err := mem.LoadWords(0, code); err != nil {
		t.Fatalf("program load failed: %v", err)
	}
	cpu := NewOwlCPU(mem)
	var fault *MemoryFault
	if err := cpu.Run(); !errors.As(err, &fault) {
		t.Fatalf("Run() = %v, want *MemoryFault", err)
	}
	if fault.Addr != 64 {
		t.Errorf("fault address = 0x%08X, want 0x00000040", fault.Addr)
	}
}
