package owl2820

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ==============================================================================
// Test Helpers
// ==============================================================================

// mustCode fails the test if any label is still unbound.
func mustCode(t *testing.T, a *Assembler) []uint32 {
	t.Helper()
	code, err := a.Code()
	if err != nil {
		t.Fatalf("Code() failed: %v", err)
	}
	return code
}

// ==============================================================================
// Labels and Fixups
// ==============================================================================

// TestForwardLabelMatchesLiteral: referencing a label before it is bound
// must produce exactly the words that a literal offset would have.
func TestForwardLabelMatchesLiteral(t *testing.T) {
	labelled := NewAssembler()
	target := labelled.MakeLabel()
	labelled.BneLabel(T0, T1, target) // at 0, forward to 12
	labelled.Li(T2, 1)
	labelled.Li(T3, 2)
	labelled.BindLabel(target)
	labelled.Ebreak()

	literal := NewAssembler()
	literal.Bne(T0, T1, 12)
	literal.Li(T2, 1)
	literal.Li(T3, 2)
	literal.Ebreak()

	if diff := cmp.Diff(mustCode(t, literal), mustCode(t, labelled)); diff != "" {
		t.Errorf("label and literal assembly differ (-literal +labelled):\n%s", diff)
	}
}

func TestBackwardLabel(t *testing.T) {
	a := NewAssembler()
	loop := a.MakeLabel()
	a.BindLabel(loop)
	a.Addi(T0, T0, 1)
	a.JLabel(loop) // at 4, back to 0

	literal := NewAssembler()
	literal.Addi(T0, T0, 1)
	literal.J(-4)

	if diff := cmp.Diff(mustCode(t, literal), mustCode(t, a)); diff != "" {
		t.Errorf("backward label assembly differs (-literal +labelled):\n%s", diff)
	}
}

// TestMultipleFixupsOneLabel: several forward references to one label are
// all patched when it is bound.
func TestMultipleFixupsOneLabel(t *testing.T) {
	a := NewAssembler()
	exit := a.MakeLabel()
	a.BeqLabel(T0, T1, exit)  // at 0, forward to 16
	a.BltuLabel(T0, T2, exit) // at 4, forward to 16
	a.JLabel(exit)            // at 8, forward to 16
	a.Li(T3, 1)
	a.BindLabel(exit)
	a.Ebreak()

	literal := NewAssembler()
	literal.Beq(T0, T1, 16)
	literal.Bltu(T0, T2, 12)
	literal.J(8)
	literal.Li(T3, 1)
	literal.Ebreak()

	if diff := cmp.Diff(mustCode(t, literal), mustCode(t, a)); diff != "" {
		t.Errorf("multi-fixup assembly differs (-literal +labelled):\n%s", diff)
	}
}

func TestJalLabel(t *testing.T) {
	a := NewAssembler()
	target := a.MakeLabel()
	a.JalLabel(T0, target) // at 0, forward to 8
	a.Li(T2, 1)
	a.BindLabel(target)
	a.Ebreak()

	literal := NewAssembler()
	literal.Jal(T0, 8)
	literal.Li(T2, 1)
	literal.Ebreak()

	if diff := cmp.Diff(mustCode(t, literal), mustCode(t, a)); diff != "" {
		t.Errorf("jal label assembly differs (-literal +labelled):\n%s", diff)
	}
}

func TestUnboundLabelFailsCode(t *testing.T) {
	a := NewAssembler()
	missing := a.MakeLabel()
	a.BeqLabel(T0, T1, missing)
	if _, err := a.Code(); err == nil {
		t.Fatal("Code() with an unbound label did not fail")
	}

	// Binding the label clears the failure.
	a.BindLabel(missing)
	if _, err := a.Code(); err != nil {
		t.Fatalf("Code() after binding failed: %v", err)
	}
}

// TestHiLoAddressMaterialization: the lui/addi idiom built from Hi and Lo
// materializes a label's absolute address, with forward references patched
// at bind time.
func TestHiLoAddressMaterialization(t *testing.T) {
	a := NewAssembler()
	data := a.MakeLabel()
	a.Lui(T0, a.Hi(data))       // at 0, patched on bind
	a.Addi(T0, T0, a.Lo(data))  // at 4, patched on bind
	a.Lw(T1, 0, T0)             // at 8
	a.Ebreak()                  // at 12
	a.BindLabel(data)           // at 16
	a.Word(0xfeedface)

	code := mustCode(t, a)
	mem := make(Memory, 4096)
	if err := mem.LoadWords(0, code); err != nil {
		t.Fatalf("program load failed: %v", err)
	}
	cpu := NewOwlCPU(mem)
	if err := cpu.Run(); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got := cpu.x[T0]; got != 16 {
		t.Errorf("materialized address = 0x%08X, want 0x00000010", got)
	}
	if got := cpu.x[T1]; got != 0xfeedface {
		t.Errorf("loaded word = 0x%08X, want 0xFEEDFACE", got)
	}
}

// TestHiLoBoundLabel: Hi and Lo of an already bound label need no fixups.
func TestHiLoBoundLabel(t *testing.T) {
	a := NewAssembler()
	data := a.MakeLabel()
	a.J(12)     // over the data word
	a.Word(0)   // padding so the label lands at a non-zero address
	a.BindLabel(data)
	a.Word(0xdeadbeef)
	a.Lui(T0, a.Hi(data))
	a.Addi(T0, T0, a.Lo(data))

	if hi := a.Hi(data); hi != 0 {
		t.Errorf("Hi = 0x%08X, want 0 for an address below 4096", hi)
	}
	if lo := a.Lo(data); lo != 8 {
		t.Errorf("Lo = %d, want 8", lo)
	}
	if _, err := a.Code(); err != nil {
		t.Fatalf("Code() failed: %v", err)
	}
}

// ==============================================================================
// Emission
// ==============================================================================

func TestEmitReturnsWordAndAdvances(t *testing.T) {
	a := NewAssembler()
	if a.Current() != 0 {
		t.Fatalf("Current() = %d before any emission", a.Current())
	}
	word := a.Add(A0, A1, A2)
	if want := encOpcode(OP_ADD) | encRd(A0) | encRs1(A1) | encRs2(A2); word != want {
		t.Errorf("emitted word = 0x%08X, want 0x%08X", word, want)
	}
	if a.Current() != 4 {
		t.Errorf("Current() = %d after one word, want 4", a.Current())
	}
}

func TestWordEmitsRawData(t *testing.T) {
	a := NewAssembler()
	a.Word(0x11223344)
	code := mustCode(t, a)
	if len(code) != 1 {
		t.Fatalf("len(code) = %d, want 1", len(code))
	}
	if got := AsLE32(code[0]); got != 0x11223344 {
		t.Errorf("data word = 0x%08X, want 0x11223344", got)
	}
}
