package owl2820

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ==============================================================================
// Guest Memory
// ==============================================================================

func TestMemoryLittleEndianLayout(t *testing.T) {
	mem := make(Memory, 8)
	if err := mem.WriteU32(0, 0x11223344); err != nil {
		t.Fatalf("WriteU32 failed: %v", err)
	}
	want := Memory{0x44, 0x33, 0x22, 0x11, 0, 0, 0, 0}
	if diff := cmp.Diff(want, mem); diff != "" {
		t.Errorf("memory layout mismatch (-want +got):\n%s", diff)
	}

	if err := mem.WriteU16(4, 0xaabb); err != nil {
		t.Fatalf("WriteU16 failed: %v", err)
	}
	if mem[4] != 0xbb || mem[5] != 0xaa {
		t.Errorf("WriteU16 layout = [0x%02X 0x%02X], want [0xBB 0xAA]", mem[4], mem[5])
	}
}

func TestMemoryUnalignedAccess(t *testing.T) {
	mem := make(Memory, 16)
	for addr := uint32(0); addr < 4; addr++ {
		if err := mem.WriteU32(addr, 0xcafebabe); err != nil {
			t.Fatalf("WriteU32 at %d failed: %v", addr, err)
		}
		got, err := mem.ReadU32(addr)
		if err != nil {
			t.Fatalf("ReadU32 at %d failed: %v", addr, err)
		}
		if got != 0xcafebabe {
			t.Errorf("ReadU32 at %d = 0x%08X, want 0xCAFEBABE", addr, got)
		}
	}
}

func TestMemoryWidthRoundTrips(t *testing.T) {
	mem := make(Memory, 8)

	if err := mem.WriteU8(3, 0x7f); err != nil {
		t.Fatalf("WriteU8 failed: %v", err)
	}
	if got, _ := mem.ReadU8(3); got != 0x7f {
		t.Errorf("ReadU8 = 0x%02X, want 0x7F", got)
	}

	if err := mem.WriteU16(5, 0x8001); err != nil {
		t.Fatalf("WriteU16 failed: %v", err)
	}
	if got, _ := mem.ReadU16(5); got != 0x8001 {
		t.Errorf("ReadU16 = 0x%04X, want 0x8001", got)
	}
}

func TestMemoryFaults(t *testing.T) {
	mem := make(Memory, 8)

	// In range at the very top.
	if _, err := mem.ReadU8(7); err != nil {
		t.Errorf("ReadU8 at 7 failed: %v", err)
	}
	if _, err := mem.ReadU32(4); err != nil {
		t.Errorf("ReadU32 at 4 failed: %v", err)
	}

	// Straddling the top, fully out of range, and wrapping.
	cases := []struct {
		name string
		err  error
		addr uint32
		size uint32
	}{
		{"read straddles end", func() error { _, err := mem.ReadU32(6); return err }(), 6, 4},
		{"read past end", func() error { _, err := mem.ReadU8(8); return err }(), 8, 1},
		{"write straddles end", mem.WriteU16(7, 0), 7, 2},
		{"write far past end", mem.WriteU32(0xfffffffc, 0), 0xfffffffc, 4},
	}
	for _, tc := range cases {
		var fault *MemoryFault
		if !errors.As(tc.err, &fault) {
			t.Errorf("%s: got %v, want *MemoryFault", tc.name, tc.err)
			continue
		}
		if fault.Addr != tc.addr || fault.Size != tc.size {
			t.Errorf("%s: fault = {Addr: 0x%08X, Size: %d}, want {Addr: 0x%08X, Size: %d}",
				tc.name, fault.Addr, fault.Size, tc.addr, tc.size)
		}
	}
}

func TestLoadWords(t *testing.T) {
	mem := make(Memory, 16)
	words := []uint32{AsLE32(0x00010203), AsLE32(0x04050607)}
	if err := mem.LoadWords(4, words); err != nil {
		t.Fatalf("LoadWords failed: %v", err)
	}
	got, err := mem.ReadU32(4)
	if err != nil {
		t.Fatalf("ReadU32 failed: %v", err)
	}
	if got != 0x00010203 {
		t.Errorf("ReadU32 = 0x%08X, want 0x00010203", got)
	}

	if err := mem.LoadWords(12, words); err == nil {
		t.Error("LoadWords past the end of memory did not fail")
	}
}

func TestBytesToWords(t *testing.T) {
	image := []byte{0x44, 0x33, 0x22, 0x11, 0xff}
	words := BytesToWords(image)
	if len(words) != 2 {
		t.Fatalf("len(words) = %d, want 2", len(words))
	}
	if got := AsLE32(words[0]); got != 0x11223344 {
		t.Errorf("words[0] = 0x%08X, want 0x11223344", got)
	}
	// The ragged tail is zero padded.
	if got := AsLE32(words[1]); got != 0x000000ff {
		t.Errorf("words[1] = 0x%08X, want 0x000000FF", got)
	}

	if got := BytesToWords(nil); len(got) != 0 {
		t.Errorf("BytesToWords(nil) returned %d words, want 0", len(got))
	}
}
