// memory.go - Bounds-checked little-endian guest memory

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

import (
	"encoding/binary"
	"fmt"
)

// Memory is the guest's byte-addressed memory. All multi-byte accesses are
// little-endian and may be unaligned. Every access is bounds checked and
// returns a *MemoryFault on failure rather than panicking.
type Memory []byte

// MemoryFault reports an access that falls wholly or partly outside memory.
type MemoryFault struct {
	Addr uint32 // guest address of the access
	Size uint32 // access width in bytes
}

func (f *MemoryFault) Error() string {
	return fmt.Sprintf("memory fault: %d byte access at 0x%08x is out of range", f.Size, f.Addr)
}

func (m Memory) check(addr, size uint32) error {
	if uint64(addr)+uint64(size) > uint64(len(m)) {
		return &MemoryFault{Addr: addr, Size: size}
	}
	return nil
}

func (m Memory) ReadU8(addr uint32) (uint8, error) {
	if err := m.check(addr, 1); err != nil {
		return 0, err
	}
	return m[addr], nil
}

func (m Memory) ReadU16(addr uint32) (uint16, error) {
	if err := m.check(addr, 2); err != nil {
		return 0, err
	}
	return AsLE16(binary.NativeEndian.Uint16(m[addr : addr+2])), nil
}

func (m Memory) ReadU32(addr uint32) (uint32, error) {
	if err := m.check(addr, 4); err != nil {
		return 0, err
	}
	return AsLE32(binary.NativeEndian.Uint32(m[addr : addr+4])), nil
}

func (m Memory) WriteU8(addr uint32, v uint8) error {
	if err := m.check(addr, 1); err != nil {
		return err
	}
	m[addr] = v
	return nil
}

func (m Memory) WriteU16(addr uint32, v uint16) error {
	if err := m.check(addr, 2); err != nil {
		return err
	}
	binary.NativeEndian.PutUint16(m[addr:addr+2], AsLE16(v))
	return nil
}

func (m Memory) WriteU32(addr uint32, v uint32) error {
	if err := m.check(addr, 4); err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(m[addr:addr+4], AsLE32(v))
	return nil
}

// LoadWords copies a wire-order word image into memory starting at addr.
// Wire-order words already hold the guest's little-endian byte sequence in
// the host's natural representation, so they are stored without conversion.
func (m Memory) LoadWords(addr uint32, words []uint32) error {
	if err := m.check(addr, uint32(4*len(words))); err != nil {
		return err
	}
	for i, w := range words {
		binary.NativeEndian.PutUint32(m[addr+uint32(4*i):addr+uint32(4*i)+4], w)
	}
	return nil
}

// BytesToWords reinterprets a flat little-endian binary image as wire-order
// words. A ragged tail is zero padded.
func BytesToWords(image []byte) []uint32 {
	words := make([]uint32, (len(image)+3)/4)
	for i := range words {
		var buf [4]byte
		copy(buf[:], image[4*i:])
		words[i] = binary.NativeEndian.Uint32(buf[:])
	}
	return words
}
