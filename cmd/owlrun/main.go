package main

import (
	"flag"
	"fmt"
	"os"

	owl "github.com/intuitionamiga/owl2820"
)

func main() {
	memSize := flag.Int("mem", 4096, "Guest memory size in bytes (multiple of 4)")
	dis := flag.Bool("dis", false, "Disassemble the transcoded program instead of running it")
	native := flag.Bool("native", false, "Treat the image as Owl-2820 code and run it directly")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: owlrun [options] image.bin\n\nTranscodes a flat RV32I binary image to Owl-2820 and runs it.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  owlrun a.bin\n")
		fmt.Fprintf(os.Stderr, "  owlrun -dis a.bin\n")
		fmt.Fprintf(os.Stderr, "  owlrun -mem 65536 a.bin\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if *memSize < 4 || *memSize%4 != 0 {
		fmt.Fprintf(os.Stderr, "error: -mem must be a positive multiple of 4\n")
		os.Exit(1)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	code := owl.BytesToWords(raw)
	if !*native {
		code = owl.RV32IToOwl(code)
	}

	if *dis {
		var d owl.Disassembler
		for i, w := range code {
			ins := owl.AsLE32(w)
			fmt.Printf("%08x  %08x  %s\n", 4*i, ins, owl.DispatchOwl[string](d, ins))
		}
		return
	}

	mem := make(owl.Memory, *memSize)
	if err := mem.LoadWords(0, code); err != nil {
		fmt.Fprintf(os.Stderr, "error: program does not fit in %d bytes of memory\n", *memSize)
		os.Exit(1)
	}

	cpu := owl.NewOwlCPU(mem)
	if err := cpu.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if ins, ok := cpu.IllegalInstruction(); ok {
		fmt.Fprintf(os.Stderr, "error: illegal instruction %08x at 0x%08x\n", ins, cpu.PC())
		os.Exit(1)
	}
	os.Exit(int(cpu.ExitStatus()))
}
