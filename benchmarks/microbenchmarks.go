package benchmarks

import (
	"github.com/sarchlab/vanilla/insts"
	"github.com/sarchlab/vanilla/machine"
)

// GetMicrobenchmarks returns the standard set of workloads. Each one
// targets a specific part of the core or the bus and checks its stdout.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		countdownLoop(),
		factorial(),
		divideModulo(),
		stdinSum(),
		memoryCopy(),
	}
}

// GetCoreBenchmarks returns a minimal set of 3 workloads for quick
// validation: a loop, memory traffic and port I/O.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		countdownLoop(),
		memoryCopy(),
		stdinSum(),
	}
}

// 1. Arithmetic Sequential - ADDs spread across four registers
func arithmeticSequential() Benchmark {
	instrs := []uint32{EncodeLOADIMM(1, 1, false)}
	for i := 0; i < 20; i++ {
		rd := uint8(2 + i%4)
		instrs = append(instrs, EncodeADD(rd, rd, 1))
	}
	instrs = append(instrs, EncodeOUT(2))

	return Benchmark{
		Name:           "arithmetic_sequential",
		Description:    "20 ADDs across 4 registers - one fetch and one execute cycle each",
		Program:        BuildProgram(instrs...),
		ExpectedOutput: []uint32{5},
	}
}

// 2. Dependency Chain - every ADD reads the previous result
func dependencyChain() Benchmark {
	instrs := []uint32{EncodeLOADIMM(1, 1, false)}
	for i := 0; i < 20; i++ {
		instrs = append(instrs, EncodeADD(0, 0, 1))
	}
	instrs = append(instrs, EncodeOUT(0))

	return Benchmark{
		Name:           "dependency_chain",
		Description:    "20 dependent ADDs (r0 = r0 + 1)",
		Program:        BuildProgram(instrs...),
		ExpectedOutput: []uint32{20},
	}
}

// 3. Memory Sequential - store/load pairs to consecutive addresses
func memorySequential() Benchmark {
	instrs := []uint32{EncodeLOADIMM(1, 42, false)}
	for i := uint16(0); i < 10; i++ {
		instrs = append(instrs,
			EncodeSTORE(1, 0x100+i),
			EncodeLOAD(2, 0x100+i),
		)
	}
	instrs = append(instrs, EncodeOUT(2))

	return Benchmark{
		Name:           "memory_sequential",
		Description:    "10 STORE/LOAD pairs - three cycles per memory instruction",
		Program:        BuildProgram(instrs...),
		ExpectedOutput: []uint32{42},
	}
}

// 4. Countdown Loop - sum 10..1 with CMP/JGT
func countdownLoop() Benchmark {
	return Benchmark{
		Name:        "countdown_loop",
		Description: "Sum 10..1 in a CMP/JGT loop - measures taken branches",
		Program: BuildProgram(
			EncodeLOADIMM(1, 10, false), // r1 = counter
			EncodeLOADIMM(2, 1, false),  // r2 = 1
			EncodeLOADIMM(3, 3, false),  // r3 = loop
			EncodeADD(5, 5, 1),          // loop: r5 += r1
			EncodeSUB(1, 1, 2),
			EncodeCMP(1, 0),
			EncodeJump(insts.OpJGT, 3),
			EncodeOUT(5),
		),
		ExpectedOutput: []uint32{55},
	}
}

// 5. Factorial - 6! with MUL in a loop
func factorial() Benchmark {
	return Benchmark{
		Name:        "factorial",
		Description: "6! with MUL/SUB/CMP/JGT",
		Program: BuildProgram(
			EncodeLOADIMM(1, 6, false), // r1 = n
			EncodeLOADIMM(2, 1, false), // r2 = 1
			EncodeLOADIMM(5, 1, false), // r5 = acc
			EncodeLOADIMM(3, 4, false), // r3 = loop
			EncodeALU(insts.OpMUL, 5, 5, 1),
			EncodeSUB(1, 1, 2),
			EncodeCMP(1, 2),
			EncodeJump(insts.OpJGT, 3),
			EncodeOUT(5),
		),
		ExpectedOutput: []uint32{720},
	}
}

// 6. Divide/Modulo - quotient and remainder
func divideModulo() Benchmark {
	return Benchmark{
		Name:        "divide_modulo",
		Description: "100 / 7 and 100 % 7",
		Program: BuildProgram(
			EncodeLOADIMM(1, 100, false),
			EncodeLOADIMM(2, 7, false),
			EncodeALU(insts.OpDIV, 3, 1, 2),
			EncodeALU(insts.OpMOD, 4, 1, 2),
			EncodeOUT(3),
			EncodeOUT(4),
		),
		ExpectedOutput: []uint32{14, 2},
	}
}

// 7. Stdin Sum - add three words read from stdin
func stdinSum() Benchmark {
	return Benchmark{
		Name:        "stdin_sum",
		Description: "Sum of three stdin words - measures port I/O",
		Program: BuildProgram(
			EncodeIN(1),
			EncodeIN(2),
			EncodeADD(3, 1, 2),
			EncodeIN(1),
			EncodeADD(3, 3, 1),
			EncodeOUT(3),
		),
		Stdin:          []int32{3, 4, 5},
		ExpectedOutput: []uint32{12},
	}
}

// 8. Memory Copy - copy 8 words through register addresses
func memoryCopy() Benchmark {
	return Benchmark{
		Name:        "memory_copy",
		Description: "Copy 8 words with LOADR/STORER in a loop - exercises the cache",
		Setup: func(m *machine.Machine) {
			m.RAM().Load(0x200, []uint32{1, 2, 3, 4, 5, 6, 7, 8})
		},
		Program: BuildProgram(
			EncodeLOADIMM(1, 0x200, false), // r1 = src
			EncodeLOADIMM(2, 0x300, false), // r2 = dst
			EncodeLOADIMM(6, 1, false),     // r6 = 1
			EncodeLOADIMM(7, 0x208, false), // r7 = end of src
			EncodeLOADIMM(3, 5, false),     // r3 = loop
			EncodeLOADR(4, 1),              // loop: r4 = [r1]
			EncodeSTORER(2, 4),             // [r2] = r4
			EncodeADD(1, 1, 6),
			EncodeADD(2, 2, 6),
			EncodeCMP(7, 1),
			EncodeJump(insts.OpJGT, 3),
			EncodeLOAD(5, 0x307),
			EncodeOUT(5),
		),
		ExpectedOutput: []uint32{8},
	}
}
