package cpu

import "testing"

// BenchmarkCPU_ALU_ADD measures ADD instruction throughput.
func BenchmarkCPU_ALU_ADD(b *testing.B) {
	const addCount = 1000

	prog := make([]Instruction, addCount)
	for j := range prog {
		prog[j] = Instruction{Op: OpADD, Dst: reg(RegA), Src: reg(RegB)}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := NewCPU(prog...)
		c.Regs[RegB] = 3
		c.Run()
	}
}

// BenchmarkCPU_Loop measures a memory-bound countdown loop of 255 iterations.
func BenchmarkCPU_Loop(b *testing.B) {
	prog := []Instruction{
		{Op: OpMOV, Dst: reg(RegA), Src: imm(255)},
		{Op: OpMOV, Dst: mem(0), Src: reg(RegA)},
		{Op: OpMOV, Dst: reg(RegA), Src: mem(0)},
		{Op: OpCMP, Dst: reg(RegA), Src: imm(0)},
		{Op: OpJEQ, Dst: addr(8)},
		{Op: OpSUB, Dst: reg(RegA), Src: imm(1)},
		{Op: OpMOV, Dst: mem(0), Src: reg(RegA)},
		{Op: OpJMP, Dst: addr(2)},
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := NewCPU(prog...)
		c.Run()
	}
}
