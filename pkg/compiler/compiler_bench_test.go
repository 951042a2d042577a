package compiler

import (
	"testing"

	"asuac/pkg/cpu"
)

// simpleSource exercises only the add/sub path.
const simpleSource = "result = a + b - c + (d - e) + f"

// complexSource exercises every signed routine and unary minus.
const complexSource = "result = -(a * b) / (c % d + -e) * (f - g) % (a + b * c)"

func BenchmarkCompile_Simple(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Compile(simpleSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCompile_Complex(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Compile(complexSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTokenizeAndParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		tokens, err := Tokenize(complexSource[len("result = "):])
		if err != nil {
			b.Fatal(err)
		}
		if _, err := ToPostfix(tokens); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRunCompiled(b *testing.B) {
	out, err := Compile(complexSource)
	if err != nil {
		b.Fatal(err)
	}
	prog, err := out.Assemble()
	if err != nil {
		b.Fatal(err)
	}
	vm := cpu.NewCPU()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		prog.Load(vm)
		_ = prog.Poke(vm, "a", 9)
		_ = prog.Poke(vm, "b", -7)
		_ = prog.Poke(vm, "d", 5)
		if err := vm.RunLimit(testStepLimit); err != nil {
			b.Fatal(err)
		}
	}
}
