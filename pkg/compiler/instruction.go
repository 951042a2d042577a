package compiler

import (
	"fmt"

	"asuac/pkg/cpu"
)

type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandReg
	OperandImm
	OperandSlot
	OperandLabel
)

// Operand is one argument of an emitted instruction.
type Operand struct {
	Kind  OperandKind
	Reg   cpu.Register
	Imm   int
	Slot  Slot
	Label string
}

var (
	regA = Operand{Kind: OperandReg, Reg: cpu.RegA}
	regB = Operand{Kind: OperandReg, Reg: cpu.RegB}
)

func imm(v int) Operand       { return Operand{Kind: OperandImm, Imm: v} }
func mem(s Slot) Operand      { return Operand{Kind: OperandSlot, Slot: s} }
func target(l string) Operand { return Operand{Kind: OperandLabel, Label: l} }

func (o Operand) String() string {
	switch o.Kind {
	case OperandReg:
		return o.Reg.String()
	case OperandImm:
		return fmt.Sprintf("%d", o.Imm)
	case OperandSlot:
		return "(" + o.Slot.Name() + ")"
	case OperandLabel:
		return o.Label
	}
	return ""
}

// Instruction is one line of the CODE section: either a label definition
// (Label set, Op zero) or an operation.
type Instruction struct {
	Op    cpu.Opcode
	Dst   Operand
	Src   Operand
	Label string
}

func (in Instruction) IsLabel() bool { return in.Op == 0 && in.Label != "" }

// TouchesMemory reports whether the line reads or writes a named cell.
func (in Instruction) TouchesMemory() bool {
	return in.Dst.Kind == OperandSlot || in.Src.Kind == OperandSlot
}

func (in Instruction) String() string {
	if in.IsLabel() {
		return in.Label + ":"
	}
	if in.Src.Kind == OperandNone {
		return in.Op.String() + " " + in.Dst.String()
	}
	return in.Op.String() + " " + in.Dst.String() + ", " + in.Src.String()
}
