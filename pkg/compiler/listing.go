package compiler

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
)

// Colorize renders one code line with mnemonics in blue, registers in red,
// immediates in brown, data cells in magenta and labels in green.
func Colorize(in Instruction, au aurora.Aurora) string {
	if in.IsLabel() {
		return au.Green(in.Label + ":").String()
	}

	retval := au.Blue(in.Op.String()).String()
	for i, o := range []Operand{in.Dst, in.Src} {
		if o.Kind == OperandNone {
			continue
		}
		sep := " "
		if i > 0 {
			sep = ", "
		}
		retval += sep + colorOperand(o, au)
	}
	return retval
}

func colorOperand(o Operand, au aurora.Aurora) string {
	switch o.Kind {
	case OperandReg:
		return au.Red(o.String()).String()
	case OperandImm:
		return au.Brown(o.String()).String()
	case OperandSlot:
		return au.Magenta(o.String()).String()
	case OperandLabel:
		return au.Green(o.String()).String()
	}
	return o.String()
}

// Pretty is the assembly text with the CODE section coloured. With color
// false it equals Assembly.
func (o *Output) Pretty(color bool) string {
	if !color {
		return o.Assembly
	}
	au := aurora.NewAurora(true)

	var b strings.Builder
	b.WriteString(au.Bold("DATA:").String() + "\n")
	for _, s := range append(DataSlots(), o.Temps...) {
		fmt.Fprintf(&b, "%s %s\n", au.Magenta(s.Name()), au.Brown("0"))
	}
	b.WriteString("\n" + au.Bold("CODE:").String() + "\n")
	for _, in := range o.Code {
		b.WriteString(Colorize(in, au))
		b.WriteByte('\n')
	}
	return b.String()
}

// Listing numbers every code line, labels included.
func (o *Output) Listing(color bool) string {
	au := aurora.NewAurora(color)
	var b strings.Builder
	for i, in := range o.Code {
		fmt.Fprintf(&b, "%4d  %s\n", i, Colorize(in, au))
	}
	return b.String()
}

// Stats is the trailing statistics block printed after the assembly.
func (o *Output) Stats() string {
	return fmt.Sprintf("\n; Statistics:\n; Lines generated: %d\n; Memory accesses: %d\n",
		o.Instructions, o.MemoryAccesses)
}
