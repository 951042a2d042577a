package compiler

import "strings"

// Emit renders the DATA and CODE sections. Every cell starts at 0; the
// fixed cells come first, then temps in allocation order.
func Emit(temps []Slot, code []Instruction) string {
	var b strings.Builder

	b.WriteString("DATA:\n")
	for _, s := range DataSlots() {
		b.WriteString(s.Name())
		b.WriteString(" 0\n")
	}
	for _, s := range temps {
		b.WriteString(s.Name())
		b.WriteString(" 0\n")
	}

	b.WriteString("\nCODE:\n")
	for _, in := range code {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}

	return b.String()
}
