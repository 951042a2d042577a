package compiler

import (
	"fmt"
	"strings"
)

// SlotKind distinguishes the storage classes of the data section.
type SlotKind uint8

const (
	SlotVar SlotKind = iota
	SlotError
	SlotResult
	SlotTemp
)

// Slot is a typed handle to one named data cell.
type Slot struct {
	Kind  SlotKind
	Index int // variable index (0 = a) or temp number
}

var (
	ErrorSlot  = Slot{Kind: SlotError}
	ResultSlot = Slot{Kind: SlotResult}
)

// VarSlot returns the slot of a source variable, or false if name is not one of a..g.
func VarSlot(name string) (Slot, bool) {
	if len(name) != 1 {
		return Slot{}, false
	}
	i := strings.IndexByte(Variables, name[0])
	if i < 0 {
		return Slot{}, false
	}
	return Slot{Kind: SlotVar, Index: i}, true
}

func (s Slot) Name() string {
	switch s.Kind {
	case SlotVar:
		return Variables[s.Index : s.Index+1]
	case SlotError:
		return "error"
	case SlotResult:
		return "result"
	case SlotTemp:
		return fmt.Sprintf("temp%d", s.Index)
	}
	return "?"
}

func (s Slot) String() string { return s.Name() }

// TempPool hands out temp slots from a monotonic counter. Names are never
// reused within one compilation.
type TempPool struct {
	next int
}

func (p *TempPool) Alloc() Slot {
	s := Slot{Kind: SlotTemp, Index: p.next}
	p.next++
	return s
}

// Len is the number of temps handed out so far.
func (p *TempPool) Len() int { return p.next }

// Slots lists every temp in allocation order.
func (p *TempPool) Slots() []Slot {
	out := make([]Slot, p.next)
	for i := range out {
		out[i] = Slot{Kind: SlotTemp, Index: i}
	}
	return out
}

// DataSlots is the fixed prefix of every data section: a..g, error, result.
func DataSlots() []Slot {
	out := make([]Slot, 0, len(Variables)+2)
	for i := range Variables {
		out = append(out, Slot{Kind: SlotVar, Index: i})
	}
	return append(out, ErrorSlot, ResultSlot)
}
