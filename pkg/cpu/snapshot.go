package cpu

import (
	"encoding/json"
	"fmt"
	"os"
)

// State is the JSON-serializable snapshot of the machine.
type State struct {
	A              int8            `json:"a"`
	B              int8            `json:"b"`
	PC             int             `json:"pc"`
	Z              bool            `json:"z"`
	N              bool            `json:"n"`
	C              bool            `json:"c"`
	V              bool            `json:"v"`
	Halted         bool            `json:"halted"`
	Steps          int             `json:"steps"`
	MemoryAccesses int             `json:"memory_accesses"`
	Cells          map[string]int8 `json:"cells,omitempty"`
}

// Snapshot captures registers, flags and the named cells in symbols.
func (c *CPU) Snapshot(symbols map[string]uint8) State {
	st := State{
		A:              int8(c.Regs[RegA]),
		B:              int8(c.Regs[RegB]),
		PC:             c.PC,
		Z:              c.Z,
		N:              c.N,
		C:              c.C,
		V:              c.V,
		Halted:         c.Halted,
		Steps:          c.Steps,
		MemoryAccesses: c.MemoryAccesses,
	}
	if len(symbols) > 0 {
		st.Cells = make(map[string]int8, len(symbols))
		for name, addr := range symbols {
			st.Cells[name] = c.Signed(addr)
		}
	}
	return st
}

// MarshalState returns the indented JSON form of Snapshot(symbols).
func (c *CPU) MarshalState(symbols map[string]uint8) ([]byte, error) {
	data, err := json.MarshalIndent(c.Snapshot(symbols), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cpu state: %w", err)
	}
	return data, nil
}

// WriteState writes the JSON snapshot to path.
func (c *CPU) WriteState(path string, symbols map[string]uint8) error {
	data, err := c.MarshalState(symbols)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
