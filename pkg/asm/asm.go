package asm

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"asuac/pkg/cpu"
)

// Cell is one declared data cell.
type Cell struct {
	Name string
	Addr uint8
	Init uint8
}

// Program is the assembled form of a DATA:/CODE: listing.
type Program struct {
	Cells   []Cell
	Symbols map[string]uint8 // cell name -> address
	Labels  map[string]int   // normalized label -> instruction index
	Code    []cpu.Instruction

	// SourceMap maps an instruction index to its 1-based source line.
	SourceMap map[int]int
}

type section int

const (
	sectionNone section = iota
	sectionData
	sectionCode
)

type Assembler struct {
	symbols map[string]uint8
	labels  map[string]int
	cells   []Cell
}

type parsedLine struct {
	lineNo   int
	labels   []string
	mnemonic string
	operands []string
}

func NewAssembler() *Assembler {
	return &Assembler{
		symbols: make(map[string]uint8),
		labels:  make(map[string]int),
	}
}

func Assemble(code string) (*Program, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) (*Program, error) {
	lines := strings.Split(code, "\n")

	if err := a.pass1(lines); err != nil {
		return nil, err
	}

	return a.pass2(lines)
}

// sectionHeader reports whether line switches section.
func sectionHeader(line string) (section, bool) {
	switch strings.ToUpper(line) {
	case "DATA:":
		return sectionData, true
	case "CODE:":
		return sectionCode, true
	}
	return sectionNone, false
}

func (a *Assembler) pass1(lines []string) error {
	sec := sectionNone
	index := 0

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(stripComments(raw))
		if line == "" {
			continue
		}
		if s, ok := sectionHeader(line); ok {
			sec = s
			continue
		}

		switch sec {
		case sectionNone:
			return fmt.Errorf("line %d is outside of a DATA: or CODE: section", lineNo)

		case sectionData:
			if err := a.declareCell(line, lineNo); err != nil {
				return err
			}

		case sectionCode:
			p, err := parseLine(raw, lineNo)
			if err != nil {
				return err
			}
			for _, lbl := range p.labels {
				key := normalizeLabel(lbl)
				if _, exists := a.labels[key]; exists {
					return fmt.Errorf("duplicate label '%s' on line %d", lbl, lineNo)
				}
				a.labels[key] = index
			}
			if p.mnemonic == "" {
				continue
			}
			if _, ok := cpu.Mnemonics[p.mnemonic]; !ok {
				return fmt.Errorf("unknown instruction on line %d: %s", lineNo, p.mnemonic)
			}
			index++
		}
	}

	return nil
}

func (a *Assembler) declareCell(line string, lineNo int) error {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return fmt.Errorf("data declaration on line %d must be '<name> <value>'", lineNo)
	}
	name := fields[0]
	if !isIdentifier(name) {
		return fmt.Errorf("invalid data cell name '%s' on line %d", name, lineNo)
	}
	if _, exists := a.symbols[name]; exists {
		return fmt.Errorf("duplicate data cell '%s' on line %d", name, lineNo)
	}
	if len(a.cells) >= cpu.MemorySize {
		return fmt.Errorf("data section too large near line %d: more than %d cells", lineNo, cpu.MemorySize)
	}
	init, err := parseByte(fields[1], lineNo)
	if err != nil {
		return err
	}

	addr := uint8(len(a.cells))
	a.symbols[name] = addr
	a.cells = append(a.cells, Cell{Name: name, Addr: addr, Init: init})
	return nil
}

func (a *Assembler) pass2(lines []string) (*Program, error) {
	prog := &Program{
		Cells:     a.cells,
		Symbols:   a.symbols,
		Labels:    a.labels,
		SourceMap: make(map[int]int),
	}
	sec := sectionNone

	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(stripComments(raw))
		if line == "" {
			continue
		}
		if s, ok := sectionHeader(line); ok {
			sec = s
			continue
		}
		if sec != sectionCode {
			continue
		}

		p, err := parseLine(raw, lineNo)
		if err != nil {
			return nil, err
		}
		if p.mnemonic == "" {
			continue
		}

		instr, err := a.encode(p)
		if err != nil {
			return nil, err
		}
		prog.SourceMap[len(prog.Code)] = lineNo
		prog.Code = append(prog.Code, instr)
	}

	return prog, nil
}

func (a *Assembler) encode(p parsedLine) (cpu.Instruction, error) {
	op := cpu.Mnemonics[p.mnemonic]
	instr := cpu.Instruction{Op: op}

	if op.IsJump() {
		if len(p.operands) != 1 {
			return instr, fmt.Errorf("%s expects 1 operand on line %d", p.mnemonic, p.lineNo)
		}
		target, err := a.parseOperand(p.operands[0], p.lineNo)
		if err != nil {
			return instr, err
		}
		if target.Kind != cpu.OperandAddr {
			return instr, fmt.Errorf("%s expects a label on line %d: %s", p.mnemonic, p.lineNo, p.operands[0])
		}
		instr.Dst = target
		return instr, nil
	}

	if len(p.operands) != 2 {
		return instr, fmt.Errorf("%s expects 2 operands on line %d", p.mnemonic, p.lineNo)
	}
	dst, err := a.parseOperand(p.operands[0], p.lineNo)
	if err != nil {
		return instr, err
	}
	src, err := a.parseOperand(p.operands[1], p.lineNo)
	if err != nil {
		return instr, err
	}
	if src.Kind == cpu.OperandAddr {
		return instr, fmt.Errorf("label '%s' used as a value on line %d", p.operands[1], p.lineNo)
	}

	switch {
	case op == cpu.OpMOV && dst.Kind == cpu.OperandMem:
		if src.Kind != cpu.OperandReg {
			return instr, fmt.Errorf("MOV to memory needs a register source on line %d", p.lineNo)
		}
	case dst.Kind != cpu.OperandReg:
		return instr, fmt.Errorf("%s destination must be a register on line %d: %s", p.mnemonic, p.lineNo, p.operands[0])
	}

	instr.Dst = dst
	instr.Src = src
	return instr, nil
}

func (a *Assembler) parseOperand(token string, lineNo int) (cpu.Operand, error) {
	switch strings.ToUpper(token) {
	case "A":
		return cpu.Operand{Kind: cpu.OperandReg, Reg: cpu.RegA}, nil
	case "B":
		return cpu.Operand{Kind: cpu.OperandReg, Reg: cpu.RegB}, nil
	}

	if strings.HasPrefix(token, "(") && strings.HasSuffix(token, ")") {
		name := strings.TrimSpace(token[1 : len(token)-1])
		addr, ok := a.symbols[name]
		if !ok {
			return cpu.Operand{}, fmt.Errorf("undefined data cell '%s' on line %d", name, lineNo)
		}
		return cpu.Operand{Kind: cpu.OperandMem, Value: addr}, nil
	}

	if _, err := strconv.ParseInt(token, 0, 64); err == nil {
		v, err := parseByte(token, lineNo)
		if err != nil {
			return cpu.Operand{}, err
		}
		return cpu.Operand{Kind: cpu.OperandImm, Value: v}, nil
	}

	if idx, ok := a.labels[normalizeLabel(token)]; ok {
		return cpu.Operand{Kind: cpu.OperandAddr, Target: idx}, nil
	}

	if isIdentifier(token) {
		return cpu.Operand{}, fmt.Errorf("undefined label '%s' on line %d", token, lineNo)
	}

	return cpu.Operand{}, fmt.Errorf("invalid operand '%s' on line %d", token, lineNo)
}

// parseByte accepts 0..255 and the two's-complement range -128..-1.
func parseByte(token string, lineNo int) (uint8, error) {
	value, err := strconv.ParseInt(token, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value on line %d: %s", lineNo, token)
	}
	if value < -128 || value > 255 {
		return 0, fmt.Errorf("value out of range on line %d: %s", lineNo, token)
	}
	return uint8(value), nil
}

func parseLine(raw string, lineNo int) (parsedLine, error) {
	p := parsedLine{lineNo: lineNo}

	line := strings.TrimSpace(stripComments(raw))
	if line == "" {
		return p, nil
	}

	for {
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			break
		}

		beforeColon := strings.TrimSpace(line[:colon])
		if beforeColon == "" {
			return p, fmt.Errorf("invalid label on line %d", lineNo)
		}

		if strings.ContainsAny(beforeColon, " \t") {
			break
		}

		if !isIdentifier(beforeColon) {
			return p, fmt.Errorf("invalid label '%s' on line %d", beforeColon, lineNo)
		}

		p.labels = append(p.labels, beforeColon)
		line = strings.TrimSpace(line[colon+1:])
		if line == "" {
			return p, nil
		}
	}

	line = normalizeInstructionText(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return p, nil
	}

	p.mnemonic = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		p.operands = fields[1:]
	}

	return p, nil
}

func stripComments(line string) string {
	semicolon := strings.Index(line, ";")
	doubleSlash := strings.Index(line, "//")

	cut := -1
	if semicolon >= 0 {
		cut = semicolon
	}
	if doubleSlash >= 0 && (cut == -1 || doubleSlash < cut) {
		cut = doubleSlash
	}
	if cut >= 0 {
		return line[:cut]
	}
	return line
}

// normalizeInstructionText turns "MOV A, ( x )" into "MOV A (x)".
func normalizeInstructionText(line string) string {
	line = strings.ReplaceAll(line, ",", " ")
	var b strings.Builder
	depth := 0
	for _, r := range line {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case depth > 0 && unicode.IsSpace(r):
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return false
			}
			continue
		}

		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}

	return true
}

func normalizeLabel(label string) string {
	return strings.ToUpper(label)
}

// Load seeds c's memory with the declared initial values and loads the code.
func (p *Program) Load(c *cpu.CPU) {
	for _, cell := range p.Cells {
		c.Memory[cell.Addr] = cell.Init
	}
	c.Load(p.Code)
}

// Poke stores v into the named cell.
func (p *Program) Poke(c *cpu.CPU, name string, v int8) error {
	addr, ok := p.Symbols[name]
	if !ok {
		return fmt.Errorf("unknown data cell %q", name)
	}
	c.Memory[addr] = uint8(v)
	return nil
}

// Peek reads the named cell as a signed value.
func (p *Program) Peek(c *cpu.CPU, name string) (int8, error) {
	addr, ok := p.Symbols[name]
	if !ok {
		return 0, fmt.Errorf("unknown data cell %q", name)
	}
	return c.Signed(addr), nil
}
