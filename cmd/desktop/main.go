package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"asuac/pkg/asm"
	"asuac/pkg/compiler"
	"asuac/pkg/config"
	"asuac/pkg/cpu"
	"asuac/pkg/grid"
)

const (
	screenW    = 640
	screenH    = 480
	lineHeight = 14
	listingX   = 8
	panelX     = 330
	topY       = 24
)

var (
	colorText      = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	colorLabel     = color.RGBA{0x6c, 0xd0, 0x6c, 0xff}
	colorHighlight = color.RGBA{0x30, 0x40, 0x80, 0xff}
	colorError     = color.RGBA{0xe0, 0x50, 0x50, 0xff}
)

// Stepper owns one compiled program and the machine executing it.
type Stepper struct {
	out  *compiler.Output
	prog *asm.Program
	vm   *cpu.CPU
	env  compiler.Env

	// instrLine maps an instruction index to its line in out.Code.
	instrLine []int
	stepLimit int
	err       error
}

func NewStepper(src string, env compiler.Env, stepLimit int) (*Stepper, error) {
	out, err := compiler.Compile(src)
	if err != nil {
		return nil, err
	}
	prog, err := out.Assemble()
	if err != nil {
		return nil, err
	}

	s := &Stepper{out: out, prog: prog, vm: cpu.NewCPU(), env: env, stepLimit: stepLimit}
	for i, in := range out.Code {
		if !in.IsLabel() {
			s.instrLine = append(s.instrLine, i)
		}
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset reloads the program and the variable values.
func (s *Stepper) Reset() error {
	s.err = nil
	s.prog.Load(s.vm)
	for name, v := range s.env {
		if err := s.prog.Poke(s.vm, name, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stepper) Step() { s.vm.Step() }

// RunToEnd steps until the machine halts or the step limit is hit.
func (s *Stepper) RunToEnd() {
	s.err = s.vm.RunLimit(s.stepLimit - s.vm.Steps)
}

// CurrentLine is the listing line of the next instruction, or -1 once halted.
func (s *Stepper) CurrentLine() int {
	if s.vm.Halted || s.vm.PC >= len(s.instrLine) {
		return -1
	}
	return s.instrLine[s.vm.PC]
}

// Result reads the result and error cells.
func (s *Stepper) Result() compiler.Result {
	v, _ := s.prog.Peek(s.vm, compiler.ResultSlot.Name())
	e, _ := s.prog.Peek(s.vm, compiler.ErrorSlot.Name())
	return compiler.Result{Value: v, Error: e != 0}
}

type Game struct {
	s      *Stepper
	face   text.Face
	scroll int
	auto   bool
	cells  grid.Layout
}

func newGame(s *Stepper) *Game {
	return &Game{
		s:     s,
		face:  text.NewGoXFace(basicfont.Face7x13),
		cells: grid.Layout{OriginX: panelX, OriginY: topY + 7*lineHeight, CellW: 100, CellH: lineHeight, Cols: 3},
	}
}

func (g *Game) visibleLines() int { return (screenH - topY - lineHeight) / lineHeight }

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.s.Step()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.s.RunToEnd()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		if err := g.s.Reset(); err != nil {
			return err
		}
		g.auto = false
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		g.auto = !g.auto
	}

	if g.auto && !g.s.vm.Halted {
		g.s.Step()
	}

	_, wheel := ebiten.Wheel()
	g.scroll -= int(wheel * 3)

	// keep the current line on screen
	if cur := g.s.CurrentLine(); cur >= 0 {
		if cur < g.scroll || cur >= g.scroll+g.visibleLines() {
			g.scroll = cur - g.visibleLines()/2
		}
	}
	maxScroll := len(g.s.out.Code) - g.visibleLines()
	if g.scroll > maxScroll {
		g.scroll = maxScroll
	}
	if g.scroll < 0 {
		g.scroll = 0
	}
	return nil
}

func (g *Game) drawText(screen *ebiten.Image, msg string, x, y int, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, msg, g.face, op)
}

func (g *Game) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "SPACE step  ENTER run  A auto  R reset", listingX, 4)

	cur := g.s.CurrentLine()
	for row := 0; row < g.visibleLines(); row++ {
		i := g.scroll + row
		if i >= len(g.s.out.Code) {
			break
		}
		_, y := grid.GetGridCoords(row, 1)
		py := topY + y*lineHeight
		if i == cur {
			screen.SubImage(image.Rect(0, py, panelX-8, py+lineHeight)).(*ebiten.Image).Fill(colorHighlight)
		}
		in := g.s.out.Code[i]
		clr := color.Color(colorText)
		if in.IsLabel() {
			clr = colorLabel
		}
		g.drawText(screen, fmt.Sprintf("%4d  %s", i, in), listingX, py, clr)
	}

	vm := g.s.vm
	status := []string{
		fmt.Sprintf("A=%4d  B=%4d  PC=%d", int8(vm.Regs[cpu.RegA]), int8(vm.Regs[cpu.RegB]), vm.PC),
		fmt.Sprintf("Z=%t N=%t C=%t V=%t", vm.Z, vm.N, vm.C, vm.V),
		fmt.Sprintf("steps=%d mem=%d halted=%t", vm.Steps, vm.MemoryAccesses, vm.Halted),
		fmt.Sprintf("lines=%d accesses=%d", g.s.out.Instructions, g.s.out.MemoryAccesses),
		g.s.Result().String(),
	}
	for i, line := range status {
		g.drawText(screen, line, panelX, topY+i*lineHeight, colorText)
	}
	if g.s.err != nil {
		g.drawText(screen, g.s.err.Error(), panelX, topY+5*lineHeight, colorError)
	}

	for i, cell := range g.s.prog.Cells {
		px, py := g.cells.Cell(i)
		g.drawText(screen, fmt.Sprintf("%s=%d", cell.Name, vm.Signed(cell.Addr)), px, py, colorText)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	set := flag.String("set", "", "variable values, e.g. a=1,b=-2")
	envFile := flag.String("env", config.DefaultFile, "configuration file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	src := strings.Join(flag.Args(), " ")
	if src == "" {
		log.Fatalf(`usage: desktop [-set a=1,b=2] "result = <expression>"`)
	}
	env, err := compiler.ParseEnv(*set)
	if err != nil {
		log.Fatalf("Bad -set: %v", err)
	}

	s, err := NewStepper(src, env, cfg.StepLimit)
	if err != nil {
		log.Fatalf("Compilation failed: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("asuac step viewer")

	if err := ebiten.RunGame(newGame(s)); err != nil {
		log.Fatal(err)
	}
}
