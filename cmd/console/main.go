package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"

	"asuac/pkg/compiler"
	"asuac/pkg/config"
)

// smokeExpressions is the canonical regression list.
var smokeExpressions = []string{
	"result = a + b",
	"result = a - b",
	"result = a + b - c",
	"result = a + b + c + d",
	"result = (a + b) - c",
	"result = a + (b - c)",
	"result = a + b - c + (d - e)",
	"result = a + b - c + (d - e) + f",
}

// session holds the REPL state between lines.
type session struct {
	env       compiler.Env
	cfg       config.Config
	au        aurora.Aurora
	showAsm   bool
	statePath string
}

func newSession(cfg config.Config) *session {
	return &session{env: compiler.Env{}, cfg: cfg, au: aurora.NewAurora(cfg.Color)}
}

// smoke compiles every smoke expression and prints its statistics. It
// returns the number of failures.
func (s *session) smoke(w io.Writer) int {
	failures := 0
	for i, src := range smokeExpressions {
		out, err := compiler.Compile(src)
		if err != nil {
			fmt.Fprintf(w, "%s %-36s %s\n", s.au.Red("FAIL"), src, err)
			failures++
			continue
		}
		if _, err := out.Assemble(); err != nil {
			fmt.Fprintf(w, "%s %-36s %s\n", s.au.Red("FAIL"), src, err)
			failures++
			continue
		}
		fmt.Fprintf(w, "%s %d: %-36s lines=%-4d memory=%d\n",
			s.au.Green("ok"), i+1, src, out.Instructions, out.MemoryAccesses)
	}
	return failures
}

// eval compiles and runs one line. A bare expression gets "result = "
// prepended.
func (s *session) eval(line string, w io.Writer) error {
	src := line
	if !strings.Contains(src, "=") {
		src = "result = " + src
	}

	out, err := compiler.Compile(src)
	if err != nil {
		return err
	}
	if s.showAsm {
		fmt.Fprint(w, out.Pretty(s.cfg.Color))
	}
	if s.cfg.Listing {
		fmt.Fprint(w, out.Listing(s.cfg.Color))
	}

	got, vm, err := out.Execute(s.env, s.cfg.StepLimit)
	if err != nil {
		return err
	}
	if s.statePath != "" {
		prog, err := out.Assemble()
		if err != nil {
			return err
		}
		if err := vm.WriteState(s.statePath, prog.Symbols); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "%s", s.au.Bold(got))
	if s.cfg.Stats {
		fmt.Fprintf(w, "  %s", s.au.Cyan(fmt.Sprintf("(lines=%d memory=%d steps=%d)", out.Instructions, out.MemoryAccesses, vm.Steps)))
	}
	fmt.Fprintln(w)
	return nil
}

// command handles ":"-prefixed REPL commands. It reports false on :quit.
func (s *session) command(line string, w io.Writer) (bool, error) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	switch name {
	case "quit", "q":
		return false, nil
	case "set":
		env, err := compiler.ParseEnv(arg)
		if err != nil {
			return true, err
		}
		for k, v := range env {
			s.env[k] = v
		}
		fmt.Fprintln(w, s.envString())
	case "vars":
		fmt.Fprintln(w, s.envString())
	case "asm":
		s.showAsm = !s.showAsm
		fmt.Fprintf(w, "show assembly: %t\n", s.showAsm)
	case "smoke":
		s.smoke(w)
	default:
		return true, fmt.Errorf("unknown command :%s (try :set, :vars, :asm, :smoke, :quit)", name)
	}
	return true, nil
}

func (s *session) envString() string {
	parts := make([]string, 0, len(compiler.Variables))
	for _, v := range compiler.Variables {
		parts = append(parts, fmt.Sprintf("%c=%d", v, s.env[string(v)]))
	}
	return strings.Join(parts, " ")
}

// repl reads lines from r until EOF or :quit.
func (s *session) repl(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	fmt.Fprint(w, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, ":"):
			more, err := s.command(line, w)
			if err != nil {
				fmt.Fprintln(w, s.au.Red(err.Error()))
			}
			if !more {
				return
			}
		default:
			if err := s.eval(line, w); err != nil {
				fmt.Fprintln(w, s.au.Red(err.Error()))
			}
		}
		fmt.Fprint(w, "> ")
	}
}

func main() {
	smoke := flag.Bool("smoke", false, "compile the smoke-test expressions and print their statistics")
	set := flag.String("set", "", "variable values, e.g. a=1,b=-2")
	showAsm := flag.Bool("show-asm", false, "print the generated assembly")
	statePath := flag.String("state", "", "write the final machine state as JSON to this file")
	envFile := flag.String("env", config.DefaultFile, "configuration file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	s := newSession(cfg)
	s.showAsm = *showAsm
	s.statePath = *statePath
	if *set != "" {
		if _, err := s.command(":set "+*set, io.Discard); err != nil {
			log.Fatalf("Bad -set: %v", err)
		}
	}

	if *smoke {
		if n := s.smoke(os.Stdout); n > 0 {
			log.Fatalf("%d smoke expressions failed", n)
		}
		return
	}

	if flag.NArg() > 0 {
		if err := s.eval(strings.Join(flag.Args(), " "), os.Stdout); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	s.repl(os.Stdin, os.Stdout)
}
