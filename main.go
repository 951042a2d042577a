//go:build !js

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"

	"asuac/pkg/compiler"
	"asuac/pkg/config"
	"asuac/pkg/utils"
)

type options struct {
	inPath  string
	outPath string
	run     bool
	set     string
	envFile string
	cfg     config.Config
}

func main() {
	opts, expr, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := execute(opts, expr, os.Stdout); err != nil {
		au := aurora.NewAurora(opts.cfg.Color)
		fmt.Fprintln(os.Stderr, au.Red("Error: "+err.Error()))
		os.Exit(1)
	}
}

// parseArgs resolves flags on top of the .env configuration. Flags that
// were not given on the command line keep their configured values.
func parseArgs(args []string, stderr io.Writer) (options, string, error) {
	fs := flag.NewFlagSet("asuac", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, `usage: asuac [flags] "result = <expression>"`)
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.inPath, "in", "", "read the expression from a file")
	fs.StringVar(&opts.outPath, "out", "", "write the assembly to a file (default: -in with .asm extension)")
	fs.BoolVar(&opts.run, "run", false, "run the program on the simulator and print result and error")
	fs.StringVar(&opts.set, "set", "", "variable values for -run, e.g. a=1,b=-2")
	fs.StringVar(&opts.envFile, "env", config.DefaultFile, "configuration file")
	color := fs.Bool("color", true, "colour output")
	stats := fs.Bool("stats", true, "print statistics")
	listing := fs.Bool("listing", false, "print a numbered instruction listing")
	steps := fs.Int("steps", 0, "simulator step limit for -run")

	if err := fs.Parse(args); err != nil {
		return opts, "", err
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return opts, "", err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			cfg.Color = *color
		case "stats":
			cfg.Stats = *stats
		case "listing":
			cfg.Listing = *listing
		case "steps":
			cfg.StepLimit = *steps
		}
	})
	if cfg.StepLimit <= 0 {
		return opts, "", fmt.Errorf("-steps must be positive")
	}
	opts.cfg = cfg

	expr := strings.Join(fs.Args(), " ")
	if opts.inPath != "" {
		if expr != "" {
			return opts, "", fmt.Errorf("use either -in or an expression argument, not both")
		}
		fullPath, _, err := utils.GetPathInfo(opts.inPath)
		if err != nil {
			return opts, "", err
		}
		expr, err = utils.ReadExpression(fullPath)
		if err != nil {
			return opts, "", fmt.Errorf("failed to read input file %q: %w", opts.inPath, err)
		}
		if opts.outPath == "" {
			opts.outPath = utils.AsmPath(opts.inPath)
		}
		outPath, _, err := utils.GetPathInfo(opts.outPath)
		if err != nil {
			return opts, "", err
		}
		if outPath == fullPath {
			return opts, "", fmt.Errorf("-out %q would overwrite the input file", opts.outPath)
		}
	}
	if expr == "" {
		fs.Usage()
		return opts, "", fmt.Errorf("nothing to do: provide an expression or -in <file>")
	}
	if opts.set != "" && !opts.run {
		return opts, "", fmt.Errorf("-set requires -run")
	}

	return opts, expr, nil
}

func execute(opts options, expr string, stdout io.Writer) error {
	au := aurora.NewAurora(opts.cfg.Color)

	out, err := compiler.Compile(expr)
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}

	if opts.outPath != "" {
		if err := os.WriteFile(opts.outPath, []byte(out.Assembly), 0o644); err != nil {
			return fmt.Errorf("failed to write %q: %w", opts.outPath, err)
		}
		fmt.Fprintf(stdout, "compiled %d lines -> %s\n", out.Instructions, opts.outPath)
	} else {
		fmt.Fprint(stdout, out.Pretty(opts.cfg.Color))
	}

	if opts.cfg.Listing {
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, out.Listing(opts.cfg.Color))
	}
	if opts.cfg.Stats {
		fmt.Fprint(stdout, au.Cyan(out.Stats()))
	}

	if !opts.run {
		return nil
	}

	env, err := compiler.ParseEnv(opts.set)
	if err != nil {
		return err
	}
	got, vm, err := out.Execute(env, opts.cfg.StepLimit)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	want, err := compiler.EvaluatePostfix(out.Postfix, env)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\nrun complete: %s steps=%d memory_accesses=%d\n", au.Green(got), vm.Steps, vm.MemoryAccesses)
	if got != want {
		return fmt.Errorf("simulator result %v differs from reference %v", got, want)
	}
	return nil
}
