package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asuac/pkg/compiler"
)

// noEnv points the configuration at a file that does not exist.
func noEnv(t *testing.T) string {
	t.Helper()
	return "-env=" + filepath.Join(t.TempDir(), "none.env")
}

func TestParseArgsExpression(t *testing.T) {
	opts, expr, err := parseArgs([]string{noEnv(t), "-color=false", "-listing", "result", "=", "a + b"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if expr != "result = a + b" {
		t.Errorf("expr = %q", expr)
	}
	if opts.cfg.Color || !opts.cfg.Listing || !opts.cfg.Stats {
		t.Errorf("cfg = %+v", opts.cfg)
	}
	if opts.cfg.StepLimit != 200000 {
		t.Errorf("StepLimit = %d", opts.cfg.StepLimit)
	}
}

func TestParseArgsConfigFileAndFlagOverride(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "asuac.env")
	if err := os.WriteFile(envPath, []byte("ASUAC_STATS=false\nASUAC_STEP_LIMIT=99\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, _, err := parseArgs([]string{"-env", envPath, "-steps", "1234", "result = a"}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if opts.cfg.Stats {
		t.Errorf("Stats should come from the file")
	}
	if opts.cfg.StepLimit != 1234 {
		t.Errorf("StepLimit = %d; flag should win", opts.cfg.StepLimit)
	}
}

func TestParseArgsErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"-set", "a=1", "result = a"},
		{"-steps", "0", "result = a"},
		{"-in", "x.txt", "result = a"},
	}
	for _, args := range tests {
		args = append([]string{noEnv(t)}, args...)
		if _, _, err := parseArgs(args, io.Discard); err == nil {
			t.Errorf("parseArgs(%q) should fail", args)
		}
	}
}

func TestParseArgsInputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sum.txt")
	if err := os.WriteFile(in, []byte("# three terms\nresult = a + b - c\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, expr, err := parseArgs([]string{noEnv(t), "-in", in}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if expr != "result = a + b - c" {
		t.Errorf("expr = %q", expr)
	}
	if opts.outPath != filepath.Join(dir, "sum.asm") {
		t.Errorf("outPath = %q", opts.outPath)
	}

	var stdout bytes.Buffer
	if err := execute(opts, expr, &stdout); err != nil {
		t.Fatalf("execute: %v", err)
	}
	written, err := os.ReadFile(opts.outPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	want, _ := compiler.Compile(expr)
	if string(written) != want.Assembly {
		t.Errorf("written assembly differs from Compile output")
	}
}

func TestParseArgsKeepsAsmInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sum.asm")
	if err := os.WriteFile(in, []byte("result = a + b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	opts, _, err := parseArgs([]string{noEnv(t), "-in", in}, io.Discard)
	if err != nil {
		t.Fatalf("parseArgs: %v", err)
	}
	if opts.outPath != in+".asm" {
		t.Errorf("outPath = %q; want %q", opts.outPath, in+".asm")
	}

	if _, _, err := parseArgs([]string{noEnv(t), "-in", in, "-out", in}, io.Discard); err == nil {
		t.Errorf("-out equal to -in should fail")
	}
}

func TestExecutePlain(t *testing.T) {
	opts, expr, err := parseArgs([]string{noEnv(t), "-color=false", "result = a + b"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	if err := execute(opts, expr, &stdout); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := stdout.String()
	if !strings.HasPrefix(got, "DATA:\na 0\n") {
		t.Errorf("output should start with the data section:\n%s", got)
	}
	if !strings.Contains(got, "; Lines generated: 30\n; Memory accesses: 16\n") {
		t.Errorf("missing statistics:\n%s", got)
	}
}

func TestExecuteRun(t *testing.T) {
	opts, expr, err := parseArgs([]string{noEnv(t), "-color=false", "-stats=false", "-run", "-set", "a=100,b=-3,c=7", "result = a / b % c"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	var stdout bytes.Buffer
	if err := execute(opts, expr, &stdout); err != nil {
		t.Fatalf("execute: %v", err)
	}
	// 100 / -3 = -33; -33 mod 7 = 2
	if !strings.Contains(stdout.String(), "run complete: result=2 error=0") {
		t.Errorf("unexpected run output:\n%s", stdout.String())
	}
}

func TestExecuteCompileError(t *testing.T) {
	opts, expr, err := parseArgs([]string{noEnv(t), "result = a $ b"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	err = execute(opts, expr, io.Discard)
	if !errors.Is(err, compiler.ErrInvalidCharacter) {
		t.Errorf("error = %v; want InvalidCharacter", err)
	}
}
