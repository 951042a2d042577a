package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetPathInfo(t *testing.T) {
	full, dir, err := GetPathInfo("testdata/../expr.txt")
	if err != nil {
		t.Fatalf("GetPathInfo: %v", err)
	}
	if !filepath.IsAbs(full) {
		t.Errorf("full path %q is not absolute", full)
	}
	if filepath.Base(full) != "expr.txt" || filepath.Dir(full) != dir {
		t.Errorf("GetPathInfo = (%q, %q)", full, dir)
	}
}

func TestAsmPath(t *testing.T) {
	tests := map[string]string{
		"expr.txt":     "expr.asm",
		"dir/sum.expr": "dir/sum.asm",
		"noext":        "noext.asm",
		"a.b/c.txt":    "a.b/c.asm",
		"prog.asm":     "prog.asm.asm",
	}
	for in, want := range tests {
		if got := AsmPath(in); got != want {
			t.Errorf("AsmPath(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestReadExpression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expr.txt")
	content := "# sum of three\n\n; another comment\n  result = a + b - c  \nresult = g\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadExpression(path)
	if err != nil {
		t.Fatalf("ReadExpression: %v", err)
	}
	if got != "result = a + b - c" {
		t.Errorf("ReadExpression = %q", got)
	}

	if _, err := ReadExpression(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Errorf("missing file should fail")
	}
}
