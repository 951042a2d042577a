// Command stages prints every intermediate form of one compilation:
// tokens, postfix sequence, typed instructions and the final assembly.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"asuac/pkg/compiler"
)

const testSource = "result = a + b - c + (d - e) + f"

func main() {
	src := testSource
	if len(os.Args) > 1 {
		src = strings.Join(os.Args[1:], " ")
	}

	fmt.Printf("Source:\n%s\n\n", src)

	_, rhs, ok := strings.Cut(src, "=")
	if !ok {
		rhs = src
	}
	rhs = strings.TrimSpace(rhs)

	// Lex
	tokens, err := compiler.Tokenize(rhs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", err)
		os.Exit(1)
	}

	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}

	fmt.Printf("Tokens (%d)\n", len(tokens))
	cfg.Dump(tokens)
	fmt.Println()

	// Shunting-yard
	postfix, err := compiler.ToPostfix(tokens)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}

	fmt.Printf("Postfix: %s\n", compiler.FormatTokens(postfix))
	fmt.Println()

	// code Generation
	out, err := compiler.Compile(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	fmt.Printf("Temps (%d)\n", len(out.Temps))
	cfg.Dump(out.Temps)
	fmt.Println()

	fmt.Printf("Instructions (%d)\n", len(out.Code))
	for i, in := range out.Code {
		if i < 8 {
			fmt.Print(cfg.Sdump(in))
		}
	}
	if len(out.Code) > 8 {
		fmt.Printf("  ... %d more\n", len(out.Code)-8)
	}
	fmt.Println()

	fmt.Println("Generated Assembly")
	fmt.Print(out.Assembly)
	fmt.Print(out.Stats())
}
