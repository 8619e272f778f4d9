// Command cobrac is the Cobra/Nomad type checker CLI: read one or more
// source files, parse them into a module, run the driver's fixed-point type
// check, and report diagnostics. Dispatch is raw os.Args inspection, the way
// the teacher's cmd/funxy/main.go reads its subcommand out of os.Args[1]
// rather than through a flag-parsing package.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/cobra-lang/cobrac/internal/ast"
	"github.com/cobra-lang/cobrac/internal/config"
	"github.com/cobra-lang/cobrac/internal/diagnostics"
	"github.com/cobra-lang/cobrac/internal/driver"
	"github.com/cobra-lang/cobrac/internal/parser"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s [-c cobra.yaml] <file.cobra> [file2.cobra ...]\n", os.Args[0])
		os.Exit(1)
	}

	if os.Args[1] == "test" {
		config.IsTestMode = true
	}

	configPath := "cobra.yaml"
	var files []string
	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		if arg == "-c" && i+1 < len(os.Args) {
			configPath = os.Args[i+1]
			i++
			continue
		}
		if isSourceFile(arg) {
			files = append(files, arg)
		}
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "no source files given\n")
		os.Exit(1)
	}

	project, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading %s: %s\n", configPath, err)
		os.Exit(1)
	}

	module := ast.NewModule(moduleNameFor(files[0]))
	var parseErrs []error
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading %s: %s\n", path, err)
			os.Exit(1)
		}
		parseErrs = append(parseErrs, parser.ParseInto(module, path, string(src))...)
	}
	if len(parseErrs) > 0 {
		for _, e := range parseErrs {
			fmt.Fprintf(os.Stderr, "%s\n", e)
		}
		os.Exit(1)
	}

	bag, err := driver.TypeCheckModuleWithProject(module, project)
	printDiagnostics(bag)
	if err != nil {
		os.Exit(1)
	}
}

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func moduleNameFor(path string) string {
	base := filepath.Base(path)
	for _, ext := range config.SourceFileExtensions {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// printDiagnostics reports every collected diagnostic, color-coding errors
// vs. warnings when stdout is an interactive terminal, and summarizing the
// count with a human-readable pluralization.
func printDiagnostics(bag *diagnostics.Bag) {
	entries := bag.Errors()
	if len(entries) == 0 {
		fmt.Println("ok: no errors")
		return
	}

	color := isatty.IsTerminal(os.Stdout.Fd())
	var nErrors, nWarnings int
	for _, e := range entries {
		if e.Severity == diagnostics.SeverityWarning {
			nWarnings++
		} else {
			nErrors++
		}
		fmt.Println(formatDiagnostic(e, color))
	}

	fmt.Printf("%s, %s\n",
		humanize.Comma(int64(nErrors))+" "+pluralize(nErrors, "error", "errors"),
		humanize.Comma(int64(nWarnings))+" "+pluralize(nWarnings, "warning", "warnings"))
}

func formatDiagnostic(e *diagnostics.DiagnosticError, color bool) string {
	if !color {
		return e.Error()
	}
	const (
		red    = "\x1b[31m"
		yellow = "\x1b[33m"
		reset  = "\x1b[0m"
	)
	c := red
	if e.Severity == diagnostics.SeverityWarning {
		c = yellow
	}
	return c + e.Error() + reset
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
