// Command logica is the CLI collaborator of §6: a thin wrapper around
// the compiler core (universe.Assemble + Universe.Compile). Diagnostic
// text goes to stderr and the process exits 1 on any compilation
// error, the teacher's testgen idiom
// (compiler/gen/cmd/testgen/main.go's fmt.Fprintf(os.Stderr,
// ...)+os.Exit(1)) generalized from a one-off demo into a real CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/config"
	"github.com/logica-lang/logica/dialect"
	"github.com/logica-lang/logica/universe"

	// Blank-import every dialect strategy so --engine/@Engine can
	// resolve any of the four supported names (§6).
	_ "github.com/logica-lang/logica/dialect/bigquery"
	_ "github.com/logica-lang/logica/dialect/duckdb"
	_ "github.com/logica-lang/logica/dialect/psql"
	_ "github.com/logica-lang/logica/dialect/sqlite"
)

func main() {
	if len(os.Args) < 4 {
		usage()
		os.Exit(1)
	}
	subcommand := os.Args[1]
	file := os.Args[2]
	predicate := os.Args[3]
	flags := os.Args[4:]

	engineOverride, importRoots, err := parseFlags(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logica: %v\n", err)
		os.Exit(1)
	}

	var opts []config.Option
	if engineOverride != "" {
		opts = append(opts, config.WithEngine(engineOverride))
	}
	if len(importRoots) > 0 {
		opts = append(opts, config.WithImportRoots(importRoots...))
	}
	cfg, err := config.New("logica.yaml", opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logica: loading config: %v\n", err)
		os.Exit(1)
	}

	text, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logica: reading %q: %v\n", file, err)
		os.Exit(1)
	}
	buf := ast.NewBuffer(file, normalizeLineEndings(string(text)))
	loader := fileLoader{roots: cfg.ImportRoots}

	u, err := universe.Assemble(file, buf, loader, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logica: %v\n", err)
		os.Exit(1)
	}

	var sql string
	if cfg.Engine != "" {
		strategy, ok := dialect.Lookup(cfg.Engine)
		if !ok {
			fmt.Fprintf(os.Stderr, "logica: unknown engine %q\n", cfg.Engine)
			os.Exit(1)
		}
		sql, err = u.CompileWith(predicate, strategy)
	} else {
		sql, err = u.Compile(predicate)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logica: %v\n", err)
		os.Exit(1)
	}

	switch subcommand {
	case "compile":
		fmt.Println(sql)
	case "run":
		// Executing compiled SQL against a live engine is an
		// out-of-core collaborator (§1): we print a note on stderr and
		// then the compiled SQL, rather than embedding a full
		// result-formatting layer here.
		fmt.Fprintf(os.Stderr, "logica: 'run' requires a --dsn and a result formatter; compiled SQL below\n")
		fmt.Println(sql)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: logica <compile|run> <file> <predicate> [--engine=NAME] [--import-root=DIR[:DIR...]]")
}

// parseFlags reads --engine and --import-root (§6); --import-root may
// be repeated and/or colon-separated, matching LOGICAPATH's own
// format.
func parseFlags(args []string) (engine string, importRoots []string, err error) {
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "--engine="):
			engine = strings.TrimPrefix(a, "--engine=")
		case strings.HasPrefix(a, "--import-root="):
			importRoots = append(importRoots, strings.Split(strings.TrimPrefix(a, "--import-root="), ":")...)
		default:
			return "", nil, fmt.Errorf("unrecognized flag %q", a)
		}
	}
	return engine, importRoots, nil
}

// fileLoader resolves a dotted import path ("a.b.Name") by searching
// each root in order for "a/b.l" (§6).
type fileLoader struct {
	roots []string
}

func (l fileLoader) Load(path string) (*ast.Buffer, error) {
	lastDot := strings.LastIndex(path, ".")
	rel := path + ".l"
	if lastDot >= 0 {
		rel = strings.ReplaceAll(path[:lastDot], ".", string(filepath.Separator)) + ".l"
	}
	for _, root := range l.roots {
		full := filepath.Join(root, rel)
		data, err := os.ReadFile(full)
		if err == nil {
			return ast.NewBuffer(path, normalizeLineEndings(string(data))), nil
		}
	}
	return nil, fmt.Errorf("import %q not found on any --import-root/LOGICAPATH entry", path)
}

// normalizeLineEndings accepts CRLF on input and normalizes to LF
// (§6: "UTF-8 text with LF line endings (CRLF also accepted)").
func normalizeLineEndings(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
