package imports

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/logicaerr"
	"github.com/logica-lang/logica/parse"
)

// Loader loads the file backing a dotted import path (e.g.
// "a.b.helpers") into a Buffer. cmd/logica's Loader walks
// --import-root / LOGICAPATH; tests typically use an in-memory map.
type Loader interface {
	Load(path string) (*ast.Buffer, error)
}

// Resolved is the flattened result of resolving one entry file's import
// DAG: every predicate defined anywhere in the DAG, renamed to its
// owning file's prefix, plus the functor applications collected along
// the way (still to be expanded by rewrite.ExpandFunctors).
type Resolved struct {
	Rules    []*ast.Rule
	Functors []*ast.FunctorApplication
	// Order lists files in resolution (dependency-first) order.
	Order []string
}

var titleCaser = cases.Title(language.Und)

type fileStatus int

const (
	unvisited fileStatus = iota
	visiting
	done
)

type resolver struct {
	loader    Loader
	entryPath string
	status    map[string]fileStatus
	prefixes  map[string]string
	defined   map[string]map[string]bool // path -> bare predicate names defined there
	chain     []string

	rules    []*ast.Rule
	functors []*ast.FunctorApplication
	order    []string
}

// Resolve resolves entryPath/entryBuf's import DAG to completion. The
// entry file's own predicates keep their written names unprefixed (it
// is the program being compiled, not something reached via an "import"
// statement); every transitively imported file still gets its
// prefixFor rename, so --predicate names passed to cmd/logica's
// "compile <file> <predicate>" match what the user wrote (§6).
func Resolve(entryPath string, entryBuf *ast.Buffer, loader Loader) (*Resolved, error) {
	r := &resolver{
		loader:    loader,
		entryPath: entryPath,
		status:    map[string]fileStatus{},
		prefixes:  map[string]string{},
		defined:   map[string]map[string]bool{},
	}
	if err := r.resolveFile(entryPath, entryBuf); err != nil {
		return nil, err
	}
	return &Resolved{Rules: r.rules, Functors: r.functors, Order: r.order}, nil
}

func (r *resolver) prefixFor(path string) string {
	if path == r.entryPath {
		return ""
	}
	if p, ok := r.prefixes[path]; ok {
		return p
	}
	parts := strings.Split(path, ".")
	last := parts[len(parts)-1]
	prefix := titleCaser.String(last) + "_"
	r.prefixes[path] = prefix
	return prefix
}

func (r *resolver) resolveFile(path string, buf *ast.Buffer) error {
	switch r.status[path] {
	case done:
		return nil
	case visiting:
		return logicaerr.NewImportError("import cycle detected", append(append([]string{}, r.chain...), path), ast.SourceSpan{})
	}
	r.status[path] = visiting
	r.chain = append(r.chain, path)
	defer func() { r.chain = r.chain[:len(r.chain)-1] }()

	stmts, perr := parse.Statements(buf)
	if perr != nil {
		return perr
	}

	prefix := r.prefixFor(path)
	definedHere := map[string]bool{}
	var fileImports []*ast.Import
	var fileRules []*ast.Rule
	var fileFunctors []*ast.FunctorApplication

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Import:
			fileImports = append(fileImports, s)
		case *ast.FunctorApplication:
			fileFunctors = append(fileFunctors, s)
			definedHere[s.NewName] = true
		case *ast.RuleStatement:
			fileRules = append(fileRules, s.Rule)
			if !strings.HasPrefix(s.Rule.Head.Name, "@") {
				definedHere[s.Rule.Head.Name] = true
			}
		}
	}

	importRenames := map[string]string{}
	referenced := map[string]bool{}
	for _, imp := range fileImports {
		// Files are keyed by the import path minus its predicate name, so
		// two imports from one file share one load and one prefix.
		depPath := imp.Path
		if i := strings.LastIndex(imp.Path, "."); i >= 0 {
			depPath = imp.Path[:i]
		}
		localName := lastComponent(imp.Path)
		var depBuf *ast.Buffer
		if r.status[depPath] == unvisited {
			loaded, err := r.loader.Load(imp.Path)
			if err != nil {
				return logicaerr.NewImportError("cannot load import \""+imp.Path+"\": "+err.Error(), r.chainWith(depPath), imp.Heritage())
			}
			depBuf = loaded
		}
		if err := r.resolveFile(depPath, depBuf); err != nil {
			return err
		}
		if !r.defined[depPath][localName] {
			return logicaerr.NewImportError("import \""+imp.Path+"\" is neither defined nor grounded in "+depPath, r.chainWith(depPath), imp.Heritage())
		}
		alias := localName
		if imp.Alias != "" {
			alias = imp.Alias
		}
		importRenames[alias] = r.prefixFor(depPath) + localName
	}

	rename := func(name string) string {
		if renamed, ok := importRenames[name]; ok {
			referenced[name] = true
			return renamed
		}
		if strings.HasPrefix(name, "@") {
			return name
		}
		if definedHere[name] {
			return prefix + name
		}
		return name
	}

	for _, fr := range fileRules {
		renamed := ast.CloneRule(fr, rename)
		r.rules = append(r.rules, renamed)
	}
	for _, ff := range fileFunctors {
		r.functors = append(r.functors, ast.NewFunctorApplication(
			rename(ff.NewName), rename(ff.Template), renameSlots(ff.Slots, rename), ff.Heritage(),
		))
	}

	for _, imp := range fileImports {
		name := imp.Alias
		if name == "" {
			name = lastComponent(imp.Path)
		}
		if !referenced[name] {
			return logicaerr.NewImportError("imported predicate \""+imp.Path+"\" is never referenced", r.chainWith(path), imp.Heritage())
		}
	}

	r.defined[path] = definedHere
	r.status[path] = done
	r.order = append(r.order, path)
	return nil
}

func (r *resolver) chainWith(tail string) []string {
	return append(append([]string{}, r.chain...), tail)
}

func lastComponent(path string) string {
	parts := strings.Split(path, ".")
	return parts[len(parts)-1]
}

func renameSlots(slots []ast.Field, rename func(string) string) []ast.Field {
	out := make([]ast.Field, len(slots))
	for i, f := range slots {
		f.Value = ast.RewriteExpression(f.Value, rename)
		out[i] = f
	}
	return out
}
