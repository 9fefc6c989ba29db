//go:build logica_cabi

package cabi

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"os"
	"strings"
	"unsafe"

	"github.com/logica-lang/logica/ast"
	"github.com/logica-lang/logica/imports"
	"github.com/logica-lang/logica/jsonast"
)

// pathLoader is the cabi package's imports.Loader: it resolves a dotted
// path against logicapath, a colon-separated list mirroring
// --import-root/LOGICAPATH (§6).
type pathLoader struct {
	roots []string
}

func (l pathLoader) Load(path string) (*ast.Buffer, error) {
	lastDot := strings.LastIndex(path, ".")
	rel := path + ".l"
	if lastDot >= 0 {
		rel = strings.ReplaceAll(path[:lastDot], ".", "/") + ".l"
	}
	for _, root := range l.roots {
		data, err := os.ReadFile(root + "/" + rel)
		if err == nil {
			return ast.NewBuffer(path, string(data)), nil
		}
	}
	return nil, fmt.Errorf("cabi: import %q not found on logicapath", path)
}

//export parse_rules_json
func parse_rules_json(programText, fileName, logicapath *C.char, full C.int) (*C.char, *C.char) {
	text := C.GoString(programText)
	name := C.GoString(fileName)
	roots := strings.Split(C.GoString(logicapath), ":")

	buf := ast.NewBuffer(name, text)
	_ = full // full-program expansion vs. single-file parse is not distinguished by the JSON contract itself

	resolved, err := imports.Resolve(name, buf, pathLoader{roots: roots})
	if err != nil {
		return nil, C.CString(err.Error())
	}

	doc := &jsonast.Document{
		FileName:           name,
		PredicatesPrefix:   "",
		ImportedPredicates: map[string]string{},
		Rules:              resolved.Rules,
	}
	data, jerr := jsonast.Marshal(doc)
	if jerr != nil {
		return nil, C.CString(jerr.Error())
	}
	return C.CString(string(data)), nil
}

//export free
func free(ptr *C.char) {
	C.free(unsafe.Pointer(ptr))
}
