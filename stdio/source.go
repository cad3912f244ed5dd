//go:build !n64

package stdio

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"sync"
)

type sourceFile struct {
	fset *token.FileSet
	file *ast.File
	src  []byte
}

// Parsed sources by path. A nil entry records a file that could not be
// read or parsed.
var sources sync.Map

func loadSource(path string) *sourceFile {
	if cached, ok := sources.Load(path); ok {
		return cached.(*sourceFile)
	}

	var sf *sourceFile
	src, err := os.ReadFile(path)
	if err == nil {
		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, src, parser.SkipObjectResolution)
		if err == nil {
			sf = &sourceFile{fset: fset, file: file, src: src}
		}
	}

	cached, _ := sources.LoadOrStore(path, sf)
	return cached.(*sourceFile)
}

// calleeName strips package selectors and type arguments from a call's
// function expression.
func calleeName(fun ast.Expr) string {
	for {
		switch expr := fun.(type) {
		case *ast.Ident:
			return expr.Name
		case *ast.SelectorExpr:
			return expr.Sel.Name
		case *ast.IndexExpr:
			fun = expr.X
		case *ast.IndexListExpr:
			fun = expr.X
		case *ast.ParenExpr:
			fun = expr.X
		default:
			return ""
		}
	}
}

// callArgs returns the source text of the arguments of the call to name
// on the given line of the file at path. When several calls match, the
// one that opens on that line wins, then the first in source order.
func callArgs(path string, line int, name string) (exprs []string) {
	sf := loadSource(path)
	if sf == nil {
		return
	}

	var found, spanning *ast.CallExpr
	ast.Inspect(sf.file, func(node ast.Node) bool {
		if found != nil {
			return false
		}
		call, ok := node.(*ast.CallExpr)
		if !ok || calleeName(call.Fun) != name {
			return true
		}
		start := sf.fset.Position(call.Lparen).Line
		end := sf.fset.Position(call.Rparen).Line
		switch {
		case start == line:
			found = call
		case spanning == nil && start <= line && line <= end:
			spanning = call
		}
		return true
	})
	if found == nil {
		found = spanning
	}
	if found == nil {
		return
	}

	for _, arg := range found.Args {
		from := sf.fset.Position(arg.Pos()).Offset
		to := sf.fset.Position(arg.End()).Offset
		exprs = append(exprs, string(sf.src[from:to]))
	}

	return
}
