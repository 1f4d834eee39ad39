// Package scan inspects Go test files for fixture registrations. A
// registration is a Register call with a string-literal name; it counts as
// checked when one of its option arguments attaches a validator. The
// command-line tool uses this to report check coverage and to add default
// checks to registrations that have none.
package scan

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

const fixtureImportPath = "github.com/topiaruss/fixturecheck/fixture"

// checkingOptions are the option constructors that make a registration
// checked.
var checkingOptions = map[string]bool{ //nolint:gochecknoglobals
	"WithValidator":         true,
	"Check":                 true,
	"ExpectValidationError": true,
	"WithPropertyValues":    true,
}

// Fixture describes one registration found in a file.
type Fixture struct {
	Name      string
	File      string
	Line      int
	Params    []string
	Checked   bool
	Validator string
}

// Result holds every registration found in one file.
type Result struct {
	File     string
	Fixtures []Fixture
}

// Opportunities returns the unchecked registrations.
func (r *Result) Opportunities() []Fixture {
	return r.filter(false)
}

// Existing returns the checked registrations.
func (r *Result) Existing() []Fixture {
	return r.filter(true)
}

func (r *Result) filter(checked bool) []Fixture {
	var out []Fixture

	for _, f := range r.Fixtures {
		if f.Checked == checked {
			out = append(out, f)
		}
	}

	return out
}

// File parses and scans a single file from disk.
func File(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return Source(path, src)
}

// Source scans the given source text. The filename is used for positions
// and reporting only.
func Source(filename string, src []byte) (*Result, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	result := &Result{File: filename}

	ast.Inspect(file, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}

		fixture, ok := registration(fset, call)
		if !ok {
			return true
		}

		fixture.File = filename
		result.Fixtures = append(result.Fixtures, fixture)

		return true
	})

	return result, nil
}

// Files returns the test files under root whose base name matches the
// pattern, in walk order. A root that is itself a file is returned as-is.
func Files(root, pattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", root, err)
	}

	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		matched, merr := filepath.Match(pattern, d.Name())
		if merr != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, merr)
		}

		if matched {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return files, nil
}

// registration recognizes a Register call with a string-literal fixture name
// and at least a producer argument.
func registration(fset *token.FileSet, call *ast.CallExpr) (Fixture, bool) {
	if calleeName(call.Fun) != "Register" || len(call.Args) < 2 {
		return Fixture{}, false
	}

	lit, ok := call.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return Fixture{}, false
	}

	name, err := strconv.Unquote(lit.Value)
	if err != nil {
		return Fixture{}, false
	}

	fixture := Fixture{
		Name:   name,
		Line:   fset.Position(call.Pos()).Line,
		Params: dependencies(call.Args[1]),
	}

	for _, arg := range call.Args[2:] {
		opt, ok := arg.(*ast.CallExpr)
		if !ok || !checkingOptions[calleeName(opt.Fun)] {
			continue
		}

		fixture.Checked = true
		fixture.Validator = renderValidator(fset, opt)

		break
	}

	return fixture, true
}

// dependencies lists the fixtures a producer function literal requests
// through req.Get calls, in source order.
func dependencies(producer ast.Expr) []string {
	fn, ok := producer.(*ast.FuncLit)
	if !ok {
		return nil
	}

	var deps []string

	ast.Inspect(fn.Body, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok || calleeName(call.Fun) != "Get" || len(call.Args) != 2 {
			return true
		}

		lit, ok := call.Args[1].(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}

		if dep, err := strconv.Unquote(lit.Value); err == nil {
			deps = append(deps, dep)
		}

		return true
	})

	return deps
}

// renderValidator prints the checking option expression for report output.
// A bare Check() is described rather than printed.
func renderValidator(fset *token.FileSet, opt *ast.CallExpr) string {
	if calleeName(opt.Fun) == "Check" && len(opt.Args) == 0 {
		return "default validator"
	}

	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, opt); err != nil {
		return calleeName(opt.Fun)
	}

	return buf.String()
}

// calleeName returns the final identifier of a call target: Register for
// both reg.Register and Register.
func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	default:
		return ""
	}
}

// importName returns the local name under which a file imports the fixture
// package, or the default "fixture" when the import is absent or unnamed.
func importName(file *ast.File) string {
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != fixtureImportPath {
			continue
		}

		if imp.Name != nil && imp.Name.Name != "_" && imp.Name.Name != "." {
			return imp.Name.Name
		}

		return "fixture"
	}

	return "fixture"
}

// hasFixtureImport reports whether the file imports the fixture package.
func hasFixtureImport(file *ast.File) bool {
	for _, imp := range file.Imports {
		if path, err := strconv.Unquote(imp.Path.Value); err == nil && path == fixtureImportPath {
			return true
		}
	}

	return false
}
