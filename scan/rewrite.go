package scan

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
)

// AddChecks appends a default-check option to every unchecked registration
// in src, returning the rewritten source and whether anything changed. The
// option is qualified with the file's local name for the fixture package.
// Edits are textual insertions after the call's last argument, so the rest
// of the file keeps its original formatting. Multiline registrations with a
// trailing comma get the option before that comma, so the output parses.
func AddChecks(filename string, src []byte) ([]byte, bool, error) {
	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", filename, err)
	}

	qualifier := importName(file)
	inSamePackage := isFixturePackage(file)

	var offsets []int

	ast.Inspect(file, func(node ast.Node) bool {
		call, ok := node.(*ast.CallExpr)
		if !ok {
			return true
		}

		if fixture, ok := registration(fset, call); ok && !fixture.Checked {
			offsets = append(offsets, insertionOffset(src, fset.Position(call.Rparen).Offset))
		}

		return true
	})

	if len(offsets) == 0 {
		return src, false, nil
	}

	option := qualifier + ".Check()"
	if inSamePackage {
		option = "Check()"
	}

	// Insert back to front so earlier offsets stay valid.
	sort.Sort(sort.Reverse(sort.IntSlice(offsets)))

	out := make([]byte, len(src))
	copy(out, src)

	for _, off := range offsets {
		insertion := []byte(", " + option)
		out = append(out[:off], append(insertion, out[off:]...)...)
	}

	return out, true, nil
}

// insertionOffset walks back from the closing parenthesis past whitespace.
// When the last argument carries a trailing comma, the option goes in front
// of it; otherwise it goes directly before the parenthesis.
func insertionOffset(src []byte, rparen int) int {
	i := rparen - 1
	for i >= 0 && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r') {
		i--
	}

	if i >= 0 && src[i] == ',' {
		return i
	}

	return rparen
}

// isFixturePackage reports whether the scanned file belongs to the fixture
// package itself, where the option needs no qualifier.
func isFixturePackage(file *ast.File) bool {
	if file.Name == nil || file.Name.Name != "fixture" {
		return false
	}

	return !hasFixtureImport(file)
}
