// Golden end-to-end coverage of the six scenarios names,
// stored as txtar fixtures (golang.org/x/tools/txtar) under testdata/golden
// and diffed with github.com/pmezard/go-difflib on mismatch, the same
// fixture/diff combination own tests/fuzz corpus convention
// and termfx-morfx's test suite each use respectively.
package sema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/tools/txtar"

	"github.com/p4fc/p4fc/internal/diag"
)

func TestGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/golden/*.txtar")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no golden fixtures found")
	}

	for _, path := range files {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			arc := txtar.Parse(data)

			var input, expected string
			for _, f := range arc.Files {
				switch f.Name {
				case "input.p4":
					input = string(f.Data)
				case "expected.txt":
					expected = string(f.Data)
				}
			}

			ctx := runAll(t, input)
			got := renderDiagnostics(ctx.Errors)

			if strings.TrimRight(got, "\n") != strings.TrimRight(expected, "\n") {
				diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
					A:        difflib.SplitLines(expected),
					B:        difflib.SplitLines(got),
					FromFile: "expected",
					ToFile:   "got",
					Context:  2,
				})
				t.Fatalf("mismatch:\n%s", diff)
			}
		})
	}
}

// renderDiagnostics formats diagnostics as "code: message" (position-
// independent, since the fixtures care about which diagnostic fired, not
// its column), or "clean" when there are none.
func renderDiagnostics(errs []*diag.Diagnostic) string {
	if len(errs) == 0 {
		return "clean\n"
	}
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(string(e.Code))
		b.WriteString(": ")
		b.WriteString(e.Message)
		b.WriteString("\n")
	}
	return b.String()
}
