// Command p4fc is the core CLI entry point: one
// positional source-file argument, leading `--flag`/`-flag` tokens are
// tolerated and ignored (grounded on cmd/funxy/main.go's own
// flag-before-file-arg scanning loop), exit code 0 on a clean analysis and 1
// on the first fatal diagnostic.
//
// If the positional argument is a directory, every *.p4 file under it is
// analyzed in turn (github.com/bmatcuk/doublestar/v4 globbing), an ambient
// convenience beyond the single-file contract.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mattn/go-isatty"

	"github.com/p4fc/p4fc/internal/cache"
	"github.com/p4fc/p4fc/internal/config"
	"github.com/p4fc/p4fc/internal/diag"
	"github.com/p4fc/p4fc/internal/lexer"
	"github.com/p4fc/p4fc/internal/parser"
	"github.com/p4fc/p4fc/internal/pipeline"
	"github.com/p4fc/p4fc/internal/sema"
)

var (
	diagCache *cache.Cache
	arenaHint int
)

func main() {
	path := scanFileArg(os.Args[1:])
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: p4fc <file.p4|directory> [flags]")
		os.Exit(1)
	}

	info, err := os.Stat(path)
	if err != nil {
		printDiag(diag.NewUnlocated(diag.ErrIO, "cannot open %s: %v", path, err))
		os.Exit(1)
	}

	projDir := path
	if !info.IsDir() {
		projDir = filepath.Dir(path)
	}
	proj, err := config.LoadProject(projDir)
	if err != nil {
		printDiag(diag.NewUnlocated(diag.ErrIO, "loading project file under %s: %v", projDir, err))
		os.Exit(1)
	}

	strict := proj.Strict
	if v, ok := config.StrictFromEnv(); ok {
		strict = v
	}
	arenaHint = config.ArenaSizeFromEnv()

	// Strict runs never trust a cached verdict: every file is re-analyzed.
	if !strict {
		if c, err := cache.Open(cachePath()); err == nil {
			diagCache = c
			defer diagCache.Close()
		}
	}

	var files []string
	if info.IsDir() {
		files, err = doublestar.Glob(os.DirFS(path), "**/*.p4")
		if err != nil {
			printDiag(diag.NewUnlocated(diag.ErrIO, "glob failed under %s: %v", path, err))
			os.Exit(1)
		}
		for i, f := range files {
			files[i] = filepath.Join(path, f)
		}
		for _, dir := range proj.IncludeDirs {
			extra, err := doublestar.Glob(os.DirFS(dir), "**/*.p4")
			if err != nil {
				continue
			}
			for _, f := range extra {
				files = append(files, filepath.Join(dir, f))
			}
		}
	} else {
		files = []string{path}
	}
	if len(files) == 0 {
		printDiag(diag.NewUnlocated(diag.ErrUsage, "no .p4 files found under %s", path))
		os.Exit(1)
	}

	failed := false
	for _, f := range files {
		if !analyzeFile(f) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// scanFileArg returns the first argument not prefixed with "-", mirroring
// cmd/funxy/main.go's own leading-flag tolerance.
func scanFileArg(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return ""
}

// cachePath returns the per-user diagnostics cache location, falling back to
// an in-memory database if the home directory can't be resolved.
func cachePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ":memory:"
	}
	return filepath.Join(home, ".p4fc_cache.sqlite")
}

// readSource reads path into a buffer pre-grown to hint bytes, avoiding a
// reallocation for the common case where hint (P4FC_ARENA_SIZE, or its
// ~500KiB default) already covers the file.
func readSource(path string, hint int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	buf.Grow(hint)
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// analyzeFile runs the full lex -> parse -> C5..C9 pipeline over one file,
// printing the first fatal diagnostic (if any) and reporting success. A
// cache hit on the file's content hash skips re-running the pipeline.
func analyzeFile(path string) bool {
	src, err := readSource(path, arenaHint)
	if err != nil {
		printDiag(diag.NewUnlocated(diag.ErrIO, "cannot read %s: %v", path, err))
		return false
	}

	hash := cache.Hash(src)
	if diagCache != nil {
		if e, ok := diagCache.Lookup(hash); ok {
			if !e.Clean {
				fmt.Fprintln(os.Stderr, e.Messages[0])
			}
			return e.Clean
		}
	}

	clean, errs := runPipeline(path, src)
	if diagCache != nil {
		e := cache.Entry{Clean: clean}
		if !clean && len(errs) > 0 {
			e.Messages = []string{errs[0].Error()}
		}
		diagCache.Store(hash, e)
	}
	return clean
}

// runPipeline drives lex -> parse -> C5..C9 over src, printing the first
// fatal diagnostic (if any) and returning it alongside the clean/dirty
// verdict so the caller can populate the cache.
func runPipeline(path string, src []byte) (bool, []*diag.Diagnostic) {
	l := lexer.New(string(src))
	p := parser.New(l, path)
	prog := p.ParseProgram()

	ctx := pipeline.NewContext(path, string(src))
	ctx.AstRoot = prog
	ctx.Errors = append(ctx.Errors, p.Errors...)

	if len(ctx.Errors) == 0 {
		pl := pipeline.New(
			&sema.ScopeHierarchyProcessor{},
			&sema.NameBindingProcessor{},
			&sema.DeclaredTypesProcessor{},
			&sema.PotentialTypesProcessor{},
			&sema.SelectTypeProcessor{},
			&sema.AnnotationsProcessor{},
		)
		ctx = pl.Run(ctx)
	}

	if len(ctx.Errors) > 0 {
		printDiag(ctx.Errors[0])
		return false, ctx.Errors
	}
	return true, nil
}

func printDiag(d *diag.Diagnostic) {
	color := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	msg := d.Error()
	if !color {
		fmt.Fprintln(os.Stderr, msg)
		return
	}
	fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", msg)
}
