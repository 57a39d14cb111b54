package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
)

// Layers from the bottom up. A package may only import its own layer or
// layers below it.
var layers = []struct {
	prefix string
	rank   int
}{
	{"internal/platform/", 0},
	{"internal/observability/", 0},
	{"internal/domain/", 1},
	{"internal/data/", 2},
	{"internal/modules/", 3},
	{"internal/services/", 4},
	{"internal/maintenance/", 4},
	{"internal/http/", 5},
	{"internal/app/", 6},
}

// Vendor LLM clients are chosen at wiring time; everything else talks to llm.Client.
var llmVendors = []string{
	"internal/platform/openai",
	"internal/platform/anthropic",
	"internal/platform/gemini",
}

type importEdge struct {
	file string // module-relative, slash separated
	imp  string // module-relative when internal, else full path
}

func rankOf(rel string) (int, bool) {
	for _, l := range layers {
		if strings.HasPrefix(rel, l.prefix) {
			return l.rank, true
		}
	}
	return 0, false
}

func TestLayering(t *testing.T) {
	var bad []string
	for _, e := range moduleImports(t) {
		from, ok := rankOf(e.file)
		if !ok {
			continue
		}
		to, ok := rankOf(e.imp + "/")
		if !ok || to <= from {
			continue
		}
		bad = append(bad, fmt.Sprintf("%s imports %s", e.file, e.imp))
	}
	// Handlers reach storage and modules only through services.
	for _, e := range moduleImports(t) {
		if strings.HasPrefix(e.file, "internal/http/") &&
			(strings.HasPrefix(e.imp, "internal/data/") || strings.HasPrefix(e.imp, "internal/modules/")) {
			bad = append(bad, fmt.Sprintf("%s imports %s (handlers go through services)", e.file, e.imp))
		}
	}
	report(t, "layering violations", bad)
}

func TestLLMVendorsOnlyWiredInApp(t *testing.T) {
	var bad []string
	for _, e := range moduleImports(t) {
		if strings.HasPrefix(e.file, "internal/app/") {
			continue
		}
		for _, v := range llmVendors {
			if e.imp == v && !strings.HasPrefix(e.file, v+"/") {
				bad = append(bad, fmt.Sprintf("%s imports %s", e.file, e.imp))
			}
		}
	}
	report(t, "vendor LLM clients imported outside internal/app", bad)
}

func report(t *testing.T, title string, lines []string) {
	t.Helper()
	if len(lines) == 0 {
		return
	}
	sort.Strings(lines)
	t.Fatalf("%s:\n- %s", title, strings.Join(lines, "\n- "))
}

// moduleImports parses the import block of every non-test Go file under
// internal/ and returns the edges into this module.
func moduleImports(t *testing.T) []importEdge {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(wd)
	if err != nil {
		t.Fatal(err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	fset := token.NewFileSet()
	var edges []importEdge
	err = filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil || !strings.HasPrefix(imp, modulePath+"/") {
				continue
			}
			edges = append(edges, importEdge{
				file: filepath.ToSlash(rel),
				imp:  strings.TrimPrefix(imp, modulePath+"/"),
			})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk internal/: %v", err)
	}
	return edges
}

func findModuleRoot(dir string) (string, error) {
	for start := dir; ; {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", start)
		}
		dir = parent
	}
}

func readModulePath(goMod string) (string, error) {
	f, err := os.Open(goMod)
	if err != nil {
		return "", err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if mp, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "module "); ok {
			return strings.TrimSpace(mp), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no module directive in %s", goMod)
}
