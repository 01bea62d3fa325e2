package constraints

import (
	"bytes"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

type goListPackage struct {
	ImportPath string
	Imports    []string
}

const modulePrefix = "github.com/jacoelho/jtree/internal/"

// corePackages operate on in-memory trees only.
var corePackages = map[string]struct{}{
	modulePrefix + "tree":      {},
	modulePrefix + "accessor":  {},
	modulePrefix + "search":    {},
	modulePrefix + "stack":     {},
	modulePrefix + "number":    {},
	modulePrefix + "predicate": {},
	modulePrefix + "query":     {},
}

func TestCorePackagesDoNotImportCLIPackages(t *testing.T) {
	t.Parallel()

	cli := []string{
		modulePrefix + "config",
		modulePrefix + "command",
		modulePrefix + "formatter",
		modulePrefix + "document",
		modulePrefix + "exit",
		modulePrefix + "template",
	}

	var violations []string
	for _, pkg := range goList(t, "./internal/...") {
		if _, ok := corePackages[pkg.ImportPath]; !ok {
			continue
		}
		for _, imp := range pkg.Imports {
			for _, banned := range cli {
				if imp == banned || strings.HasPrefix(imp, banned+"/") {
					violations = append(violations, pkg.ImportPath+" imports "+imp)
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("found forbidden core->cli imports:\n%s", strings.Join(violations, "\n"))
	}
}

func TestCorePackagesAvoidSideEffectImports(t *testing.T) {
	t.Parallel()

	forbidden := map[string]struct{}{
		"os":           {},
		"net/http":     {},
		"math/rand":    {},
		"math/rand/v2": {},
		"log":          {},
		"log/slog":     {},
	}

	var violations []string
	for _, pkg := range goList(t, "./internal/...") {
		if _, ok := corePackages[pkg.ImportPath]; !ok {
			continue
		}
		for _, imp := range pkg.Imports {
			if _, banned := forbidden[imp]; banned {
				violations = append(violations, pkg.ImportPath+" imports forbidden package "+imp)
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("found forbidden imports in core packages:\n%s", strings.Join(violations, "\n"))
	}
}

func TestTreeIsLeafPackage(t *testing.T) {
	t.Parallel()

	allowed := map[string]struct{}{
		modulePrefix + "number": {},
	}

	var violations []string
	for _, pkg := range goList(t, "./internal/tree") {
		for _, imp := range pkg.Imports {
			if !strings.HasPrefix(imp, modulePrefix) {
				continue
			}
			if _, ok := allowed[imp]; !ok {
				violations = append(violations, pkg.ImportPath+" imports "+imp)
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("tree must only depend on number:\n%s", strings.Join(violations, "\n"))
	}
}

func goList(t *testing.T, patterns ...string) []goListPackage {
	t.Helper()

	args := append([]string{"list", "-json"}, patterns...)
	cmd := exec.Command("go", args...)
	cmd.Dir = repoRoot(t)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("go list failed: %v\nstderr:\n%s", err, stderr.String())
	}

	decoder := json.NewDecoder(bytes.NewReader(stdout.Bytes()))
	var packages []goListPackage
	for decoder.More() {
		var pkg goListPackage
		if err := decoder.Decode(&pkg); err != nil {
			t.Fatalf("decode go list json: %v", err)
		}
		packages = append(packages, pkg)
	}

	return packages
}

func repoRoot(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}

	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}
