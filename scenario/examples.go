package scenario

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed examples/*.toml
var examples embed.FS

// Examples returns the bundled scenarios, keyed by file name.
func Examples() (map[string]*Scenario, error) {
	entries, err := fs.Glob(examples, "examples/*.toml")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Scenario, len(entries))
	for _, path := range entries {
		buf, err := examples.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sc, err := Parse(buf)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out[filepath.Base(path)] = sc
	}
	return out, nil
}

// ExampleNames lists the bundled scenario files in order.
func ExampleNames() []string {
	entries, _ := fs.Glob(examples, "examples/*.toml")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, filepath.Base(e))
	}
	sort.Strings(names)
	return names
}

// WriteExamples copies the bundled scenarios into dir. Existing files are
// left untouched.
func WriteExamples(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range ExampleNames() {
		dst := filepath.Join(dir, name)
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		buf, err := examples.ReadFile("examples/" + name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, buf, 0o644); err != nil {
			return err
		}
	}
	return nil
}
