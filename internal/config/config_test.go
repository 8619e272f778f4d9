package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultEnablesAllLintsAndStrictCasts(t *testing.T) {
	p := Default()
	if !p.StrictCasts {
		t.Error("StrictCasts must default to true")
	}
	if !p.LintEmptyArrayLiteral {
		t.Error("LintEmptyArrayLiteral must default to true")
	}
	if !p.LintOptionalOrOperator {
		t.Error("LintOptionalOrOperator must default to true")
	}
}

func TestLoadMissingFileYieldsDefault(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("a missing cobra.yaml must not be an error, got %v", err)
	}
	if p != Default() {
		t.Errorf("expected Default() for a missing file, got %+v", p)
	}
}

func TestLoadParsesYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cobra.yaml")
	yaml := "lintEmptyArrayLiteral: false\nlintOptionalOrOperator: false\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.LintEmptyArrayLiteral {
		t.Error("expected LintEmptyArrayLiteral to be overridden to false")
	}
	if p.LintOptionalOrOperator {
		t.Error("expected LintOptionalOrOperator to be overridden to false")
	}
}

func TestLoadAlwaysForcesStrictCastsTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cobra.yaml")
	if err := os.WriteFile(path, []byte("strictCasts: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.StrictCasts {
		t.Error("strictCasts: false in cobra.yaml must still be forced to true")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cobra.yaml")
	if err := os.WriteFile(path, []byte("not: [valid: yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}
