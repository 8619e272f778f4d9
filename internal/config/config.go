// Package config carries compiler-wide toggles: a few package vars the
// driver and CLI flip directly, plus a YAML-loaded project config
// (cobra.yaml). It is grounded on the teacher's internal/config/constants.go
// for the package-var style and internal/ext/config.go for the YAML loading
// convention.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const SourceFileExt = ".cobra"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".cobra", ".nomad"}

// IsTestMode is set once at startup by the CLI's test subcommand.
var IsTestMode = false

// Project is the top-level cobra.yaml configuration.
type Project struct {
	// StrictCasts is always true: casts are never implicit. Kept as a field
	// (rather than a bare constant) so cobra.yaml round-trips cleanly even
	// though a false value is overridden back to true at Load time.
	StrictCasts bool `yaml:"strictCasts"`

	// LintEmptyArrayLiteral surfaces the unannotated `[]` defaulting to
	// Array(Int, 0) instead of erroring.
	LintEmptyArrayLiteral bool `yaml:"lintEmptyArrayLiteral"`

	// LintOptionalOrOperator surfaces the asymmetry of `||`: Optional(T) ||
	// T coalesces, but T || Optional(T) falls through to the bool rule.
	LintOptionalOrOperator bool `yaml:"lintOptionalOrOperator"`
}

// Default returns the project config used when no cobra.yaml is present.
func Default() Project {
	return Project{
		StrictCasts:            true,
		LintEmptyArrayLiteral:  true,
		LintOptionalOrOperator: true,
	}
}

// Load reads and parses a cobra.yaml file. A missing file is not an error:
// it yields Default().
func Load(path string) (Project, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, err
	}
	if !p.StrictCasts {
		p.StrictCasts = true
	}
	return p, nil
}
