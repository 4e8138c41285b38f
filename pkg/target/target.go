/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: target.go
Description: Target language definitions. A target names an alphabet and either a
regular expression or an external program that decides membership; it is loaded from
YAML, validated, and turned into the oracles of a learning session.
*/

package target

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kleascm/automator/pkg/lstar"
	"github.com/kleascm/automator/pkg/oracle"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// MaxEquivalenceDepth caps exhaustive checking; the word count grows as |Σ|^depth
const MaxEquivalenceDepth = 16

// ErrUnknownTarget is returned for a built-in name that does not exist
var ErrUnknownTarget = errors.New("unknown target")

// targetValidate checks struct tags of definitions
var targetValidate = validator.New()

// ExecSpec runs a program per membership query
type ExecSpec struct {
	Path    string        `yaml:"path" validate:"required"`
	Args    []string      `yaml:"args,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"gte=0"`
}

// Definition describes a target language
type Definition struct {
	Name             string    `yaml:"name" validate:"required"`
	Description      string    `yaml:"description,omitempty"`
	Alphabet         []string  `yaml:"alphabet" validate:"required,min=1,unique,dive,len=1"`
	Pattern          string    `yaml:"pattern,omitempty" validate:"required_without=Exec,excluded_with=Exec"`
	Exec             *ExecSpec `yaml:"exec,omitempty"`
	EquivalenceDepth int       `yaml:"equivalence_depth,omitempty" validate:"gte=0,lte=16"`

	// baseDir resolves relative exec paths against the file the definition came from
	baseDir string
}

// Load reads and validates a YAML definition file
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read target %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", path, err)
	}
	def.baseDir = filepath.Dir(path)
	return def, nil
}

// Parse decodes and validates a YAML definition
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse target: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the definition, including that the pattern compiles
func (d *Definition) Validate() error {
	if err := targetValidate.Struct(d); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid target: %s", describe(invalid))
		}
		return fmt.Errorf("invalid target: %w", err)
	}
	alphabet, err := d.Symbols()
	if err != nil {
		return fmt.Errorf("invalid target: %w", err)
	}
	if d.EquivalenceDepth > 0 {
		if err := lstar.CheckWordCount(alphabet, d.EquivalenceDepth); err != nil {
			return fmt.Errorf("invalid target: equivalence_depth: %w", err)
		}
	}
	if d.Pattern != "" {
		if _, err := oracle.NewRegex(d.Pattern); err != nil {
			return fmt.Errorf("invalid target: %w", err)
		}
	}
	return nil
}

// describe turns validator errors into one readable line
func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := strings.TrimPrefix(fe.Namespace(), "Definition.")
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "required_without":
			parts = append(parts, "one of pattern or exec is required")
		case "excluded_with":
			parts = append(parts, "pattern and exec are mutually exclusive")
		case "len":
			parts = append(parts, fmt.Sprintf("%s must be a single symbol, got %q", field, fe.Value()))
		case "unique":
			parts = append(parts, field+" contains duplicate symbols")
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(parts, "; ")
}

// Symbols returns the alphabet of the target
func (d *Definition) Symbols() (lstar.Alphabet, error) {
	symbols := make([]lstar.Symbol, len(d.Alphabet))
	for i, s := range d.Alphabet {
		symbols[i] = lstar.Symbol(s)
	}
	return lstar.NewAlphabet(symbols)
}

// Depth returns the equivalence depth, falling back to def when unset
func (d *Definition) Depth(def int) int {
	if d.EquivalenceDepth > 0 {
		return d.EquivalenceDepth
	}
	return def
}

// Kind reports whether membership is decided by a pattern or a program
func (d *Definition) Kind() string {
	if d.Exec != nil {
		return "exec"
	}
	return "pattern"
}

// Membership builds the membership oracle of the target
func (d *Definition) Membership(logger logrus.FieldLogger) (lstar.MembershipOracle, error) {
	if d.Exec != nil {
		path := d.Exec.Path
		if d.baseDir != "" && !filepath.IsAbs(path) && strings.ContainsRune(path, filepath.Separator) {
			path = filepath.Join(d.baseDir, path)
		}
		p := oracle.NewProcess(path, d.Exec.Args...)
		if d.Exec.Timeout > 0 {
			p.Timeout = d.Exec.Timeout
		}
		p.Logger = logger
		return p, nil
	}
	return oracle.NewRegex(d.Pattern)
}
