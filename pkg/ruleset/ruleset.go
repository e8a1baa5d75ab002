package ruleset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formcheck/pkg/validator"
)

// Format is a rule file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Extensions lists the file extensions LoadDir picks up.
var Extensions = []string{".yaml", ".yml", ".json", ".toml"}

// File is the on-disk layout of a rule file:
//
//	rulesets:
//	  signup:
//	    - name: email
//	      checkType: email
//	      errorMsg: invalid email
type File struct {
	Rulesets map[string][]validator.RuleSpec `json:"rulesets" yaml:"rulesets" toml:"rulesets"`
}

// Ruleset is a named, compiled rule list.
type Ruleset struct {
	Name   string
	Source string
	Specs  []validator.RuleSpec
	Rules  []validator.Rule
}

// New compiles specs into a rule set.
func New(name string, specs ...validator.RuleSpec) (*Ruleset, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	rules, err := validator.Compile(specs...)
	if err != nil {
		return nil, errors.Join(ErrCompile, fmt.Errorf("rule set %q: %w", name, err))
	}
	return &Ruleset{Name: name, Specs: specs, Rules: rules}, nil
}

// Check evaluates the rule set against data.
func (rs *Ruleset) Check(data map[string]any) validator.Result {
	return validator.Check(data, rs.Rules)
}

// Fields returns the distinct field names referenced by the rule set, in
// rule order.
func (rs *Ruleset) Fields() []string {
	var fields []string
	for _, r := range rs.Rules {
		if r.Name != "" && !slices.Contains(fields, r.Name) {
			fields = append(fields, r.Name)
		}
	}
	return fields
}

// Parse decodes and compiles every rule set in data.
func Parse(data []byte, format Format) (map[string]*Ruleset, error) {
	var file File
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &file)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&file)
	case FormatTOML:
		err = toml.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}

	sets := make(map[string]*Ruleset, len(file.Rulesets))
	for name, specs := range file.Rulesets {
		for i := range specs {
			specs[i].CheckRule = normalize(specs[i].CheckRule)
		}
		rs, err := New(name, specs...)
		if err != nil {
			return nil, err
		}
		sets[name] = rs
	}
	return sets, nil
}

// LoadFile reads and compiles a single rule file.
func LoadFile(path string) (map[string]*Ruleset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	sets, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, rs := range sets {
		rs.Source = path
	}
	return sets, nil
}

// LoadDir loads every rule file directly inside dir. Hidden files are
// skipped. A rule set defined in more than one file is an error.
func LoadDir(dir string) (map[string]*Ruleset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read rule directory: %w", err)
	}

	sets := make(map[string]*Ruleset)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !slices.Contains(Extensions, strings.ToLower(filepath.Ext(name))) {
			continue
		}

		loaded, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		for setName, rs := range loaded {
			if prev, ok := sets[setName]; ok {
				return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicate, setName, prev.Source, rs.Source)
			}
			sets[setName] = rs
		}
	}
	return sets, nil
}

// Load loads a single file or, when path is a directory, every rule file in it.
func Load(path string) (map[string]*Ruleset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat rules: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// normalize turns JSON numbers inside a check rule into float64.
func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	}
	return v
}
