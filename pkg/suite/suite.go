// Package suite holds the declarative suite configuration: which classes run
// under which suite-level test, with which groups and instances.
package suite

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/specvital/testplan/pkg/domain"
)

// ErrInvalidSuite is returned when a suite configuration fails validation.
var ErrInvalidSuite = errors.New("suite: invalid configuration")

// Suite is the top-level configuration document.
type Suite struct {
	Name       string            `yaml:"name"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
	Tests      []*Test           `yaml:"tests"`
}

// Test is one suite-level test: a named set of classes sharing group filters
// and parameters.
type Test struct {
	Classes []*Class `yaml:"classes,omitempty"`
	Groups  Groups   `yaml:"groups,omitempty"`
	Name    string   `yaml:"name"`
	// Packages are class-name patterns such as "com.acme.**" or
	// "com.acme.*Test".
	Packages   []string          `yaml:"packages,omitempty"`
	Parameters map[string]string `yaml:"parameters,omitempty"`

	suite *Suite
}

// Groups holds include and exclude group filters.
type Groups struct {
	Exclude []string `yaml:"exclude,omitempty"`
	Include []string `yaml:"include,omitempty"`
}

// Class is one class entry of a test.
type Class struct {
	Exclude []string `yaml:"exclude,omitempty"`
	Include []string `yaml:"include,omitempty"`
	// Index is the position of the class within its test.
	Index     int        `yaml:"-"`
	Instances []Instance `yaml:"instances,omitempty"`
	Name      string     `yaml:"name"`
}

// Instance describes one instance of a class. Name, when set, is the name
// the instance reports for itself.
type Instance struct {
	Name string `yaml:"name,omitempty"`
}

// ClassName returns the entry's class name.
func (c *Class) ClassName() domain.ClassName {
	return domain.ClassName(c.Name)
}

// Suite returns the suite the test belongs to, nil for a standalone test.
func (t *Test) Suite() *Suite {
	return t.suite
}

// SuiteName returns the name of the owning suite, empty for a standalone test.
func (t *Test) SuiteName() string {
	if t.suite == nil {
		return ""
	}
	return t.suite.Name
}

// Parameter returns a test parameter, falling back to suite parameters.
func (t *Test) Parameter(name string) (string, bool) {
	if v, ok := t.Parameters[name]; ok {
		return v, true
	}
	if t.suite != nil {
		v, ok := t.suite.Parameters[name]
		return v, ok
	}
	return "", false
}

// Class returns the class entry with the given name.
func (t *Test) Class(name domain.ClassName) (*Class, bool) {
	for _, c := range t.Classes {
		if c.ClassName() == name {
			return c, true
		}
	}
	return nil, false
}

// IncludesGroups applies the include/exclude filters to a method's groups.
// Without include groups every non-excluded method is accepted.
func (t *Test) IncludesGroups(groups []string) bool {
	for _, g := range groups {
		if slices.Contains(t.Groups.Exclude, g) {
			return false
		}
	}
	if len(t.Groups.Include) == 0 {
		return true
	}
	for _, g := range groups {
		if slices.Contains(t.Groups.Include, g) {
			return true
		}
	}
	return false
}

// Test returns the test with the given name.
func (s *Suite) Test(name string) (*Test, bool) {
	for _, t := range s.Tests {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Load reads and validates a YAML suite document.
func Load(r io.Reader) (*Suite, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var s Suite
	if err := decoder.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidSuite)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSuite, err)
	}

	s.link()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a suite from a YAML file.
func LoadFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open suite %s: %w", path, err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load suite %s: %w", path, err)
	}
	return s, nil
}

// link sets back references and class indexes.
func (s *Suite) link() {
	for _, t := range s.Tests {
		if t == nil {
			continue
		}
		t.suite = s
		for i, c := range t.Classes {
			if c != nil {
				c.Index = i
			}
		}
	}
}

// Validate checks names, duplicates and pattern syntax.
func (s *Suite) Validate() error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, errors.New("suite name is required"))
	}
	if len(s.Tests) == 0 {
		errs = append(errs, errors.New("at least one test is required"))
	}

	seenTests := make(map[string]bool, len(s.Tests))
	for i, t := range s.Tests {
		if t == nil {
			errs = append(errs, fmt.Errorf("tests[%d] is empty", i))
			continue
		}
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("tests[%d]: name is required", i))
		} else if seenTests[t.Name] {
			errs = append(errs, fmt.Errorf("duplicate test %q", t.Name))
		}
		seenTests[t.Name] = true

		if len(t.Classes) == 0 && len(t.Packages) == 0 {
			errs = append(errs, fmt.Errorf("test %q: no classes or packages", t.Name))
		}
		for _, pattern := range t.Packages {
			if !doublestar.ValidatePattern(domain.ClassName(pattern).Path()) {
				errs = append(errs, fmt.Errorf("test %q: bad package pattern %q", t.Name, pattern))
			}
		}

		seenClasses := make(map[string]bool, len(t.Classes))
		for j, c := range t.Classes {
			switch {
			case c == nil || c.Name == "":
				errs = append(errs, fmt.Errorf("test %q: classes[%d]: name is required", t.Name, j))
			case seenClasses[c.Name]:
				errs = append(errs, fmt.Errorf("test %q: duplicate class %q", t.Name, c.Name))
			default:
				seenClasses[c.Name] = true
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSuite, errors.Join(errs...))
	}
	return nil
}
