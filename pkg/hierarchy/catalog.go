// Package hierarchy keeps a registry of parsed classes and answers
// assignability questions by walking explicit ancestor chains.
package hierarchy

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/specvital/testplan/pkg/domain"
)

var (
	// ErrUnknownClass is returned when a class is not in the catalog.
	ErrUnknownClass = errors.New("hierarchy: unknown class")
	// ErrCycle is returned when a superclass chain loops back on itself.
	ErrCycle = errors.New("hierarchy: cyclic inheritance")
)

// Resolver answers class assignability questions.
type Resolver interface {
	// IsAssignableFrom reports whether class is ancestor itself or one of its
	// subtypes.
	IsAssignableFrom(ancestor, class domain.ClassName) bool
}

// Catalog is an immutable class registry. It is safe for concurrent readers.
type Catalog struct {
	classes map[domain.ClassName]*domain.Class
	// supers holds resolved superclass (index 0, may be empty) followed by
	// resolved interfaces. Unresolvable names are kept as written.
	supers map[domain.ClassName][]domain.ClassName
	names  []domain.ClassName
}

// NewCatalog indexes the given classes. A later class with a duplicate name
// replaces the earlier one.
func NewCatalog(classes ...*domain.Class) *Catalog {
	c := &Catalog{
		classes: make(map[domain.ClassName]*domain.Class, len(classes)),
		supers:  make(map[domain.ClassName][]domain.ClassName, len(classes)),
	}
	for _, class := range classes {
		if class == nil {
			continue
		}
		if _, exists := c.classes[class.Name]; !exists {
			c.names = append(c.names, class.Name)
		}
		c.classes[class.Name] = class
	}
	sort.Slice(c.names, func(i, j int) bool { return c.names[i] < c.names[j] })

	for _, name := range c.names {
		class := c.classes[name]
		supers := make([]domain.ClassName, 0, 1+len(class.Interfaces))
		supers = append(supers, c.resolve(class, class.Superclass))
		for _, iface := range class.Interfaces {
			supers = append(supers, c.resolve(class, iface))
		}
		c.supers[name] = supers
	}
	return c
}

// Lookup returns the class with the given name.
func (c *Catalog) Lookup(name domain.ClassName) (*domain.Class, bool) {
	class, ok := c.classes[name]
	return class, ok
}

// Names returns all class names in sorted order.
func (c *Catalog) Names() []domain.ClassName {
	return append([]domain.ClassName(nil), c.names...)
}

// Len returns the number of classes in the catalog.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Superclass returns the resolved superclass of name, empty when the class
// has no extends clause.
func (c *Catalog) Superclass(name domain.ClassName) domain.ClassName {
	supers := c.supers[name]
	if len(supers) == 0 {
		return ""
	}
	return supers[0]
}

// Interfaces returns the resolved direct interfaces of name.
func (c *Catalog) Interfaces(name domain.ClassName) []domain.ClassName {
	supers := c.supers[name]
	if len(supers) <= 1 {
		return nil
	}
	return append([]domain.ClassName(nil), supers[1:]...)
}

// Ancestors returns the known superclass chain of name starting with name
// itself. The walk stops at the first supertype outside the catalog.
func (c *Catalog) Ancestors(name domain.ClassName) ([]*domain.Class, error) {
	class, ok := c.classes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, name)
	}

	seen := map[domain.ClassName]bool{name: true}
	chain := []*domain.Class{class}
	for next := c.Superclass(name); next != ""; next = c.Superclass(next) {
		if seen[next] {
			return nil, fmt.Errorf("%w: %s", ErrCycle, name)
		}
		seen[next] = true

		ancestor, ok := c.classes[next]
		if !ok {
			break
		}
		chain = append(chain, ancestor)
	}
	return chain, nil
}

// IsAssignableFrom reports whether class equals ancestor or transitively
// extends or implements it. Supertypes outside the catalog are matched by
// name only.
func (c *Catalog) IsAssignableFrom(ancestor, class domain.ClassName) bool {
	if ancestor == "" || class == "" {
		return false
	}

	seen := make(map[domain.ClassName]bool)
	queue := []domain.ClassName{class}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == ancestor {
			return true
		}
		if current == "" || seen[current] {
			continue
		}
		seen[current] = true
		queue = append(queue, c.supers[current]...)
	}
	return false
}

// resolve maps a raw type reference written in class to a catalog name.
// Candidates are tried in order: qualified name, nested in an enclosing
// class, single-type import, same package, wildcard import.
func (c *Catalog) resolve(class *domain.Class, raw string) domain.ClassName {
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, ".") {
		if name := domain.ClassName(raw); c.known(name) {
			return name
		}
		// Outer.Inner written with a dot.
		head, rest, _ := strings.Cut(raw, ".")
		if outer := c.resolve(class, head); c.known(outer) {
			if name := outer + domain.ClassName("$"+strings.ReplaceAll(rest, ".", "$")); c.known(name) {
				return name
			}
		}
		return domain.ClassName(raw)
	}

	for enclosing := class.Name; enclosing != ""; {
		if name := enclosing + domain.ClassName("$"+raw); c.known(name) {
			return name
		}
		outer, ok := c.classes[enclosing]
		if !ok {
			break
		}
		enclosing = outer.Enclosing
	}

	for _, imp := range class.Imports {
		if strings.HasSuffix(imp, "."+raw) {
			return domain.ClassName(imp)
		}
	}

	if class.Package != "" {
		if name := domain.ClassName(class.Package + "." + raw); c.known(name) {
			return name
		}
	} else if c.known(domain.ClassName(raw)) {
		return domain.ClassName(raw)
	}

	for _, imp := range class.Imports {
		if pkg, ok := strings.CutSuffix(imp, ".*"); ok {
			if name := domain.ClassName(pkg + "." + raw); c.known(name) {
				return name
			}
		}
	}

	return domain.ClassName(raw)
}

func (c *Catalog) known(name domain.ClassName) bool {
	_, ok := c.classes[name]
	return ok
}
