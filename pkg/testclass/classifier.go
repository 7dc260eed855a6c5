package testclass

import (
	"fmt"
	"slices"

	"github.com/specvital/testplan/pkg/annotation"
	"github.com/specvital/testplan/pkg/diag"
	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/finder"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/method"
	"github.com/specvital/testplan/pkg/suite"
)

// classifier turns raw discovered methods into instance-bound records,
// keeping only methods visible on the real class.
type classifier struct {
	annotations annotation.Finder
	class       *suite.Class
	methods     finder.MethodFinder
	realClass   domain.ClassName
	sink        diag.Sink
	test        *suite.Test
	types       hierarchy.Resolver
}

// testMethods returns one record per (method, instance), method-major in
// finder order.
func (c *classifier) testMethods(instances []any) ([]method.Record, error) {
	raw, err := c.methods.TestMethods(c.realClass, c.test)
	if err != nil {
		return nil, fmt.Errorf("%w: test methods of %s: %w", ErrDiscovery, c.realClass, err)
	}

	var records []method.Record
	for _, m := range raw {
		if !c.selected(m) || !c.owned(m) {
			continue
		}
		for _, inst := range instances {
			c.sink.Record(4, fmt.Sprintf("Adding method %s on TestClass %s", m, c.realClass))
			records = append(records, method.NewTestMethod(m, c.annotations, c.test, inst))
		}
	}
	return records, nil
}

// lifecycleMethods classifies every lifecycle category. Suite and test scope
// methods are bound once, to the first instance; the other scopes are bound
// to every instance.
func (c *classifier) lifecycleMethods(instances []any) (map[domain.Category][]method.Record, error) {
	out := make(map[domain.Category][]method.Record, len(domain.LifecycleCategories))
	for _, category := range domain.LifecycleCategories {
		accessor, err := finder.Lifecycle(c.methods, category)
		if err != nil {
			return nil, err
		}
		raw, err := accessor(c.realClass)
		if err != nil {
			return nil, fmt.Errorf("%w: %s methods of %s: %w", ErrDiscovery, category, c.realClass, err)
		}
		raw = slices.DeleteFunc(slices.Clone(raw), func(m domain.Method) bool {
			return !c.owned(m)
		})

		bound := instances
		if scope := category.Scope(); scope == domain.ScopeSuite || scope == domain.ScopeTest {
			bound = instances[:min(len(instances), 1)]
		}

		var records []method.Record
		for _, inst := range bound {
			records = append(records, c.configurations(category, raw, inst)...)
		}
		out[category] = records
	}
	return out, nil
}

func (c *classifier) configurations(category domain.Category, raw []domain.Method, inst any) []method.Record {
	before := category.IsBefore()
	switch category.Scope() {
	case domain.ScopeSuite:
		return method.SuiteConfigurations(raw, c.annotations, c.test, before, inst)
	case domain.ScopeTest:
		return method.TestConfigurations(raw, c.annotations, c.test, before, inst)
	case domain.ScopeClass:
		return method.ClassConfigurations(raw, c.annotations, c.test, before, inst)
	case domain.ScopeGroups:
		if before {
			return method.BeforeGroupsConfigurations(raw, c.annotations, c.test, inst)
		}
		return method.AfterGroupsConfigurations(raw, c.annotations, c.test, inst)
	default:
		return method.MethodConfigurations(raw, c.annotations, c.test, before, inst)
	}
}

// owned reports whether m is declared on the real class or one of its
// ancestors.
func (c *classifier) owned(m domain.Method) bool {
	if c.types.IsAssignableFrom(m.Class, c.realClass) {
		return true
	}
	c.sink.Record(4, fmt.Sprintf("Rejecting method %s for TestClass %s", m, c.realClass))
	return false
}

// selected applies the include and exclude method lists of the class entry.
func (c *classifier) selected(m domain.Method) bool {
	if c.class == nil {
		return true
	}
	if (len(c.class.Include) > 0 && !slices.Contains(c.class.Include, m.Name)) || slices.Contains(c.class.Exclude, m.Name) {
		c.sink.Record(4, fmt.Sprintf("Excluding method %s from TestClass %s", m, c.realClass))
		return false
	}
	return true
}
