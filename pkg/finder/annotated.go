package finder

import (
	"fmt"
	"slices"

	"github.com/specvital/testplan/pkg/annotation"
	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/suite"
)

// excludedFromTests lists annotations that keep a public method of a
// class-level @Test class from becoming a test.
var excludedFromTests = map[string]bool{
	"DataProvider": true,
	"Factory":      true,
}

func init() {
	for _, c := range domain.LifecycleCategories {
		excludedFromTests[c.Annotation()] = true
	}
}

// AnnotationMethodFinder finds methods by their TestNG annotations along the
// superclass chain held in a catalog. It is safe for concurrent use.
type AnnotationMethodFinder struct {
	catalog     *hierarchy.Catalog
	annotations annotation.Finder
}

var _ MethodFinder = (*AnnotationMethodFinder)(nil)

// NewAnnotationMethodFinder returns a finder over catalog. When annotations
// is nil a CatalogFinder over the same catalog is used.
func NewAnnotationMethodFinder(catalog *hierarchy.Catalog, annotations annotation.Finder) *AnnotationMethodFinder {
	if annotations == nil {
		annotations = annotation.NewCatalogFinder(catalog)
	}
	return &AnnotationMethodFinder{catalog: catalog, annotations: annotations}
}

// TestMethods returns enabled test methods visible on class, base classes
// first, filtered by the test's group include/exclude lists.
func (f *AnnotationMethodFinder) TestMethods(class domain.ClassName, test *suite.Test) ([]domain.Method, error) {
	methods, err := f.visibleMethods(class, true)
	if err != nil {
		return nil, err
	}

	var out []domain.Method
	for _, m := range methods {
		if m.Static || !f.isTest(m) {
			continue
		}
		md, ok := f.annotations.FindMethod(m, domain.CategoryTest)
		if !ok || !md.Enabled {
			continue
		}
		if test != nil && !test.IncludesGroups(md.Groups) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (f *AnnotationMethodFinder) BeforeSuiteMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryBeforeSuite)
}

func (f *AnnotationMethodFinder) AfterSuiteMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryAfterSuite)
}

func (f *AnnotationMethodFinder) BeforeTestConfigurationMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryBeforeTest)
}

func (f *AnnotationMethodFinder) AfterTestConfigurationMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryAfterTest)
}

func (f *AnnotationMethodFinder) BeforeClassMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryBeforeClass)
}

func (f *AnnotationMethodFinder) AfterClassMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryAfterClass)
}

func (f *AnnotationMethodFinder) BeforeGroupsConfigurationMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryBeforeGroups)
}

func (f *AnnotationMethodFinder) AfterGroupsConfigurationMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryAfterGroups)
}

func (f *AnnotationMethodFinder) BeforeTestMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryBeforeMethod)
}

func (f *AnnotationMethodFinder) AfterTestMethods(class domain.ClassName) ([]domain.Method, error) {
	return f.lifecycle(class, domain.CategoryAfterMethod)
}

// lifecycle returns enabled methods annotated for category. Befores run base
// class first, afters derived class first.
func (f *AnnotationMethodFinder) lifecycle(class domain.ClassName, category domain.Category) ([]domain.Method, error) {
	methods, err := f.visibleMethods(class, category.IsBefore())
	if err != nil {
		return nil, err
	}

	var out []domain.Method
	for _, m := range methods {
		md, ok := f.annotations.FindMethod(m, category)
		if !ok || !md.Enabled {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// isTest reports whether m is a test by its own @Test or, for public methods,
// by a class-level @Test on its declaring class.
func (f *AnnotationMethodFinder) isTest(m domain.Method) bool {
	for _, a := range m.Annotations {
		if excludedFromTests[a.Name] {
			return false
		}
	}
	if m.HasAnnotation(domain.CategoryTest.Annotation()) {
		return true
	}
	if !m.Public {
		return false
	}
	_, ok := f.annotations.FindClass(m.Class)
	return ok
}

// visibleMethods collects the methods of class and its known superclasses,
// hiding overridden ancestor methods. The result is ordered base-first when
// baseFirst is set and derived-first otherwise; declaration order is kept
// within a class.
func (f *AnnotationMethodFinder) visibleMethods(class domain.ClassName, baseFirst bool) ([]domain.Method, error) {
	chain, err := f.catalog.Ancestors(class)
	if err != nil {
		return nil, fmt.Errorf("find methods of %s: %w", class, err)
	}
	if chain[0].Kind == domain.KindInterface {
		return nil, fmt.Errorf("find methods of %s: %w", class, ErrNotAClass)
	}

	var visible [][]domain.Method
	var seen []domain.Method
	for _, c := range chain {
		var own []domain.Method
		for _, m := range c.Methods {
			if slices.ContainsFunc(seen, m.SameSignature) {
				continue
			}
			own = append(own, m)
		}
		seen = append(seen, c.Methods...)
		visible = append(visible, own)
	}

	if baseFirst {
		slices.Reverse(visible)
	}
	return slices.Concat(visible...), nil
}
