package annotation

import (
	"github.com/specvital/testplan/pkg/domain"
)

// ClassLookup resolves parsed classes by name.
type ClassLookup interface {
	Lookup(name domain.ClassName) (*domain.Class, bool)
}

// CatalogFinder reads metadata from parsed source annotations.
type CatalogFinder struct {
	classes ClassLookup
}

var _ Finder = (*CatalogFinder)(nil)

// NewCatalogFinder returns a Finder over the given classes.
func NewCatalogFinder(classes ClassLookup) *CatalogFinder {
	return &CatalogFinder{classes: classes}
}

// FindClass returns the class-level @Test metadata of name.
func (f *CatalogFinder) FindClass(name domain.ClassName) (*Metadata, bool) {
	class, ok := f.classes.Lookup(name)
	if !ok {
		return nil, false
	}
	a, ok := class.Annotation(domain.CategoryTest.Annotation())
	if !ok {
		return nil, false
	}
	md := defaultMetadata()
	md.apply(a)
	return md, true
}

// FindMethod returns the metadata of m for category. Test metadata starts
// from the declaring class's @Test, which the method's own @Test overrides;
// class-level groups are kept in addition to the method's.
func (f *CatalogFinder) FindMethod(m domain.Method, category domain.Category) (*Metadata, bool) {
	name := category.Annotation()
	if name == "" {
		return nil, false
	}

	own, hasOwn := m.Annotation(name)
	if category != domain.CategoryTest {
		if !hasOwn {
			return nil, false
		}
		md := defaultMetadata()
		md.apply(own)
		return md, true
	}

	md, hasClass := f.FindClass(m.Class)
	if !hasOwn && !hasClass {
		return nil, false
	}
	if md == nil {
		md = defaultMetadata()
	}
	if hasOwn {
		md.apply(own)
	}
	return md, true
}
