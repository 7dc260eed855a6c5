// Package method builds the instance-bound records of test and lifecycle
// methods.
package method

import (
	"fmt"

	"github.com/specvital/testplan/pkg/annotation"
	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/suite"
)

// Record binds one discovered method to one instance. Many records may share
// a method; records are never mutated after creation.
type Record struct {
	Category domain.Category
	Instance any
	// Metadata is nil when the annotation finder knows nothing about the
	// method.
	Metadata *annotation.Metadata
	Method   domain.Method
	Test     *suite.Test
}

// DeclaringClass returns the class the method is declared on.
func (r Record) DeclaringClass() domain.ClassName {
	return r.Method.Class
}

// IsBefore reports whether the record is a before-* lifecycle method.
func (r Record) IsBefore() bool {
	return r.Category.IsBefore()
}

// Groups returns the groups of the record's metadata.
func (r Record) Groups() []string {
	if r.Metadata == nil {
		return nil
	}
	return r.Metadata.Groups
}

func (r Record) String() string {
	return r.Method.String() + " on " + InstanceLabel(r.Instance)
}

// InstanceLabel renders an instance for diagnostics: its String method when
// it has one, its type otherwise.
func InstanceLabel(instance any) string {
	if s, ok := instance.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", instance)
}

// NewTestMethod returns the test record of m bound to instance.
func NewTestMethod(m domain.Method, af annotation.Finder, test *suite.Test, instance any) Record {
	return newRecord(m, domain.CategoryTest, af, test, instance)
}

// SuiteConfigurations returns before/after-suite records of raw bound to
// instance.
func SuiteConfigurations(raw []domain.Method, af annotation.Finder, test *suite.Test, before bool, instance any) []Record {
	return configurations(raw, domain.ScopeSuite, af, test, before, instance)
}

// TestConfigurations returns before/after-test records of raw bound to
// instance.
func TestConfigurations(raw []domain.Method, af annotation.Finder, test *suite.Test, before bool, instance any) []Record {
	return configurations(raw, domain.ScopeTest, af, test, before, instance)
}

// ClassConfigurations returns before/after-class records of raw bound to
// instance.
func ClassConfigurations(raw []domain.Method, af annotation.Finder, test *suite.Test, before bool, instance any) []Record {
	return configurations(raw, domain.ScopeClass, af, test, before, instance)
}

// BeforeGroupsConfigurations returns before-groups records of raw bound to
// instance.
func BeforeGroupsConfigurations(raw []domain.Method, af annotation.Finder, test *suite.Test, instance any) []Record {
	return configurations(raw, domain.ScopeGroups, af, test, true, instance)
}

// AfterGroupsConfigurations returns after-groups records of raw bound to
// instance.
func AfterGroupsConfigurations(raw []domain.Method, af annotation.Finder, test *suite.Test, instance any) []Record {
	return configurations(raw, domain.ScopeGroups, af, test, false, instance)
}

// MethodConfigurations returns before/after-method records of raw bound to
// instance.
func MethodConfigurations(raw []domain.Method, af annotation.Finder, test *suite.Test, before bool, instance any) []Record {
	return configurations(raw, domain.ScopeMethod, af, test, before, instance)
}

func configurations(raw []domain.Method, scope domain.Scope, af annotation.Finder, test *suite.Test, before bool, instance any) []Record {
	category, _ := domain.LifecycleCategory(scope, before)
	records := make([]Record, 0, len(raw))
	for _, m := range raw {
		records = append(records, newRecord(m, category, af, test, instance))
	}
	return records
}

func newRecord(m domain.Method, category domain.Category, af annotation.Finder, test *suite.Test, instance any) Record {
	r := Record{
		Category: category,
		Instance: instance,
		Method:   m,
		Test:     test,
	}
	if af != nil {
		if md, ok := af.FindMethod(m, category); ok {
			r.Metadata = md
		}
	}
	return r
}
