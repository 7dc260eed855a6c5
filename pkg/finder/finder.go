// Package finder enumerates the candidate test and lifecycle methods of a
// class.
package finder

import (
	"errors"
	"fmt"

	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/suite"
)

var (
	// ErrUnknownClass is returned for classes the finder has no source for.
	ErrUnknownClass = hierarchy.ErrUnknownClass
	// ErrNotAClass is returned when methods are requested for an interface.
	ErrNotAClass = errors.New("finder: not a class")
)

// MethodFinder enumerates candidate methods of a class. Lifecycle accessors
// return the raw methods of one category in execution order.
type MethodFinder interface {
	TestMethods(class domain.ClassName, test *suite.Test) ([]domain.Method, error)
	BeforeSuiteMethods(class domain.ClassName) ([]domain.Method, error)
	AfterSuiteMethods(class domain.ClassName) ([]domain.Method, error)
	BeforeTestConfigurationMethods(class domain.ClassName) ([]domain.Method, error)
	AfterTestConfigurationMethods(class domain.ClassName) ([]domain.Method, error)
	BeforeClassMethods(class domain.ClassName) ([]domain.Method, error)
	AfterClassMethods(class domain.ClassName) ([]domain.Method, error)
	BeforeGroupsConfigurationMethods(class domain.ClassName) ([]domain.Method, error)
	AfterGroupsConfigurationMethods(class domain.ClassName) ([]domain.Method, error)
	BeforeTestMethods(class domain.ClassName) ([]domain.Method, error)
	AfterTestMethods(class domain.ClassName) ([]domain.Method, error)
}

// Lifecycle returns the accessor of f matching a lifecycle category.
func Lifecycle(f MethodFinder, category domain.Category) (func(domain.ClassName) ([]domain.Method, error), error) {
	switch category {
	case domain.CategoryBeforeSuite:
		return f.BeforeSuiteMethods, nil
	case domain.CategoryAfterSuite:
		return f.AfterSuiteMethods, nil
	case domain.CategoryBeforeTest:
		return f.BeforeTestConfigurationMethods, nil
	case domain.CategoryAfterTest:
		return f.AfterTestConfigurationMethods, nil
	case domain.CategoryBeforeClass:
		return f.BeforeClassMethods, nil
	case domain.CategoryAfterClass:
		return f.AfterClassMethods, nil
	case domain.CategoryBeforeGroups:
		return f.BeforeGroupsConfigurationMethods, nil
	case domain.CategoryAfterGroups:
		return f.AfterGroupsConfigurationMethods, nil
	case domain.CategoryBeforeMethod:
		return f.BeforeTestMethods, nil
	case domain.CategoryAfterMethod:
		return f.AfterTestMethods, nil
	default:
		return nil, fmt.Errorf("finder: %q is not a lifecycle category", category)
	}
}
