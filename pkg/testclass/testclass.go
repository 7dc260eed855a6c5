// Package testclass resolves the execution plan of one test class within one
// suite test: its effective test name, its instance-bound test methods and
// its eight lifecycle method lists.
package testclass

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specvital/testplan/pkg/annotation"
	"github.com/specvital/testplan/pkg/diag"
	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/finder"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/instance"
	"github.com/specvital/testplan/pkg/method"
	"github.com/specvital/testplan/pkg/suite"
)

// ErrDiscovery is returned when the method finder cannot enumerate the
// methods of a class. Such a class cannot run.
var ErrDiscovery = errors.New("testclass: method discovery failed")

// Option configures a TestClass.
type Option func(*options)

type options struct {
	nameFunc NameFunc
}

// WithNameFunc sets how an instance reports its own test name. The default
// uses the Named interface.
func WithNameFunc(fn NameFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.nameFunc = fn
		}
	}
}

// TestClass is the resolved plan of a class for one suite test. Method lists
// are fixed at construction; only the instance registry may grow afterwards,
// through AddInstance, which is not safe for concurrent use.
type TestClass struct {
	annotations annotation.Finder
	class       *suite.Class
	iClass      instance.Class
	lifecycle   map[domain.Category][]method.Record
	methods     finder.MethodFinder
	realClass   domain.ClassName
	test        *suite.Test
	testMethods []method.Record
	testName    string
}

// New resolves the test name of cls and classifies its methods against the
// instances it currently holds. No instances are created. A discovery
// failure is returned wrapping ErrDiscovery and no TestClass is built.
//
// A nil runInfo discards diagnostics.
func New(
	cls instance.Class,
	types hierarchy.Resolver,
	mf finder.MethodFinder,
	af annotation.Finder,
	runInfo diag.Sink,
	test *suite.Test,
	class *suite.Class,
	opts ...Option,
) (*TestClass, error) {
	o := options{nameFunc: SelfReportedName}
	for _, opt := range opts {
		opt(&o)
	}
	if runInfo == nil {
		runInfo = diag.Discard
	}

	realClass := cls.RealClass()
	runInfo.Record(3, fmt.Sprintf("Creating TestClass for %v", cls))

	instances, err := cls.Instances(false)
	if err != nil {
		return nil, fmt.Errorf("%w: instances of %s: %w", ErrDiscovery, realClass, err)
	}

	c := &classifier{
		annotations: af,
		class:       class,
		methods:     mf,
		realClass:   realClass,
		sink:        runInfo,
		test:        test,
		types:       types,
	}
	testMethods, err := c.testMethods(instances)
	if err != nil {
		return nil, err
	}
	lifecycle, err := c.lifecycleMethods(instances)
	if err != nil {
		return nil, err
	}

	return &TestClass{
		annotations: af,
		class:       class,
		iClass:      cls,
		lifecycle:   lifecycle,
		methods:     mf,
		realClass:   realClass,
		test:        test,
		testMethods: testMethods,
		testName:    resolveTestName(cls, instances, o.nameFunc),
	}, nil
}

// TestName returns the name reported for the class, empty when it has none.
func (tc *TestClass) TestName() string { return tc.testName }

// XMLTest returns the suite test the class was resolved for.
func (tc *TestClass) XMLTest() *suite.Test { return tc.test }

// XMLClass returns the class entry of the suite test, nil for classes
// selected by package pattern.
func (tc *TestClass) XMLClass() *suite.Class { return tc.class }

// AnnotationFinder returns the finder used to read lifecycle metadata.
func (tc *TestClass) AnnotationFinder() annotation.Finder { return tc.annotations }

// TestMethodFinder returns the finder that discovered the methods.
func (tc *TestClass) TestMethodFinder() finder.MethodFinder { return tc.methods }

// IClass returns the class handle that owns the instances.
func (tc *TestClass) IClass() instance.Class { return tc.iClass }

// RealClass returns the name of the underlying class.
func (tc *TestClass) RealClass() domain.ClassName { return tc.realClass }

// Instances returns the current instances, creating them first when create is
// set and there are none.
func (tc *TestClass) Instances(create bool) ([]any, error) {
	return tc.iClass.Instances(create)
}

// InstanceHashCodes returns identity hashes in Instances order.
func (tc *TestClass) InstanceHashCodes() []int64 {
	return tc.iClass.InstanceHashCodes()
}

// Deprecated: use len of Instances(false).
func (tc *TestClass) InstanceCount() int {
	return tc.iClass.InstanceCount()
}

// AddInstance registers another instance. A pointer that is already
// registered is ignored; equal non-pointer values are separate instances.
// Method lists and the test name are not recomputed, so the new instance has
// no bound methods.
func (tc *TestClass) AddInstance(inst any) {
	tc.iClass.AddInstance(inst)
}

// TestMethods returns one record per accepted test method and instance.
func (tc *TestClass) TestMethods() []method.Record {
	return slices.Clone(tc.testMethods)
}

// Methods returns the records of category: the test methods for
// domain.CategoryTest, a lifecycle list otherwise.
func (tc *TestClass) Methods(category domain.Category) []method.Record {
	if category == domain.CategoryTest {
		return tc.TestMethods()
	}
	return slices.Clone(tc.lifecycle[category])
}

// BeforeSuiteMethods returns the before-suite records.
func (tc *TestClass) BeforeSuiteMethods() []method.Record {
	return tc.Methods(domain.CategoryBeforeSuite)
}

// AfterSuiteMethods returns the after-suite records.
func (tc *TestClass) AfterSuiteMethods() []method.Record {
	return tc.Methods(domain.CategoryAfterSuite)
}

// BeforeTestConfigurationMethods returns the before-test records.
func (tc *TestClass) BeforeTestConfigurationMethods() []method.Record {
	return tc.Methods(domain.CategoryBeforeTest)
}

// AfterTestConfigurationMethods returns the after-test records.
func (tc *TestClass) AfterTestConfigurationMethods() []method.Record {
	return tc.Methods(domain.CategoryAfterTest)
}

// BeforeClassMethods returns the before-class records.
func (tc *TestClass) BeforeClassMethods() []method.Record {
	return tc.Methods(domain.CategoryBeforeClass)
}

// AfterClassMethods returns the after-class records.
func (tc *TestClass) AfterClassMethods() []method.Record {
	return tc.Methods(domain.CategoryAfterClass)
}

// BeforeGroupsMethods returns the before-groups records.
func (tc *TestClass) BeforeGroupsMethods() []method.Record {
	return tc.Methods(domain.CategoryBeforeGroups)
}

// AfterGroupsMethods returns the after-groups records.
func (tc *TestClass) AfterGroupsMethods() []method.Record {
	return tc.Methods(domain.CategoryAfterGroups)
}

// BeforeTestMethods returns the before-method records.
func (tc *TestClass) BeforeTestMethods() []method.Record {
	return tc.Methods(domain.CategoryBeforeMethod)
}

// AfterTestMethods returns the after-method records.
func (tc *TestClass) AfterTestMethods() []method.Record {
	return tc.Methods(domain.CategoryAfterMethod)
}

func (tc *TestClass) String() string {
	return "TestClass{name=" + string(tc.realClass) + "}"
}
