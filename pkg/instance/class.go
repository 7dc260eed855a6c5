package instance

import (
	"github.com/specvital/testplan/pkg/domain"
)

// Class is the handle on a test class: its identity, declared test name and
// instances.
type Class interface {
	RealClass() domain.ClassName
	// TestName is the class-level declared test name.
	TestName() string
	Instances(create bool) ([]any, error)
	InstanceHashCodes() []int64
	// Deprecated: see Registry.Count.
	InstanceCount() int
	AddInstance(instance any)
}

// Handle is the default Class implementation backed by a Registry.
type Handle struct {
	realClass domain.ClassName
	testName  string
	registry  *Registry
}

var _ Class = (*Handle)(nil)

// NewClass returns a handle for realClass. An empty testName defaults to the
// class name.
func NewClass(realClass domain.ClassName, testName string, factory Factory, instances ...any) *Handle {
	if testName == "" {
		testName = string(realClass)
	}
	return &Handle{
		realClass: realClass,
		testName:  testName,
		registry:  NewRegistry(factory, instances...),
	}
}

func (h *Handle) RealClass() domain.ClassName { return h.realClass }

func (h *Handle) TestName() string { return h.testName }

func (h *Handle) Instances(create bool) ([]any, error) {
	return h.registry.Instances(create)
}

func (h *Handle) InstanceHashCodes() []int64 {
	return h.registry.IdentityHashes()
}

// Deprecated: see Registry.Count.
func (h *Handle) InstanceCount() int {
	return h.registry.Count()
}

// AddInstance appends instance to the registry. Not safe for concurrent use.
func (h *Handle) AddInstance(instance any) {
	h.registry.Append(instance)
}

func (h *Handle) String() string {
	return "Class[" + string(h.realClass) + "]"
}
