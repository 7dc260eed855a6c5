package testclass

import (
	"github.com/specvital/testplan/pkg/instance"
)

// Named is implemented by instances that report their own test name.
type Named interface {
	TestName() string
}

// NameFunc returns the name an instance reports for itself, empty for none.
type NameFunc func(inst any) string

// SelfReportedName is the default NameFunc, backed by Named.
func SelfReportedName(inst any) string {
	if n, ok := inst.(Named); ok {
		return n.TestName()
	}
	return ""
}

// resolveTestName returns the first name reported by instances, in registry
// order, falling back to the name declared for the class.
func resolveTestName(cls instance.Class, instances []any, name NameFunc) string {
	for _, inst := range instances {
		if n := name(inst); n != "" {
			return n
		}
	}
	return cls.TestName()
}
