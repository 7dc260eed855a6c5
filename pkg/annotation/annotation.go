// Package annotation exposes declarative test metadata (timeouts, groups,
// dependencies) for classes and methods.
package annotation

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/specvital/testplan/pkg/domain"
)

// Finder looks up metadata declared on methods and classes.
type Finder interface {
	// FindMethod returns the metadata that applies to m in the given category,
	// or false when m carries no annotation for it.
	FindMethod(m domain.Method, category domain.Category) (*Metadata, bool)
	// FindClass returns class-level test metadata.
	FindClass(name domain.ClassName) (*Metadata, bool)
}

// Metadata is the parsed content of a test or lifecycle annotation.
type Metadata struct {
	AlwaysRun        bool          `json:"alwaysRun,omitempty"`
	DataProvider     string        `json:"dataProvider,omitempty"`
	DependsOnGroups  []string      `json:"dependsOnGroups,omitempty"`
	DependsOnMethods []string      `json:"dependsOnMethods,omitempty"`
	Description      string        `json:"description,omitempty"`
	Enabled          bool          `json:"enabled"`
	Groups           []string      `json:"groups,omitempty"`
	InheritGroups    bool          `json:"inheritGroups"`
	InvocationCount  int           `json:"invocationCount"`
	Priority         int           `json:"priority,omitempty"`
	Timeout          time.Duration `json:"timeout,omitempty"`
}

// Status maps Enabled to a test status.
func (m *Metadata) Status() domain.TestStatus {
	if m == nil || m.Enabled {
		return domain.TestStatusActive
	}
	return domain.TestStatusSkipped
}

func defaultMetadata() *Metadata {
	return &Metadata{
		Enabled:         true,
		InheritGroups:   true,
		InvocationCount: 1,
	}
}

// apply overlays the arguments of a onto m.
func (m *Metadata) apply(a domain.Annotation) {
	for _, key := range slices.Sorted(maps.Keys(a.Arguments)) {
		values := a.Arguments[key]
		first := ""
		if len(values) > 0 {
			first = values[0]
		}

		switch key {
		case "alwaysRun":
			m.AlwaysRun = parseBool(first, m.AlwaysRun)
		case "dataProvider":
			m.DataProvider = first
		case "dependsOnGroups":
			m.DependsOnGroups = appendUnique(m.DependsOnGroups, values...)
		case "dependsOnMethods":
			m.DependsOnMethods = appendUnique(m.DependsOnMethods, values...)
		case "description":
			m.Description = first
		case "enabled":
			m.Enabled = parseBool(first, m.Enabled)
		case "groups":
			m.Groups = appendUnique(m.Groups, values...)
		case "value":
			// @BeforeGroups("db") / @AfterGroups("db")
			if a.Name == "BeforeGroups" || a.Name == "AfterGroups" {
				m.Groups = appendUnique(m.Groups, values...)
			}
		case "inheritGroups":
			m.InheritGroups = parseBool(first, m.InheritGroups)
		case "invocationCount":
			m.InvocationCount = parseInt(first, m.InvocationCount)
		case "priority":
			m.Priority = parseInt(first, m.Priority)
		case "timeOut":
			if ms := parseInt(first, -1); ms >= 0 {
				m.Timeout = time.Duration(ms) * time.Millisecond
			}
		}
	}
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return b
}

// parseInt accepts Java int and long literals ("2000", "2_000", "2000L").
func parseInt(s string, fallback int) int {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimSuffix(s, "L"), "l")
	s = strings.ReplaceAll(s, "_", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if v != "" && !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
