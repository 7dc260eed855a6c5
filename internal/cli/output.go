package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/specvital/testplan/pkg/annotation"
	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/method"
	"github.com/specvital/testplan/pkg/planner"
	"github.com/specvital/testplan/pkg/testclass"
)

type palette struct {
	after   *color.Color
	before  *color.Color
	failure *color.Color
	header  *color.Color
	test    *color.Color
}

func newPalette(noColor bool) *palette {
	p := &palette{
		after:   color.New(color.FgMagenta),
		before:  color.New(color.FgCyan),
		failure: color.New(color.FgRed, color.Bold),
		header:  color.New(color.Bold),
		test:    color.New(color.FgGreen),
	}
	if noColor {
		for _, c := range []*color.Color{p.after, p.before, p.failure, p.header, p.test} {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) label(category domain.Category) string {
	switch {
	case category == domain.CategoryTest:
		return p.test.Sprint(category.Label())
	case category.IsBefore():
		return p.before.Sprint(category.Label())
	default:
		return p.after.Sprint(category.Label())
	}
}

func writePlanText(w io.Writer, results []*planner.Result, p *palette) error {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s\n", p.header.Sprintf("Test %s: %d classes, %d test methods, %d lifecycle methods",
			r.Test.Name, r.Stats.ClassesPlanned, r.Stats.TestMethods, r.Stats.LifecycleMethods))
		for _, tc := range r.Classes {
			fmt.Fprintf(&b, "%s (%s)\n", tc.RealClass(), tc.TestName())
			for _, e := range tc.DumpEntries() {
				fmt.Fprintf(&b, "%s%s %s\n", e.Indent, p.label(e.Category), e.Record)
			}
		}
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "%s\n", p.failure.Sprintf("✗ %s", e.Error()))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type planJSON struct {
	Classes []classPlanJSON `json:"classes"`
	Errors  []planErrorJSON `json:"errors"`
	Stats   planner.Stats   `json:"stats"`
	Test    string          `json:"test"`
}

type classPlanJSON struct {
	Class     domain.ClassName        `json:"class"`
	Instances []string                `json:"instances"`
	Methods   map[string][]recordJSON `json:"methods"`
	TestName  string                  `json:"testName"`
}

type recordJSON struct {
	DeclaringClass domain.ClassName `json:"declaringClass"`
	Groups         []string         `json:"groups,omitempty"`
	Instance       string           `json:"instance"`
	Method         string           `json:"method"`
}

type planErrorJSON struct {
	Class domain.ClassName `json:"class"`
	Error string           `json:"error"`
	Phase string           `json:"phase"`
}

func writePlanJSON(w io.Writer, results []*planner.Result) error {
	out := make([]planJSON, 0, len(results))
	for _, r := range results {
		pj := planJSON{
			Classes: make([]classPlanJSON, 0, len(r.Classes)),
			Errors:  make([]planErrorJSON, 0, len(r.Errors)),
			Stats:   r.Stats,
			Test:    r.Test.Name,
		}
		for _, tc := range r.Classes {
			pj.Classes = append(pj.Classes, classPlan(tc))
		}
		for _, e := range r.Errors {
			pj.Errors = append(pj.Errors, planErrorJSON{Class: e.Class, Error: e.Err.Error(), Phase: e.Phase})
		}
		out = append(out, pj)
	}
	return encodeJSON(w, out)
}

func classPlan(tc *testclass.TestClass) classPlanJSON {
	cp := classPlanJSON{
		Class:    tc.RealClass(),
		Methods:  make(map[string][]recordJSON),
		TestName: tc.TestName(),
	}
	instances, _ := tc.Instances(false)
	for _, inst := range instances {
		cp.Instances = append(cp.Instances, method.InstanceLabel(inst))
	}
	for _, category := range testclass.DumpOrder {
		records := tc.Methods(category)
		if len(records) == 0 {
			continue
		}
		list := make([]recordJSON, 0, len(records))
		for _, r := range records {
			list = append(list, recordJSON{
				DeclaringClass: r.DeclaringClass(),
				Groups:         r.Groups(),
				Instance:       method.InstanceLabel(r.Instance),
				Method:         r.Method.Signature(),
			})
		}
		cp.Methods[string(category)] = list
	}
	return cp
}

func writeClassesText(w io.Writer, catalog *hierarchy.Catalog, p *palette) error {
	var b strings.Builder
	for _, name := range catalog.Names() {
		class, _ := catalog.Lookup(name)
		kind := string(class.Kind)
		if class.Abstract {
			kind = "abstract " + kind
		}
		fmt.Fprintf(&b, "%s %s", p.header.Sprint(name), kind)
		if super := catalog.Superclass(name); super != "" {
			fmt.Fprintf(&b, " extends %s", super)
		}
		if ifaces := catalog.Interfaces(name); len(ifaces) > 0 {
			parts := make([]string, 0, len(ifaces))
			for _, i := range ifaces {
				parts = append(parts, string(i))
			}
			fmt.Fprintf(&b, " implements %s", strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type classJSON struct {
	Abstract   bool               `json:"abstract,omitempty"`
	Interfaces []domain.ClassName `json:"interfaces,omitempty"`
	Kind       domain.ClassKind   `json:"kind"`
	Methods    int                `json:"methods"`
	Name       domain.ClassName   `json:"name"`
	Path       string             `json:"path"`
	Superclass domain.ClassName   `json:"superclass,omitempty"`
	Tests      []testJSON         `json:"tests,omitempty"`
}

type testJSON struct {
	Method string            `json:"method"`
	Status domain.TestStatus `json:"status"`
}

// writeClassesJSON lists the catalog with the declared @Test methods of each
// class; disabled ones are reported skipped.
func writeClassesJSON(w io.Writer, catalog *hierarchy.Catalog) error {
	annotations := annotation.NewCatalogFinder(catalog)
	out := make([]classJSON, 0, catalog.Len())
	for _, name := range catalog.Names() {
		class, _ := catalog.Lookup(name)
		cj := classJSON{
			Abstract:   class.Abstract,
			Interfaces: catalog.Interfaces(name),
			Kind:       class.Kind,
			Methods:    len(class.Methods),
			Name:       name,
			Path:       class.Location.File,
			Superclass: catalog.Superclass(name),
		}
		for _, m := range class.Methods {
			if !m.HasAnnotation(domain.CategoryTest.Annotation()) {
				continue
			}
			md, _ := annotations.FindMethod(m, domain.CategoryTest)
			cj.Tests = append(cj.Tests, testJSON{Method: m.Signature(), Status: md.Status()})
		}
		out = append(out, cj)
	}
	return encodeJSON(w, out)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
