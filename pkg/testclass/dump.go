package testclass

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/method"
)

// DumpOrder is the category order of dumps: befores, tests, afters.
var DumpOrder = []domain.Category{
	domain.CategoryBeforeSuite,
	domain.CategoryBeforeTest,
	domain.CategoryBeforeClass,
	domain.CategoryBeforeGroups,
	domain.CategoryBeforeMethod,
	domain.CategoryTest,
	domain.CategoryAfterMethod,
	domain.CategoryAfterGroups,
	domain.CategoryAfterClass,
	domain.CategoryAfterTest,
	domain.CategoryAfterSuite,
}

// DumpEntry is one record line of a dump.
type DumpEntry struct {
	Category domain.Category
	Indent   string
	Record   method.Record
}

func (e DumpEntry) String() string {
	return e.Indent + e.Category.Label() + " " + e.Record.String()
}

// DumpEntries returns every record in DumpOrder. Test methods are indented
// deeper than lifecycle methods.
func (tc *TestClass) DumpEntries() []DumpEntry {
	var entries []DumpEntry
	for _, category := range DumpOrder {
		indent := "  "
		if category == domain.CategoryTest {
			indent = "    "
		}
		for _, r := range tc.Methods(category) {
			entries = append(entries, DumpEntry{Category: category, Indent: indent, Record: r})
		}
	}
	return entries
}

// Dump logs the plan at info level, one record per line.
func (tc *TestClass) Dump(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, line := range tc.dumpLines() {
		logger.Info(line)
	}
}

// WriteDump writes the plan as text, one record per line.
func (tc *TestClass) WriteDump(w io.Writer) error {
	for _, line := range tc.dumpLines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func (tc *TestClass) dumpLines() []string {
	lines := []string{"===== Test class\n" + string(tc.realClass)}
	for _, e := range tc.DumpEntries() {
		lines = append(lines, e.String())
	}
	return append(lines, "======")
}
