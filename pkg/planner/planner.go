// Package planner builds the test-class plans of suite tests from a catalog
// of parsed classes.
package planner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/testplan/pkg/annotation"
	"github.com/specvital/testplan/pkg/diag"
	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/finder"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/instance"
	"github.com/specvital/testplan/pkg/suite"
	"github.com/specvital/testplan/pkg/testclass"
)

// MaxWorkers is the maximum number of classes planned concurrently.
const MaxWorkers = 1024

const (
	PhaseInstances = "instances"
	PhaseDiscovery = "discovery"
)

// ErrPlanCancelled is returned when planning stops on context cancellation.
var ErrPlanCancelled = errors.New("planner: plan cancelled")

// Planner builds TestClass plans. It is safe for concurrent use as long as
// its finders are.
type Planner struct {
	annotations annotation.Finder
	catalog     *hierarchy.Catalog
	methods     finder.MethodFinder
	sink        diag.Sink
	workers     int
}

// Option configures a Planner.
type Option func(*Planner)

// WithWorkers sets the number of classes planned concurrently. Zero or less
// uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(p *Planner) {
		p.workers = n
	}
}

// WithSink sets the run-info sink passed to every TestClass.
func WithSink(s diag.Sink) Option {
	return func(p *Planner) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithMethodFinder replaces the annotation-driven method finder.
func WithMethodFinder(f finder.MethodFinder) Option {
	return func(p *Planner) {
		if f != nil {
			p.methods = f
		}
	}
}

// WithAnnotationFinder replaces the catalog-backed annotation finder.
func WithAnnotationFinder(f annotation.Finder) Option {
	return func(p *Planner) {
		if f != nil {
			p.annotations = f
		}
	}
}

// New returns a planner over catalog.
func New(catalog *hierarchy.Catalog, opts ...Option) *Planner {
	p := &Planner{
		catalog: catalog,
		sink:    diag.Discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.annotations == nil {
		p.annotations = annotation.NewCatalogFinder(catalog)
	}
	if p.methods == nil {
		p.methods = finder.NewAnnotationMethodFinder(catalog, p.annotations)
	}
	return p
}

// Result is the plan of one suite test.
type Result struct {
	// Classes holds the planned classes sorted by class name.
	Classes []*testclass.TestClass
	// Errors holds classes that cannot run, sorted by class name.
	Errors []PlanError
	Stats  Stats
	Test   *suite.Test
}

// Stats summarizes a plan.
type Stats struct {
	ClassesFailed    int           `json:"classesFailed"`
	ClassesPlanned   int           `json:"classesPlanned"`
	Duration         time.Duration `json:"durationNs"`
	LifecycleMethods int           `json:"lifecycleMethods"`
	TestMethods      int           `json:"testMethods"`
}

// PlanError records a class that could not be planned.
type PlanError struct {
	Class domain.ClassName
	Err   error
	Phase string
}

func (e PlanError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Class, e.Phase, e.Err)
}

func (e PlanError) Unwrap() error {
	return e.Err
}

// target is a class selected for planning.
type target struct {
	entry *suite.Class
	name  domain.ClassName
}

// Plan builds one TestClass per class selected by test. A class whose
// methods cannot be discovered is reported in Result.Errors and does not
// stop the others.
func (p *Planner) Plan(ctx context.Context, test *suite.Test) (*Result, error) {
	if test == nil {
		return nil, errors.New("planner: nil test")
	}
	start := time.Now()

	targets := p.selectClasses(test)
	p.sink.Record(2, fmt.Sprintf("Planning test %q: %d classes", test.Name, len(targets)))

	workers := p.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, MaxWorkers)

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu      sync.Mutex
		classes = make([]*testclass.TestClass, 0, len(targets))
		errs    []PlanError
	)

	for _, t := range targets {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			if err := gCtx.Err(); err != nil {
				return err
			}

			tc, planErr := p.planClass(test, t)

			mu.Lock()
			defer mu.Unlock()

			if planErr != nil {
				errs = append(errs, *planErr)
				return nil
			}
			classes = append(classes, tc)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPlanCancelled, err)
	}

	// Goroutines finish in arbitrary order.
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].RealClass() < classes[j].RealClass()
	})
	sort.Slice(errs, func(i, j int) bool {
		return errs[i].Class < errs[j].Class
	})

	result := &Result{
		Classes: classes,
		Errors:  errs,
		Test:    test,
	}
	result.Stats = computeStats(classes, len(errs))
	result.Stats.Duration = time.Since(start)
	return result, nil
}

// PlanSuite plans every test of s in declaration order.
func (p *Planner) PlanSuite(ctx context.Context, s *suite.Suite) ([]*Result, error) {
	results := make([]*Result, 0, len(s.Tests))
	for _, test := range s.Tests {
		r, err := p.Plan(ctx, test)
		if err != nil {
			return nil, fmt.Errorf("plan test %q: %w", test.Name, err)
		}
		results = append(results, r)
	}
	return results, nil
}

func (p *Planner) planClass(test *suite.Test, t target) (*testclass.TestClass, *PlanError) {
	cls := instance.NewClass(t.name, "", p.factory(t))
	// Instances are created up front: classification only sees instances
	// that already exist.
	if _, err := cls.Instances(true); err != nil {
		return nil, &PlanError{Class: t.name, Err: err, Phase: PhaseInstances}
	}

	tc, err := testclass.New(cls, p.catalog, p.methods, p.annotations, p.sink, test, t.entry)
	if err != nil {
		p.sink.Record(1, fmt.Sprintf("Class %s cannot run: %v", t.name, err))
		return nil, &PlanError{Class: t.name, Err: err, Phase: PhaseDiscovery}
	}
	return tc, nil
}

// factory creates the instances configured for the class entry, or a single
// unnamed instance.
func (p *Planner) factory(t target) instance.Factory {
	return func() ([]any, error) {
		if t.entry == nil || len(t.entry.Instances) == 0 {
			return []any{&SourceInstance{Class: t.name}}, nil
		}
		out := make([]any, 0, len(t.entry.Instances))
		for i, cfg := range t.entry.Instances {
			out = append(out, &SourceInstance{Class: t.name, Name: cfg.Name, Ordinal: i})
		}
		return out, nil
	}
}

// selectClasses returns the explicit classes of test followed by catalog
// classes matching its package patterns. Pattern matches skip interfaces,
// abstract and nested classes.
func (p *Planner) selectClasses(test *suite.Test) []target {
	seen := make(map[domain.ClassName]bool)
	var targets []target
	for _, entry := range test.Classes {
		name := entry.ClassName()
		if seen[name] {
			continue
		}
		seen[name] = true
		targets = append(targets, target{entry: entry, name: name})
	}

	if len(test.Packages) == 0 {
		return targets
	}
	for _, name := range p.catalog.Names() {
		if seen[name] || !matchesAny(test.Packages, name) {
			continue
		}
		class, _ := p.catalog.Lookup(name)
		if class.Kind != domain.KindClass || class.Abstract || class.Enclosing != "" {
			continue
		}
		seen[name] = true
		targets = append(targets, target{name: name})
	}
	return targets
}

func matchesAny(patterns []string, name domain.ClassName) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(domain.ClassName(pattern).Path(), name.Path()); ok {
			return true
		}
	}
	return false
}

func computeStats(classes []*testclass.TestClass, failed int) Stats {
	stats := Stats{ClassesFailed: failed, ClassesPlanned: len(classes)}
	for _, tc := range classes {
		stats.TestMethods += len(tc.TestMethods())
		for _, category := range domain.LifecycleCategories {
			stats.LifecycleMethods += len(tc.Methods(category))
		}
	}
	return stats
}
