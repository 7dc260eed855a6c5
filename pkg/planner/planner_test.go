package planner_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/testplan/pkg/diag"
	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/finder"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/parser"
	"github.com/specvital/testplan/pkg/planner"
	"github.com/specvital/testplan/pkg/suite"
	"github.com/specvital/testplan/pkg/testclass"
)

var sources = fstest.MapFS{
	"src/test/java/com/acme/BaseTest.java": {Data: []byte(`package com.acme;

import org.testng.annotations.*;

public abstract class BaseTest {
    @BeforeClass
    public void baseSetUp() {}

    @Test
    public void inherited() {}
}
`)},
	"src/test/java/com/acme/web/LoginTest.java": {Data: []byte(`package com.acme.web;

import com.acme.BaseTest;
import org.testng.annotations.Test;

public class LoginTest extends BaseTest {
    @Test(groups = "smoke")
    public void login() {}

    @Test(groups = "slow")
    public void slow() {}
}
`)},
	"src/test/java/com/acme/web/CartTest.java": {Data: []byte(`package com.acme.web;

import org.testng.annotations.Test;

@Test
public class CartTest {
    public void add() {}
}
`)},
	"src/test/java/com/acme/web/Page.java": {Data: []byte(`package com.acme.web;

public interface Page {
    void open();
}
`)},
}

func newCatalog(t *testing.T) *hierarchy.Catalog {
	t.Helper()

	result, err := parser.Scan(context.Background(), sources)
	require.NoError(t, err)
	require.Empty(t, result.Errors)
	return hierarchy.NewCatalog(result.Classes...)
}

func classNames(classes []*testclass.TestClass) []domain.ClassName {
	out := make([]domain.ClassName, 0, len(classes))
	for _, tc := range classes {
		out = append(out, tc.RealClass())
	}
	return out
}

func TestPlanner_PackagePatterns(t *testing.T) {
	t.Parallel()

	p := planner.New(newCatalog(t), planner.WithWorkers(2))
	test := &suite.Test{
		Name:     "web",
		Packages: []string{"com.acme.**"},
		Groups:   suite.Groups{Exclude: []string{"slow"}},
	}

	result, err := p.Plan(context.Background(), test)
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	assert.Same(t, test, result.Test)
	assert.Equal(t, []domain.ClassName{"com.acme.web.CartTest", "com.acme.web.LoginTest"}, classNames(result.Classes))

	login := result.Classes[1]
	var tests []string
	for _, r := range login.TestMethods() {
		tests = append(tests, r.String())
	}
	assert.Equal(t, []string{"BaseTest.inherited() on LoginTest@0", "LoginTest.login() on LoginTest@0"}, tests)
	assert.Len(t, login.BeforeClassMethods(), 1)
	assert.Nil(t, login.XMLClass())

	assert.Equal(t, 2, result.Stats.ClassesPlanned)
	assert.Equal(t, 0, result.Stats.ClassesFailed)
	assert.Equal(t, 3, result.Stats.TestMethods)
	assert.Equal(t, 1, result.Stats.LifecycleMethods)
}

func TestPlanner_ConfiguredInstances(t *testing.T) {
	t.Parallel()

	p := planner.New(newCatalog(t))
	entry := &suite.Class{
		Name:      "com.acme.web.LoginTest",
		Instances: []suite.Instance{{}, {Name: "Second"}},
	}
	test := &suite.Test{Name: "instances", Classes: []*suite.Class{entry}}

	result, err := p.Plan(context.Background(), test)
	require.NoError(t, err)
	require.Len(t, result.Classes, 1)

	tc := result.Classes[0]
	assert.Equal(t, "Second", tc.TestName())
	assert.Same(t, entry, tc.XMLClass())
	assert.Len(t, tc.TestMethods(), 6)
	assert.Len(t, tc.BeforeClassMethods(), 2)
	assert.Len(t, tc.InstanceHashCodes(), 2)

	instances, err := tc.Instances(false)
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "LoginTest@1", instances[1].(*planner.SourceInstance).String())
}

func TestPlanner_DiscoveryFailureIsolated(t *testing.T) {
	t.Parallel()

	recorder := &diag.Recorder{}
	p := planner.New(newCatalog(t), planner.WithSink(recorder))
	test := &suite.Test{
		Name: "mixed",
		Classes: []*suite.Class{
			{Name: "com.acme.web.CartTest"},
			{Name: "com.acme.Missing"},
			{Name: "com.acme.web.Page"},
		},
	}

	result, err := p.Plan(context.Background(), test)
	require.NoError(t, err)

	assert.Equal(t, []domain.ClassName{"com.acme.web.CartTest"}, classNames(result.Classes))
	require.Len(t, result.Errors, 2)

	missing := result.Errors[0]
	assert.Equal(t, domain.ClassName("com.acme.Missing"), missing.Class)
	assert.Equal(t, planner.PhaseDiscovery, missing.Phase)
	assert.ErrorIs(t, missing, testclass.ErrDiscovery)
	assert.ErrorIs(t, missing, finder.ErrUnknownClass)

	assert.ErrorIs(t, result.Errors[1], finder.ErrNotAClass)
	assert.Equal(t, 2, result.Stats.ClassesFailed)

	var cannotRun int
	for _, msg := range recorder.Messages(1) {
		if strings.HasPrefix(msg, "Class ") && strings.Contains(msg, "cannot run") {
			cannotRun++
		}
	}
	assert.Equal(t, 2, cannotRun)
}

func TestPlanner_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := planner.New(newCatalog(t))
	_, err := p.Plan(ctx, &suite.Test{Name: "web", Packages: []string{"com.acme.**"}})
	assert.ErrorIs(t, err, planner.ErrPlanCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlanner_PlanSuite(t *testing.T) {
	t.Parallel()

	s, err := suite.Load(strings.NewReader(`
name: nightly
tests:
  - name: smoke
    groups:
      include: [smoke]
    classes:
      - name: com.acme.web.LoginTest
  - name: cart
    packages: ["com.acme.web.Cart*"]
`))
	require.NoError(t, err)

	results, err := planner.New(newCatalog(t)).PlanSuite(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, results, 2)

	smoke := results[0]
	require.Len(t, smoke.Classes, 1)
	require.Len(t, smoke.Classes[0].TestMethods(), 1)
	assert.Equal(t, "login", smoke.Classes[0].TestMethods()[0].Method.Name)

	cart := results[1]
	assert.Equal(t, []domain.ClassName{"com.acme.web.CartTest"}, classNames(cart.Classes))
	assert.Equal(t, 1, cart.Stats.TestMethods)
}

func TestPlanner_NilTest(t *testing.T) {
	t.Parallel()

	_, err := planner.New(hierarchy.NewCatalog()).Plan(context.Background(), nil)
	assert.Error(t, err)
}

func TestSourceInstance(t *testing.T) {
	t.Parallel()

	inst := &planner.SourceInstance{Class: "com.acme.web.LoginTest", Name: "Alpha", Ordinal: 3}
	assert.Equal(t, "LoginTest@3", inst.String())
	assert.Equal(t, "Alpha", inst.TestName())

	var named testclass.Named = inst
	assert.Equal(t, "Alpha", named.TestName())
}

func TestPlanError(t *testing.T) {
	t.Parallel()

	err := planner.PlanError{Class: "com.acme.X", Phase: planner.PhaseDiscovery, Err: finder.ErrNotAClass}
	assert.Equal(t, "com.acme.X [discovery]: finder: not a class", err.Error())
	assert.ErrorIs(t, err, finder.ErrNotAClass)
}
