package finder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/finder"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/parser"
	"github.com/specvital/testplan/pkg/suite"
)

const baseSource = `package com.acme;

import org.testng.annotations.*;

public abstract class BaseTest {
    @BeforeSuite
    public void bootSuite() {}

    @BeforeClass
    public void baseSetUp() {}

    @AfterClass
    public void baseTearDown() {}

    @Test(groups = "smoke")
    public void inherited() {}

    @Test
    public void overridden() {}
}
`

const loginSource = `package com.acme;

import org.testng.annotations.*;

public class LoginTest extends BaseTest {
    @BeforeClass
    public void setUp() {}

    @AfterClass
    public void tearDown() {}

    @BeforeMethod
    public void reset() {}

    @BeforeGroups("db")
    public void seed() {}

    @Test(groups = {"smoke", "web"})
    public void login() {}

    @Test(groups = "slow")
    public void loginSlowly() {}

    @Test(enabled = false)
    public void broken() {}

    @Test
    public void overridden() {}

    @DataProvider
    public Object[][] users() { return null; }

    public void helper() {}
}

@Test(groups = "cart")
class CartTest {
    public void add() {}
    public static void util() {}
    void packagePrivate() {}
    @AfterMethod
    public void clean() {}
}

interface Marker {}
`

func newFinder(t *testing.T) *finder.AnnotationMethodFinder {
	t.Helper()

	var classes []*domain.Class
	for name, src := range map[string]string{"BaseTest.java": baseSource, "LoginTest.java": loginSource} {
		parsed, err := parser.ParseJava(context.Background(), []byte(src), name)
		require.NoError(t, err)
		classes = append(classes, parsed...)
	}
	return finder.NewAnnotationMethodFinder(hierarchy.NewCatalog(classes...), nil)
}

func methodNames(methods []domain.Method) []string {
	names := make([]string, 0, len(methods))
	for _, m := range methods {
		names = append(names, m.Class.SimpleName()+"."+m.Name)
	}
	return names
}

func TestAnnotationMethodFinder_TestMethods(t *testing.T) {
	t.Parallel()

	f := newFinder(t)

	tests := []struct {
		name  string
		class domain.ClassName
		test  *suite.Test
		want  []string
	}{
		{
			name:  "base first, overrides hide ancestors, disabled dropped",
			class: "com.acme.LoginTest",
			want:  []string{"BaseTest.inherited", "LoginTest.login", "LoginTest.loginSlowly", "LoginTest.overridden"},
		},
		{
			name:  "include groups",
			class: "com.acme.LoginTest",
			test:  &suite.Test{Name: "smoke", Groups: suite.Groups{Include: []string{"smoke"}}},
			want:  []string{"BaseTest.inherited", "LoginTest.login"},
		},
		{
			name:  "exclude groups",
			class: "com.acme.LoginTest",
			test:  &suite.Test{Name: "fast", Groups: suite.Groups{Exclude: []string{"slow"}}},
			want:  []string{"BaseTest.inherited", "LoginTest.login", "LoginTest.overridden"},
		},
		{
			name:  "class-level test makes public instance methods tests",
			class: "com.acme.CartTest",
			want:  []string{"CartTest.add"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			methods, err := f.TestMethods(tt.class, tt.test)
			require.NoError(t, err)
			assert.Equal(t, tt.want, methodNames(methods))
		})
	}
}

func TestAnnotationMethodFinder_Lifecycle(t *testing.T) {
	t.Parallel()

	f := newFinder(t)
	const login = domain.ClassName("com.acme.LoginTest")

	tests := []struct {
		category domain.Category
		want     []string
	}{
		{domain.CategoryBeforeSuite, []string{"BaseTest.bootSuite"}},
		{domain.CategoryAfterSuite, []string{}},
		{domain.CategoryBeforeClass, []string{"BaseTest.baseSetUp", "LoginTest.setUp"}},
		{domain.CategoryAfterClass, []string{"LoginTest.tearDown", "BaseTest.baseTearDown"}},
		{domain.CategoryBeforeGroups, []string{"LoginTest.seed"}},
		{domain.CategoryBeforeMethod, []string{"LoginTest.reset"}},
		{domain.CategoryAfterMethod, []string{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			t.Parallel()

			accessor, err := finder.Lifecycle(f, tt.category)
			require.NoError(t, err)

			methods, err := accessor(login)
			require.NoError(t, err)
			assert.Equal(t, tt.want, methodNames(methods))
		})
	}

	t.Run("test category has no lifecycle accessor", func(t *testing.T) {
		t.Parallel()

		_, err := finder.Lifecycle(f, domain.CategoryTest)
		assert.Error(t, err)
	})
}

func TestAnnotationMethodFinder_Errors(t *testing.T) {
	t.Parallel()

	f := newFinder(t)

	_, err := f.TestMethods("com.acme.Missing", nil)
	assert.ErrorIs(t, err, finder.ErrUnknownClass)

	_, err = f.BeforeClassMethods("com.acme.Marker")
	assert.ErrorIs(t, err, finder.ErrNotAClass)

	cyclic := finder.NewAnnotationMethodFinder(hierarchy.NewCatalog(
		&domain.Class{Name: "p.A", Package: "p", Kind: domain.KindClass, Superclass: "B"},
		&domain.Class{Name: "p.B", Package: "p", Kind: domain.KindClass, Superclass: "A"},
	), nil)
	_, err = cyclic.TestMethods("p.A", nil)
	assert.ErrorIs(t, err, hierarchy.ErrCycle)
}
