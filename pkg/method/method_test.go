package method_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/testplan/pkg/annotation"
	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/method"
	"github.com/specvital/testplan/pkg/suite"
)

type instanceStub struct{ name string }

func (s *instanceStub) String() string { return s.name }

func fixture() (domain.Method, domain.Method, annotation.Finder) {
	setUp := domain.Method{
		Annotations: []domain.Annotation{{Name: "BeforeClass"}},
		Class:       "com.acme.LoginTest",
		Name:        "setUp",
		Public:      true,
	}
	login := domain.Method{
		Annotations: []domain.Annotation{{Name: "Test", Arguments: map[string][]string{"groups": {"smoke"}}}},
		Class:       "com.acme.LoginTest",
		Name:        "login",
		Parameters:  []string{"String"},
		Public:      true,
	}
	class := &domain.Class{
		Kind:    domain.KindClass,
		Methods: []domain.Method{setUp, login},
		Name:    "com.acme.LoginTest",
		Package: "com.acme",
	}
	return setUp, login, annotation.NewCatalogFinder(hierarchy.NewCatalog(class))
}

func TestNewTestMethod(t *testing.T) {
	t.Parallel()

	_, login, af := fixture()
	test := &suite.Test{Name: "regression"}
	inst := &instanceStub{name: "LoginTest@0"}

	r := method.NewTestMethod(login, af, test, inst)

	assert.Equal(t, domain.CategoryTest, r.Category)
	assert.Equal(t, domain.ClassName("com.acme.LoginTest"), r.DeclaringClass())
	assert.Same(t, inst, r.Instance)
	assert.Same(t, test, r.Test)
	assert.False(t, r.IsBefore())
	assert.False(t, r.Category.IsLifecycle())
	require.NotNil(t, r.Metadata)
	assert.Equal(t, []string{"smoke"}, r.Groups())
	assert.Equal(t, "LoginTest.login(String) on LoginTest@0", r.String())
}

func TestConfigurationConstructors(t *testing.T) {
	t.Parallel()

	setUp, _, af := fixture()
	raw := []domain.Method{setUp}
	inst := &instanceStub{name: "LoginTest@0"}

	tests := []struct {
		name     string
		build    func() []method.Record
		category domain.Category
	}{
		{"before suite", func() []method.Record { return method.SuiteConfigurations(raw, af, nil, true, inst) }, domain.CategoryBeforeSuite},
		{"after suite", func() []method.Record { return method.SuiteConfigurations(raw, af, nil, false, inst) }, domain.CategoryAfterSuite},
		{"before test", func() []method.Record { return method.TestConfigurations(raw, af, nil, true, inst) }, domain.CategoryBeforeTest},
		{"after test", func() []method.Record { return method.TestConfigurations(raw, af, nil, false, inst) }, domain.CategoryAfterTest},
		{"before class", func() []method.Record { return method.ClassConfigurations(raw, af, nil, true, inst) }, domain.CategoryBeforeClass},
		{"after class", func() []method.Record { return method.ClassConfigurations(raw, af, nil, false, inst) }, domain.CategoryAfterClass},
		{"before groups", func() []method.Record { return method.BeforeGroupsConfigurations(raw, af, nil, inst) }, domain.CategoryBeforeGroups},
		{"after groups", func() []method.Record { return method.AfterGroupsConfigurations(raw, af, nil, inst) }, domain.CategoryAfterGroups},
		{"before method", func() []method.Record { return method.MethodConfigurations(raw, af, nil, true, inst) }, domain.CategoryBeforeMethod},
		{"after method", func() []method.Record { return method.MethodConfigurations(raw, af, nil, false, inst) }, domain.CategoryAfterMethod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			records := tt.build()
			require.Len(t, records, 1)
			assert.Equal(t, tt.category, records[0].Category)
			assert.Equal(t, tt.category.IsBefore(), records[0].IsBefore())
			assert.True(t, records[0].Category.IsLifecycle())
			assert.Same(t, inst, records[0].Instance)
		})
	}
}

func TestConfigurationMetadata(t *testing.T) {
	t.Parallel()

	setUp, _, af := fixture()

	matching := method.ClassConfigurations([]domain.Method{setUp}, af, nil, true, nil)
	require.Len(t, matching, 1)
	assert.NotNil(t, matching[0].Metadata)

	// setUp carries @BeforeClass only, so a method-scope lookup finds nothing.
	other := method.MethodConfigurations([]domain.Method{setUp}, af, nil, true, nil)
	require.Len(t, other, 1)
	assert.Nil(t, other[0].Metadata)
	assert.Nil(t, other[0].Groups())

	assert.Empty(t, method.ClassConfigurations(nil, af, nil, true, nil))
}

func TestInstanceLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "LoginTest@1", method.InstanceLabel(&instanceStub{name: "LoginTest@1"}))
	assert.Equal(t, "int", method.InstanceLabel(42))
	assert.Equal(t, "<nil>", method.InstanceLabel(nil))
}
