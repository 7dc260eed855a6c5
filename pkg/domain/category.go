package domain

// Scope is the granularity a lifecycle method applies to.
type Scope string

const (
	ScopeSuite  Scope = "suite"
	ScopeTest   Scope = "test"
	ScopeClass  Scope = "class"
	ScopeGroups Scope = "groups"
	ScopeMethod Scope = "method"
)

// Category classifies a method record: a test method or one of the eight
// lifecycle kinds.
type Category string

const (
	CategoryTest         Category = "test"
	CategoryBeforeSuite  Category = "beforeSuite"
	CategoryAfterSuite   Category = "afterSuite"
	CategoryBeforeTest   Category = "beforeTest"
	CategoryAfterTest    Category = "afterTest"
	CategoryBeforeClass  Category = "beforeClass"
	CategoryAfterClass   Category = "afterClass"
	CategoryBeforeGroups Category = "beforeGroups"
	CategoryAfterGroups  Category = "afterGroups"
	CategoryBeforeMethod Category = "beforeMethod"
	CategoryAfterMethod  Category = "afterMethod"
)

// LifecycleCategories lists the eight lifecycle categories, befores first.
var LifecycleCategories = []Category{
	CategoryBeforeSuite,
	CategoryBeforeTest,
	CategoryBeforeClass,
	CategoryBeforeGroups,
	CategoryBeforeMethod,
	CategoryAfterMethod,
	CategoryAfterGroups,
	CategoryAfterClass,
	CategoryAfterTest,
	CategoryAfterSuite,
}

var categoryInfo = map[Category]struct {
	scope      Scope
	before     bool
	annotation string
}{
	CategoryTest:         {"", false, "Test"},
	CategoryBeforeSuite:  {ScopeSuite, true, "BeforeSuite"},
	CategoryAfterSuite:   {ScopeSuite, false, "AfterSuite"},
	CategoryBeforeTest:   {ScopeTest, true, "BeforeTest"},
	CategoryAfterTest:    {ScopeTest, false, "AfterTest"},
	CategoryBeforeClass:  {ScopeClass, true, "BeforeClass"},
	CategoryAfterClass:   {ScopeClass, false, "AfterClass"},
	CategoryBeforeGroups: {ScopeGroups, true, "BeforeGroups"},
	CategoryAfterGroups:  {ScopeGroups, false, "AfterGroups"},
	CategoryBeforeMethod: {ScopeMethod, true, "BeforeMethod"},
	CategoryAfterMethod:  {ScopeMethod, false, "AfterMethod"},
}

// LifecycleCategory returns the lifecycle category for a scope and phase.
func LifecycleCategory(scope Scope, before bool) (Category, bool) {
	for c, info := range categoryInfo {
		if c != CategoryTest && info.scope == scope && info.before == before {
			return c, true
		}
	}
	return "", false
}

// Scope returns the lifecycle scope, empty for test methods.
func (c Category) Scope() Scope {
	return categoryInfo[c].scope
}

// IsBefore reports whether c is a before-* lifecycle category.
func (c Category) IsBefore() bool {
	return categoryInfo[c].before
}

// IsLifecycle reports whether c is one of the eight lifecycle categories.
func (c Category) IsLifecycle() bool {
	info, ok := categoryInfo[c]
	return ok && info.scope != ""
}

// Annotation returns the TestNG annotation name for the category.
func (c Category) Annotation() string {
	return categoryInfo[c].annotation
}

// Label returns the annotation form used in dumps, e.g. "@BeforeClass".
func (c Category) Label() string {
	if a := c.Annotation(); a != "" {
		return "@" + a
	}
	return "@" + string(c)
}
