package domain

// TestStatus represents the execution behavior of a test method.
type TestStatus string

const (
	// TestStatusActive indicates a normal test that is planned and runs.
	TestStatusActive TestStatus = "active"
	// TestStatusSkipped indicates a test intentionally excluded from the plan,
	// e.g. @Test(enabled = false).
	TestStatusSkipped TestStatus = "skipped"
)
