package parser_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/parser"
)

func sourceTree() fstest.MapFS {
	return fstest.MapFS{
		"src/test/java/com/acme/BaseTest.java": {Data: []byte(`package com.acme;
public abstract class BaseTest { @BeforeSuite public void boot() {} }`)},
		"src/test/java/com/acme/LoginTest.java": {Data: []byte(`package com.acme;
public class LoginTest extends BaseTest { @Test public void login() {} }`)},
		"src/test/java/com/acme/slow/SlowTest.java": {Data: []byte(`package com.acme.slow;
public class SlowTest { @Test public void crawl() {} }`)},
		"target/generated/Ignored.java": {Data: []byte(`class Ignored {}`)},
		"README.md":                     {Data: []byte(`# docs`)},
	}
}

func classNames(classes []*domain.Class) []domain.ClassName {
	names := make([]domain.ClassName, 0, len(classes))
	for _, c := range classes {
		names = append(names, c.Name)
	}
	return names
}

func TestScan(t *testing.T) {
	t.Parallel()

	t.Run("should return empty result for empty tree", func(t *testing.T) {
		t.Parallel()

		result, err := parser.Scan(context.Background(), fstest.MapFS{})
		require.NoError(t, err)
		assert.Empty(t, result.Classes)
		assert.Equal(t, 0, result.Stats.FilesScanned)
	})

	t.Run("should parse java files sorted by class name", func(t *testing.T) {
		t.Parallel()

		result, err := parser.Scan(context.Background(), sourceTree(), parser.WithWorkers(2))
		require.NoError(t, err)

		assert.Equal(t, []domain.ClassName{
			"com.acme.BaseTest",
			"com.acme.LoginTest",
			"com.acme.slow.SlowTest",
		}, classNames(result.Classes))
		assert.Equal(t, 3, result.Stats.FilesScanned)
		assert.Equal(t, 3, result.Stats.FilesParsed)
		assert.Equal(t, 3, result.Stats.ClassesFound)
		assert.Empty(t, result.Errors)
	})

	t.Run("should honor include and exclude patterns", func(t *testing.T) {
		t.Parallel()

		result, err := parser.Scan(context.Background(), sourceTree(),
			parser.WithPatterns([]string{"src/test/java/**/*.java"}),
			parser.WithExcludePatterns([]string{"**/slow/**"}),
		)
		require.NoError(t, err)

		assert.Equal(t, []domain.ClassName{"com.acme.BaseTest", "com.acme.LoginTest"}, classNames(result.Classes))
	})

	t.Run("should skip files above the size limit", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"Big.java":   {Data: make([]byte, 64)},
			"Small.java": {Data: []byte("class Small {}")},
		}

		result, err := parser.Scan(context.Background(), fsys, parser.WithMaxFileSize(32))
		require.NoError(t, err)
		assert.Equal(t, []domain.ClassName{"Small"}, classNames(result.Classes))
	})
}

func TestScan_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := parser.Scan(ctx, sourceTree())
	if !errors.Is(err, parser.ErrScanCancelled) {
		t.Errorf("expected ErrScanCancelled, got %v", err)
	}
}

func TestScanError_Error(t *testing.T) {
	t.Parallel()

	inner := errors.New("boom")
	withPath := parser.ScanError{Err: inner, Path: "A.java", Phase: "parsing"}
	assert.Equal(t, "[parsing] A.java: boom", withPath.Error())
	assert.ErrorIs(t, withPath, inner)

	noPath := parser.ScanError{Err: inner, Phase: "discovery"}
	assert.Equal(t, "[discovery] boom", noPath.Error())
}
