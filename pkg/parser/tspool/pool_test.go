package tspool_test

import (
	"context"
	"sync"
	"testing"

	"github.com/specvital/testplan/pkg/domain"
	"github.com/specvital/testplan/pkg/parser/tspool"
)

func TestParse_RaceFree(t *testing.T) {
	t.Parallel()

	const goroutines = 50
	source := []byte("class A { void a() {} }")

	var wg sync.WaitGroup
	wg.Add(goroutines)

	errCh := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			tree, err := tspool.Parse(context.Background(), domain.LanguageJava, source)
			if err != nil {
				errCh <- err
				return
			}
			defer tree.Close()
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("Parse failed: %v", err)
	}
}

func TestGet_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	parser, err := tspool.Get(domain.Language("cobol"))
	if err == nil {
		parser.Close()
		t.Fatal("expected error for unsupported language")
	}
}

func TestParse_ValidOutput(t *testing.T) {
	t.Parallel()

	tree, err := tspool.Parse(context.Background(), domain.LanguageJava, []byte("package a;\nclass B {}"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		t.Fatal("Root node is nil")
	}
	if root.ChildCount() == 0 {
		t.Error("Expected children in parsed tree")
	}
}

func TestQueryWithCache(t *testing.T) {
	t.Parallel()

	source := []byte("import a.b.C;\nimport d.e.*;\nclass X {}")
	tree, err := tspool.Parse(context.Background(), domain.LanguageJava, source)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	const query = `(import_declaration) @import`
	for i := 0; i < 2; i++ {
		results, err := tspool.QueryWithCache(tree.RootNode(), domain.LanguageJava, query)
		if err != nil {
			t.Fatalf("QueryWithCache failed: %v", err)
		}
		if len(results) != 2 {
			t.Errorf("expected 2 matches, got %d", len(results))
		}
	}
}

func TestQueryWithCache_InvalidQuery(t *testing.T) {
	t.Parallel()

	tree, err := tspool.Parse(context.Background(), domain.LanguageJava, []byte("class X {}"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	defer tree.Close()

	if _, err := tspool.QueryWithCache(tree.RootNode(), domain.LanguageJava, "(not_a_node"); err == nil {
		t.Error("expected error for invalid query")
	}
}
