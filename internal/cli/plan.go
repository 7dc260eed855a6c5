package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/specvital/testplan/pkg/diag"
	"github.com/specvital/testplan/pkg/hierarchy"
	"github.com/specvital/testplan/pkg/parser"
	"github.com/specvital/testplan/pkg/planner"
	"github.com/specvital/testplan/pkg/suite"
)

type planOptions struct {
	root      string
	suiteFile string
	test      string
	workers   int
}

func newPlanCmd(root *RootOptions) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve the execution plan of a suite",
		Long: `Scan the Java sources under --root, load the YAML suite and print, for
every test of the suite, the planned classes with their lifecycle and test
methods. Classes that cannot run are listed and make the command fail.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.root, "root", ".", "source root to scan")
	cmd.Flags().StringVar(&opts.suiteFile, "suite", "", "YAML suite file")
	cmd.Flags().StringVar(&opts.test, "test", "", "plan only the named test")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "classes planned concurrently (0 uses all CPUs)")
	_ = cmd.MarkFlagRequired("suite")
	return cmd
}

func runPlan(cmd *cobra.Command, root *RootOptions, opts *planOptions) error {
	ctx := cmd.Context()
	logger := root.logger(cmd)

	s, err := suite.LoadFile(opts.suiteFile)
	if err != nil {
		return err
	}

	var selected *suite.Test
	if opts.test != "" {
		test, ok := s.Test(opts.test)
		if !ok {
			return fmt.Errorf("suite %q has no test %q", s.Name, opts.test)
		}
		selected = test
	}

	catalog, err := scanCatalog(cmd, opts.root, logger)
	if err != nil {
		return err
	}

	p := planner.New(catalog,
		planner.WithSink(diag.NewSlogSink(logger, "TestClass")),
		planner.WithWorkers(opts.workers),
	)

	var results []*planner.Result
	if selected != nil {
		r, err := p.Plan(ctx, selected)
		if err != nil {
			return fmt.Errorf("plan test %q: %w", selected.Name, err)
		}
		results = []*planner.Result{r}
	} else if results, err = p.PlanSuite(ctx, s); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if root.Format == FormatJSON {
		err = writePlanJSON(out, results)
	} else {
		err = writePlanText(out, results, newPalette(root.NoColor))
	}
	if err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		failed += len(r.Errors)
	}
	if failed > 0 {
		return fmt.Errorf("%d classes cannot run", failed)
	}
	return nil
}

// scanCatalog parses every Java source under dir into a catalog. Files that
// fail to parse are logged and skipped.
func scanCatalog(cmd *cobra.Command, dir string, logger *slog.Logger) (*hierarchy.Catalog, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}

	result, err := parser.Scan(cmd.Context(), os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	for _, scanErr := range result.Errors {
		logger.Warn("skipping source", "path", scanErr.Path, "phase", scanErr.Phase, "error", scanErr.Err)
	}
	return hierarchy.NewCatalog(result.Classes...), nil
}
