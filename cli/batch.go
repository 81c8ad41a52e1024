package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/serisow/lesocle-seeder/pipeline"
	"github.com/serisow/lesocle-seeder/pipeline_type"
)

// RunBatch runs plan once against the session context and returns the
// process exit code: 0 when every step succeeded, 1 otherwise.
func RunBatch(ctx context.Context, s *Session, plan *pipeline_type.Pipeline) int {
	line := strings.Repeat("=", bannerWidth)
	verbose := "OFF"
	if s.Config.Verbose {
		verbose = "ON"
	}

	fmt.Fprintln(s.out, line)
	fmt.Fprintln(s.out, "Database Seeder Starting")
	fmt.Fprintln(s.out, line)
	fmt.Fprintf(s.out, "API Base URL: %s\n", s.Config.APIBaseURL)
	fmt.Fprintf(s.out, "Verbose Mode: %s\n", verbose)
	fmt.Fprintf(s.out, "Plan: %s (%d steps)\n", plan.ID, len(plan.Steps))
	fmt.Fprintln(s.out, line)

	if err := pipeline.ValidatePlan(plan, s.Executor.Registry()); err != nil {
		fmt.Fprintln(s.out, "\n"+line)
		fmt.Fprintln(s.out, red("✗ Invalid Seeding Plan"))
		fmt.Fprintln(s.out, line)
		fmt.Fprintf(s.out, "\nError Details: %v\n", err)
		return 1
	}

	plan.Context = s.Context
	err := s.Executor.ExecutePipeline(ctx, plan)

	succeeded, failed := s.Executor.Store().Counts()
	if err != nil {
		fmt.Fprintln(s.out, "\n"+line)
		fmt.Fprintln(s.out, red("✗ Database Seeding Failed"))
		fmt.Fprintln(s.out, line)
		fmt.Fprintf(s.out, "\nError Details: %v\n", err)
		if s.Config.Verbose {
			displayResponseBody(s.out, err)
		}
		fmt.Fprintf(s.out, "\nSteps: %d succeeded, %d failed, %d not run\n",
			succeeded, failed, len(plan.Steps)-succeeded-failed)
		return 1
	}

	fmt.Fprintln(s.out, "\n"+line)
	fmt.Fprintln(s.out, green("✓ Database Seeding Completed Successfully"))
	fmt.Fprintln(s.out, line)
	fmt.Fprintf(s.out, "\nSteps: %d succeeded\n", succeeded)

	if s.Config.Verbose {
		dumpContext(s.out, s.Context)
	}
	return 0
}
