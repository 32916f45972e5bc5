package emit

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"golang.org/x/sync/errgroup"
)

// Lint parses every generated statement to catch emitter regressions
// before anything reaches a database. Raw user SQL is opaque and skipped.
// Parses run concurrently; the first failure wins.
func Lint(script *Script) error {
	var eg errgroup.Group
	eg.SetLimit(8)

	for _, step := range script.Steps {
		if step.Raw || step.SQL == "" {
			continue
		}
		eg.Go(func() error {
			if _, err := pg_query.Parse(step.SQL); err != nil {
				return fmt.Errorf("generated SQL for %s does not parse: %w", step.Path, err)
			}
			return nil
		})
	}
	return eg.Wait()
}
