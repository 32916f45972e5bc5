// Package pgrxgen provides a programmatic API for generating the SQL
// install script of a compiled PostgreSQL extension. It collects entity
// descriptors from the extension artifact, builds a typed dependency
// graph, solves a deterministic emission order, and renders the CREATE
// statements into a single script.
package pgrxgen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pgrxgen/pgrxgen/internal/collect"
	"github.com/pgrxgen/pgrxgen/internal/emit"
	"github.com/pgrxgen/pgrxgen/internal/graph"
	"github.com/pgrxgen/pgrxgen/internal/logger"
	"github.com/pgrxgen/pgrxgen/internal/version"
)

// Stage names the pipeline stage an error escaped from; the CLI maps
// stages onto exit codes.
type Stage int

const (
	StageCollect Stage = iota + 1 // descriptor collection
	StageGraph                    // graph construction and resolution
	StageOrder                    // ordering
	StageEmit                     // rendering and file output
)

var stageNames = map[Stage]string{
	StageCollect: "collect",
	StageGraph:   "graph",
	StageOrder:   "order",
	StageEmit:    "emit",
}

func (s Stage) String() string { return stageNames[s] }

// StageError wraps a pipeline failure with the stage it escaped from
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// GenerateOptions configures one generation run
type GenerateOptions struct {
	Artifact string       // compiled shared library or descriptor bundle file
	Output   string       // SQL output path; OUT_DIR redirects relative paths
	Dot      string       // optional GraphViz output path
	Lint     bool         // parse every generated statement before writing
	Set      *collect.Set // pre-collected descriptors; overrides Artifact
}

// ValidateOptions configures a validation run: the full pipeline with
// emission to memory, then a syntactic lint of the result
type ValidateOptions struct {
	Artifact string
	Set      *collect.Set
}

// Client provides the main interface for pgrxgen operations
type Client struct{}

// NewClient creates a new pgrxgen client
func NewClient() *Client {
	return &Client{}
}

// Generate runs the full pipeline and writes the SQL script (and the
// optional DOT file), returning the final output path. No partial output
// file survives a failure.
func (c *Client) Generate(opts GenerateOptions) (string, error) {
	if opts.Output == "" {
		return "", fmt.Errorf("output path is required")
	}
	script, g, _, err := c.run(opts.Set, opts.Artifact)
	if err != nil {
		return "", err
	}

	if opts.Lint {
		if err := emit.Lint(script); err != nil {
			return "", &StageError{Stage: StageEmit, Err: err}
		}
	}

	if opts.Dot != "" {
		var buf bytes.Buffer
		if err := g.WriteDOT(&buf); err != nil {
			return "", &StageError{Stage: StageEmit, Err: &emit.EmissionIO{Path: opts.Dot, Cause: err}}
		}
		if err := emit.WriteFileAtomic(resolveOutput(opts.Dot), buf.String()); err != nil {
			return "", &StageError{Stage: StageEmit, Err: err}
		}
	}

	output := resolveOutput(opts.Output)
	if err := emit.WriteFileAtomic(output, script.String()); err != nil {
		return "", &StageError{Stage: StageEmit, Err: err}
	}

	logger.Get().Info("generated install script", "output", output, "steps", len(script.Steps))
	return output, nil
}

// Validate runs the pipeline with emission suppressed and lints the
// rendered SQL, surfacing the first error
func (c *Client) Validate(opts ValidateOptions) error {
	script, _, _, err := c.run(opts.Set, opts.Artifact)
	if err != nil {
		return err
	}
	if err := emit.Lint(script); err != nil {
		return &StageError{Stage: StageEmit, Err: err}
	}
	return nil
}

// run executes collect -> build -> solve -> render
func (c *Client) run(set *collect.Set, artifact string) (*emit.Script, *graph.Graph, []int, error) {
	if set == nil {
		if artifact == "" {
			return nil, nil, nil, fmt.Errorf("an artifact path or a descriptor set is required")
		}
		var err error
		set, err = collect.CollectArtifact(artifact)
		if err != nil {
			return nil, nil, nil, &StageError{Stage: StageCollect, Err: err}
		}
	}

	g, err := graph.Build(set.Descriptors)
	if err != nil {
		return nil, nil, nil, &StageError{Stage: StageGraph, Err: err}
	}

	order, err := g.Solve()
	if err != nil {
		return nil, nil, nil, &StageError{Stage: StageOrder, Err: err}
	}

	script, err := emit.Render(g, order, version.App())
	if err != nil {
		return nil, nil, nil, &StageError{Stage: StageGraph, Err: err}
	}
	return script, g, order, nil
}

// resolveOutput applies the OUT_DIR redirection to relative output paths
func resolveOutput(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if dir := os.Getenv("OUT_DIR"); dir != "" {
		return filepath.Join(dir, path)
	}
	return path
}
