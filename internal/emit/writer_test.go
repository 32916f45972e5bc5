package emit

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.sql")

	if err := WriteFileAtomic(path, "SELECT 1;\n"); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "SELECT 1;\n" {
		t.Errorf("content = %q", data)
	}

	// overwrite replaces the previous content whole
	if err := WriteFileAtomic(path, "SELECT 2;\n"); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "SELECT 2;\n" {
		t.Errorf("overwritten content = %q", data)
	}

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("dir holds %d entries after writes, want 1", len(entries))
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "out.sql"), "x")
	var ioErr *EmissionIO
	if !errors.As(err, &ioErr) {
		t.Fatalf("got %v, want EmissionIO", err)
	}
	if !strings.Contains(ioErr.Error(), "out.sql") {
		t.Errorf("error should name the path: %v", ioErr)
	}
}

func TestLint(t *testing.T) {
	good := &Script{Steps: []Step{
		{Path: "demo", SQL: "CREATE SCHEMA IF NOT EXISTS demo; /* demo */"},
		{Path: "demo::greet", SQL: `CREATE FUNCTION demo.greet("name" TEXT) RETURNS TEXT STRICT LANGUAGE c AS 'MODULE_PATHNAME', 'greet_wrapper';`},
	}}
	if err := Lint(good); err != nil {
		t.Errorf("valid script should lint clean: %v", err)
	}

	bad := &Script{Steps: []Step{
		{Path: "demo::broken", SQL: "CREATE BOGUS NONSENSE;"},
	}}
	if err := Lint(bad); err == nil {
		t.Error("malformed statement should fail lint")
	} else if !strings.Contains(err.Error(), "demo::broken") {
		t.Errorf("lint error should name the step: %v", err)
	}

	// raw user SQL is opaque to the linter
	raw := &Script{Steps: []Step{
		{Path: "extras", SQL: "this is not sql at all", Raw: true},
	}}
	if err := Lint(raw); err != nil {
		t.Errorf("raw steps must be skipped: %v", err)
	}
}
