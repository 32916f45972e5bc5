package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pgrxgen/pgrxgen/internal/logger"
)

// String renders the full install script. Format is fixed: a version
// header, one comment-prefixed group per step, a trailing end marker.
func (s *Script) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "-- pgrx-generated, version %s\n", s.Version)

	for _, step := range s.Steps {
		b.WriteString("\n")
		fmt.Fprintf(&b, "-- %s\n", step.Loc)
		fmt.Fprintf(&b, "-- %s\n", step.Path)
		b.WriteString(step.SQL)
		if !strings.HasSuffix(step.SQL, "\n") {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n-- end\n")
	return b.String()
}

// WriteFileAtomic writes contents to path through a temp file in the
// destination directory, fsyncs, then renames into place. A failed run
// never leaves a partial output file.
func WriteFileAtomic(path, contents string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &EmissionIO{Path: path, Cause: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(contents); err != nil {
		tmp.Close()
		return &EmissionIO{Path: path, Cause: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &EmissionIO{Path: path, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return &EmissionIO{Path: path, Cause: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &EmissionIO{Path: path, Cause: err}
	}

	logger.Get().Debug("wrote output file", "path", path, "bytes", len(contents))
	return nil
}
