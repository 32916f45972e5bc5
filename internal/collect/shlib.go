package collect

import (
	"debug/elf"
	"errors"
	"fmt"
	"os"

	"github.com/pgrxgen/pgrxgen/internal/logger"
)

// SchemaSection is the named section of the extension shared library the
// build step deposits the descriptor bundle into. Enumerating the section
// lets the generator collect descriptors without executing extension code.
const SchemaSection = ".pgrx_schema"

// CollectSharedLibrary reads the descriptor bundle embedded in the
// extension's compiled shared library
func CollectSharedLibrary(path string) (*Set, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shared library %s: %w", path, err)
	}
	defer f.Close()

	section := f.Section(SchemaSection)
	if section == nil {
		return nil, fmt.Errorf("shared library %s has no %s section; was it built with schema generation enabled?", path, SchemaSection)
	}

	data, err := section.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s section of %s: %w", SchemaSection, path, err)
	}

	logger.Get().Debug("read schema section", "shlib", path, "bytes", len(data))
	return DecodeBundle(data)
}

// CollectArtifact collects descriptors from a compiled extension artifact:
// a shared library with an embedded schema section, or a standalone bundle
// file produced by the build step
func CollectArtifact(path string) (*Set, error) {
	set, elfErr := CollectSharedLibrary(path)
	if elfErr == nil {
		return set, nil
	}
	var formatErr *elf.FormatError
	if !errors.As(elfErr, &formatErr) {
		return nil, elfErr
	}

	// Not an ELF object: treat it as a standalone bundle file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	set, err = DecodeBundle(data)
	if err != nil {
		return nil, fmt.Errorf("artifact %s is neither a shared library (%v) nor a bundle: %w", path, elfErr, err)
	}
	return set, nil
}
