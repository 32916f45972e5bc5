package pgrxgen

import "github.com/pgrxgen/pgrxgen/internal/collect"

// GenerateScript is a convenience function to generate the install script
// from a compiled extension artifact.
func GenerateScript(artifact, output string) (string, error) {
	client := NewClient()
	return client.Generate(GenerateOptions{
		Artifact: artifact,
		Output:   output,
	})
}

// GenerateFromRegistry is a convenience function to generate the install
// script from an in-process descriptor registry. Go-native extensions and
// tests use this path instead of a compiled artifact.
func GenerateFromRegistry(r *collect.Registry, output string) (string, error) {
	set, err := r.Collect()
	if err != nil {
		return "", &StageError{Stage: StageCollect, Err: err}
	}
	client := NewClient()
	return client.Generate(GenerateOptions{
		Set:    set,
		Output: output,
	})
}

// ValidateArtifact is a convenience function to run the pipeline over an
// artifact with emission suppressed.
func ValidateArtifact(artifact string) error {
	client := NewClient()
	return client.Validate(ValidateOptions{Artifact: artifact})
}
