package emit

import "fmt"

// EmissionIO reports a failure writing the SQL or DOT output file
type EmissionIO struct {
	Path  string
	Cause error
}

func (e *EmissionIO) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Cause)
}

func (e *EmissionIO) Unwrap() error { return e.Cause }
