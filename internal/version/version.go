package version

import "runtime"

// app is the pgrxgen release version. The generated SQL header embeds it,
// so installers can reject scripts produced by an incompatible generator.
const app = "0.4.0"

// Build-time variables set via ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App returns the current version of pgrxgen
func App() string {
	return app
}

// Platform returns the OS/architecture combination
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
