package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/pgrxgen/pgrxgen"
	"github.com/pgrxgen/pgrxgen/cmd/generate"
	"github.com/pgrxgen/pgrxgen/cmd/validate"
	"github.com/pgrxgen/pgrxgen/internal/color"
	"github.com/pgrxgen/pgrxgen/internal/logger"
	"github.com/pgrxgen/pgrxgen/internal/version"
	"github.com/spf13/cobra"
)

var Debug bool
var NoColor bool

// Build-time variables set via ldflags
var (
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var RootCmd = &cobra.Command{
	Use:   "pgrxgen",
	Short: "PostgreSQL extension SQL schema generator",
	Long: fmt.Sprintf(`pgrxgen generates the SQL install script of a compiled
PostgreSQL extension from the entity descriptors embedded in its artifact.

Version: %s@%s %s %s

Commands:
  generate  Generate the SQL install script
  validate  Run the pipeline without writing output

Use "pgrxgen [command] --help" for more information about a command.`,
		version.App(), GitCommit, platform(), BuildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "Enable debug logging")
	RootCmd.PersistentFlags().BoolVar(&NoColor, "no-color", false, "Disable colored diagnostics")
	RootCmd.AddCommand(generate.GenerateCmd)
	RootCmd.AddCommand(validate.ValidateCmd)
}

func setupLogger() {
	level := slog.LevelInfo
	if Debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger.SetGlobal(slog.New(handler), Debug)
}

// platform returns the OS/architecture combination
func platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		c := color.New(!NoColor)
		fmt.Fprintln(os.Stderr, c.Error("Error: ")+err.Error())

		var cycle *pgrxgen.CyclicDependency
		if errors.As(err, &cycle) {
			fmt.Fprint(os.Stderr, cycle.Dot())
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy onto the CLI exit codes: 1 for
// configuration errors, 2 collection, 3 graph, 4 ordering, 5 emission
func exitCode(err error) int {
	var stage *pgrxgen.StageError
	if !errors.As(err, &stage) {
		return 1
	}
	switch stage.Stage {
	case pgrxgen.StageCollect:
		return 2
	case pgrxgen.StageGraph:
		return 3
	case pgrxgen.StageOrder:
		return 4
	case pgrxgen.StageEmit:
		return 5
	}
	return 1
}
