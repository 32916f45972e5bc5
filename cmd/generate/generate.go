package generate

import (
	"fmt"

	"github.com/pgrxgen/pgrxgen"
	"github.com/spf13/cobra"
)

var (
	shlib  string
	output string
	dot    string
	lint   bool
)

var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the SQL install script",
	Long: "Collect entity descriptors from the compiled extension artifact, " +
		"order them by dependency, and write the SQL install script. " +
		"The artifact is a shared library with an embedded schema section " +
		"or a standalone descriptor bundle file.",
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().StringVar(&shlib, "shlib", "", "Path to the compiled extension artifact (required)")
	GenerateCmd.Flags().StringVar(&output, "output", "", "SQL output path (required; OUT_DIR redirects relative paths)")
	GenerateCmd.Flags().StringVar(&dot, "dot", "", "Optional GraphViz output path")
	GenerateCmd.Flags().BoolVar(&lint, "lint", false, "Parse every generated statement before writing")
	GenerateCmd.MarkFlagRequired("shlib")
	GenerateCmd.MarkFlagRequired("output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	client := pgrxgen.NewClient()
	path, err := client.Generate(pgrxgen.GenerateOptions{
		Artifact: shlib,
		Output:   output,
		Dot:      dot,
		Lint:     lint,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
