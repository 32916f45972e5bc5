package validate

import (
	"fmt"

	"github.com/pgrxgen/pgrxgen"
	"github.com/spf13/cobra"
)

var shlib string

var ValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the pipeline without writing output",
	Long: "Collect, build, and order the entity graph with emission to memory, " +
		"then parse the rendered SQL. Surfaces the first error or reports success.",
	RunE: runValidate,
}

func init() {
	ValidateCmd.Flags().StringVar(&shlib, "shlib", "", "Path to the compiled extension artifact (required)")
	ValidateCmd.MarkFlagRequired("shlib")
}

func runValidate(cmd *cobra.Command, args []string) error {
	client := pgrxgen.NewClient()
	if err := client.Validate(pgrxgen.ValidateOptions{Artifact: shlib}); err != nil {
		return err
	}
	fmt.Println("Schema is valid")
	return nil
}
