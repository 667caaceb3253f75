package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/pkg/analysis"
)

// LivenessOutput represents the output of the liveness command
type LivenessOutput struct {
	File       string              `json:"file"`
	Method     string              `json:"method"`
	Statements []analysis.StmtLive `json:"statements"`
}

// livenessCmd represents the liveness command
var livenessCmd = &cobra.Command{
	Use:   "liveness <file> <method>",
	Short: "Show live variables per statement",
	Long: `Runs live variable analysis over the named method and prints, for
each statement, the variables whose values may still be read before
and after it executes.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]
		methodName := args[1]

		if err := ensureJavaFile(filePath); err != nil {
			return err
		}

		conf, err := loadConfig()
		if err != nil {
			return err
		}

		runner := analysis.Runner{MaxSolverVisits: conf.MaxSolverVisits}
		rep, err := runner.AnalyzeFile(filePath, methodName)
		if err != nil {
			if isMethodNotFoundError(err) {
				return methodNotFoundError(filePath, methodName)
			}
			return fmt.Errorf("analyzing: %w", err)
		}

		output := LivenessOutput{
			File:       filePath,
			Method:     rep.Method,
			Statements: rep.Liveness,
		}

		if wantJSON(cmd, conf) {
			data, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printLiveness(output)
		return nil
	},
}

// printLiveness prints the live sets in human-readable format.
func printLiveness(output LivenessOutput) {
	fmt.Printf("=== Liveness in %s: %s ===\n", output.File, output.Method)
	for _, s := range output.Statements {
		if s.Line > 0 {
			fmt.Printf("[%d] %s (line %d)\n", s.Index, s.Text, s.Line)
		} else {
			fmt.Printf("[%d] %s\n", s.Index, s.Text)
		}
		fmt.Printf("  in:  %s\n", formatLiveSet(s.In))
		fmt.Printf("  out: %s\n", formatLiveSet(s.Out))
	}
}

// formatLiveSet renders a live variable set, already sorted.
func formatLiveSet(names []string) string {
	if len(names) == 0 {
		return "[]"
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func init() {
	livenessCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
