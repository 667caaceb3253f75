package commands

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/pkg/analysis"
)

// ConstantsOutput represents the output of the constants command
type ConstantsOutput struct {
	File       string               `json:"file"`
	Method     string               `json:"method"`
	Statements []analysis.StmtFacts `json:"statements"`
}

// constantsCmd represents the constants command
var constantsCmd = &cobra.Command{
	Use:   "constants <file> <method>",
	Short: "Show constant propagation facts per statement",
	Long: `Runs constant propagation over the named method and prints the
converged variable facts before and after each statement. A variable
maps to its value when provably constant, to NAC when it may hold
more than one value.`,
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

		output := ConstantsOutput{
			File:       filePath,
			Method:     rep.Method,
			Statements: rep.Constants,
		}

		if wantJSON(cmd, conf) {
			data, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printConstants(output)
		return nil
	},
}

// printConstants prints the constant facts in human-readable format.
func printConstants(output ConstantsOutput) {
	fmt.Printf("=== Constants in %s: %s ===\n", output.File, output.Method)
	for _, s := range output.Statements {
		if s.Line > 0 {
			fmt.Printf("[%d] %s (line %d)\n", s.Index, s.Text, s.Line)
		} else {
			fmt.Printf("[%d] %s\n", s.Index, s.Text)
		}
		fmt.Printf("  in:  %s\n", formatFactMap(s.In))
		fmt.Printf("  out: %s\n", formatFactMap(s.Out))
	}
}

// formatFactMap renders a variable-to-value map with sorted keys.
func formatFactMap(facts map[string]string) string {
	if len(facts) == 0 {
		return "{}"
	}
	names := make([]string, 0, len(facts))
	for name := range facts {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("%s=%s", name, facts[name]))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func init() {
	constantsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
