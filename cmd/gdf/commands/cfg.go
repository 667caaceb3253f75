package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/pkg/cfg"
)

// cfgCmd represents the cfg command
var cfgCmd = &cobra.Command{
	Use:   "cfg <file> <method>",
	Short: "Print the control flow graph of a method",
	Long: `Lowers the named method's body to the statement-level control flow
graph the analyses run on, and prints its nodes and edges.`,
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

		g, err := cfg.ExtractJavaCFG(filePath, methodName)
		if err != nil {
			if isMethodNotFoundError(err) {
				return methodNotFoundError(filePath, methodName)
			}
			return fmt.Errorf("extracting CFG: %w", err)
		}

		summary := cfg.Summarize(g)

		if wantJSON(cmd, conf) {
			data, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printCFGSummary(summary)
		return nil
	},
}

// isMethodNotFoundError checks if the error indicates the method was
// not found.
func isMethodNotFoundError(err error) bool {
	return strings.Contains(err.Error(), "not found")
}

// methodNotFoundError builds a not-found error, suggesting a similar
// method name when one exists.
func methodNotFoundError(filePath, methodName string) error {
	suggestions := findSimilarMethods(filePath, methodName)
	if len(suggestions) > 0 {
		return fmt.Errorf("method %q not found in %s\nDid you mean: %s?", methodName, filePath, suggestions[0])
	}
	return fmt.Errorf("method %q not found in %s", methodName, filePath)
}

// findSimilarMethods finds declared methods with similar names, by
// case-insensitive and substring match.
func findSimilarMethods(filePath, methodName string) []string {
	methods, err := cfg.ListJavaMethods(filePath)
	if err != nil {
		return nil
	}

	var similar []string
	lower := strings.ToLower(methodName)
	for _, m := range methods {
		candidate := strings.ToLower(m.Name)
		if candidate == lower || strings.Contains(candidate, lower) || strings.Contains(lower, candidate) {
			similar = append(similar, m.Name)
		}
	}
	return similar
}

// printCFGSummary prints the graph in human-readable format.
func printCFGSummary(s *cfg.Summary) {
	fmt.Printf("=== CFG for method: %s ===\n", s.Method)
	if len(s.Params) > 0 {
		fmt.Printf("Params: %s\n", strings.Join(s.Params, ", "))
	}
	fmt.Printf("Entry: %d\n", s.Entry)
	fmt.Printf("Exit: %d\n", s.Exit)

	fmt.Printf("\nNodes (%d):\n", len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Line > 0 {
			fmt.Printf("  [%d] %s (line %d)\n", n.Index, n.Text, n.Line)
		} else {
			fmt.Printf("  [%d] %s\n", n.Index, n.Text)
		}
	}

	fmt.Printf("\nEdges (%d):\n", len(s.Edges))
	for _, e := range s.Edges {
		label := string(e.Kind)
		if e.CaseValue != nil {
			label = fmt.Sprintf("case %d", *e.CaseValue)
		}
		fmt.Printf("  %d --%s--> %d\n", e.Source, label, e.Target)
	}
}

func init() {
	cfgCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
