package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/pkg/cfg"
)

// MethodsOutput represents the output of the methods command
type MethodsOutput struct {
	File    string           `json:"file"`
	Methods []cfg.MethodInfo `json:"methods"`
}

// methodsCmd represents the methods command
var methodsCmd = &cobra.Command{
	Use:   "methods <file>",
	Short: "List the analyzable methods of a Java file",
	Long: `Lists the methods and constructors declared in a Java source file,
with their declaration line and parameters.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filePath := args[0]

		if err := ensureJavaFile(filePath); err != nil {
			return err
		}

		conf, err := loadConfig()
		if err != nil {
			return err
		}

		methods, err := cfg.ListJavaMethods(filePath)
		if err != nil {
			return fmt.Errorf("listing methods: %w", err)
		}

		output := MethodsOutput{File: filePath, Methods: methods}

		if wantJSON(cmd, conf) {
			data, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printMethods(output)
		return nil
	},
}

// ensureJavaFile checks that the path is an existing .java file.
func ensureJavaFile(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected a file: %s", filePath)
	}
	if !isJavaFile(filePath) {
		return fmt.Errorf("unsupported file type: %s (only .java files supported)", filePath)
	}
	return nil
}

// isJavaFile checks if the file has a .java extension.
func isJavaFile(filePath string) bool {
	return strings.EqualFold(filepath.Ext(filePath), ".java")
}

// printMethods prints the method list in human-readable format.
func printMethods(output MethodsOutput) {
	fmt.Printf("=== Methods in %s ===\n", output.File)
	if len(output.Methods) == 0 {
		fmt.Println("No methods found.")
		return
	}
	for _, m := range output.Methods {
		fmt.Printf("  %s(%s)  line %d\n", m.Name, strings.Join(m.Params, ", "), m.Line)
	}
}

func init() {
	methodsCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
