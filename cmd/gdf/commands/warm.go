package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/internal/config"
	"github.com/l3aro/go-dataflow/internal/log"
	"github.com/l3aro/go-dataflow/internal/scanner"
	"github.com/l3aro/go-dataflow/pkg/analysis"
	"github.com/l3aro/go-dataflow/pkg/cache"
)

// WarmOutput represents the output of the warm command
type WarmOutput struct {
	RootDir       string       `json:"root_dir"`
	Success       bool         `json:"success"`
	FilesScanned  int          `json:"files_scanned"`
	FilesFailed   int          `json:"files_failed,omitempty"`
	MethodsCached int          `json:"methods_cached"`
	CacheDir      string       `json:"cache_dir"`
	Message       string       `json:"message"`
	Stats         *cache.Stats `json:"stats,omitempty"`
}

// warmCmd represents the warm command
var warmCmd = &cobra.Command{
	Use:   "warm [path]",
	Short: "Pre-analyze a project into the report cache",
	Long: `Scans the project for Java sources, runs the full analysis on every
method body and stores the reports in the cache, so later deadcode
runs on unchanged files are served from disk.`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("getting absolute path: %w", err)
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return fmt.Errorf("stat path: %w", err)
		}

		rootDir := absPath
		if !info.IsDir() {
			rootDir = filepath.Dir(absPath)
		}

		conf, err := loadConfig()
		if err != nil {
			return err
		}
		if !conf.CacheEnabled {
			return fmt.Errorf("the report cache is disabled; set cache_enabled in the config or run 'gdf init'")
		}

		logger := newLogger(cmd, conf)
		runner := analysis.Runner{MaxSolverVisits: conf.MaxSolverVisits}

		opts := scanner.DefaultOptions()
		opts.Excludes = append(opts.Excludes, conf.Exclude...)
		files, err := scanner.ScanWithOptions(rootDir, opts)
		if err != nil {
			return fmt.Errorf("scanning project: %w", err)
		}

		c, tracker, cachePath := openCache(conf, logger)

		jsonOut := wantJSON(cmd, conf)
		var spinner *log.ProgressSpinner
		if !jsonOut {
			spinner = log.NewProgressSpinner(fmt.Sprintf("Analyzing %d files", len(files)))
			spinner.Start()
		}

		methodsCached := 0
		failed := 0
		for i, f := range files {
			if spinner != nil {
				spinner.Message(fmt.Sprintf("Analyzing %s (%d/%d)", f.Path, i+1, len(files)))
			}
			reports, err := analyzeFileCached(runner, c, tracker, f.FullPath)
			if err != nil {
				failed++
				logger.Debug("skipping file", "path", f.Path, "error", err)
				continue
			}
			methodsCached += len(reports)
		}

		if spinner != nil {
			spinner.Stop()
		}

		if err := cache.PersistToFile(c, cachePath); err != nil {
			return fmt.Errorf("persisting cache: %w", err)
		}
		if err := tracker.Save(); err != nil {
			return fmt.Errorf("saving hash state: %w", err)
		}

		stats := c.Stats()
		message := fmt.Sprintf("Cached reports for %d methods", methodsCached)
		if failed > 0 {
			message = fmt.Sprintf("%s (%d files could not be analyzed)", message, failed)
		}

		output := WarmOutput{
			RootDir:       rootDir,
			Success:       true,
			FilesScanned:  len(files),
			FilesFailed:   failed,
			MethodsCached: methodsCached,
			CacheDir:      conf.CacheDir,
			Message:       message,
			Stats:         &stats,
		}
		printWarmOutput(output, cmd, conf)
		return nil
	},
}

func printWarmOutput(output WarmOutput, cmd *cobra.Command, conf *config.Config) {
	if wantJSON(cmd, conf) {
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling JSON: %v\n", err)
			return
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("=== Report cache: %s ===\n\n", output.RootDir)

	if output.Success {
		fmt.Println("Status: Success")
		fmt.Printf("Files scanned: %d\n", output.FilesScanned)
		fmt.Printf("Methods cached: %d\n", output.MethodsCached)
		fmt.Printf("Cache directory: %s\n", output.CacheDir)
		if output.Stats != nil {
			fmt.Printf("Cache entries: %d (%d reused, %d computed)\n",
				output.Stats.Entries, output.Stats.Hits, output.Stats.Misses)
		}
	} else {
		fmt.Println("Status: Failed")
	}

	if output.Message != "" {
		fmt.Printf("\n%s\n", output.Message)
	}
}

func init() {
	warmCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}
