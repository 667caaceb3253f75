package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/internal/config"
	"github.com/l3aro/go-dataflow/pkg/cache"
	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/dirty"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, parser and cache health",
	Long: `Verifies that a configuration file exists and is valid, that the
Java parser can lower a method body, and that the cache directory
is usable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, configPath, scope, err := loadConfigWithPath()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fmt.Printf("Using config: %s (%s)\n\n", configPath, scope)

		healthy := true

		fmt.Println("Configuration:")
		fmt.Printf("  Status: %s valid\n", formatStatusIcon(true))
		fmt.Printf("  Output format: %s\n", conf.OutputFormat)
		fmt.Printf("  Log level: %s\n", conf.LogLevel)
		if conf.MaxSolverVisits > 0 {
			fmt.Printf("  Solver visit cap: %d\n", conf.MaxSolverVisits)
		} else {
			fmt.Println("  Solver visit cap: none")
		}

		fmt.Println("\nJava parser:")
		if err := checkParser(); err != nil {
			fmt.Printf("  Status: %s %v\n", formatStatusIcon(false), err)
			healthy = false
		} else {
			fmt.Printf("  Status: %s ready\n", formatStatusIcon(true))
		}

		fmt.Println("\nReport cache:")
		if !conf.CacheEnabled {
			fmt.Println("  Status: disabled")
		} else if err := checkCacheDir(conf.CacheDir); err != nil {
			fmt.Printf("  Status: %s %v\n", formatStatusIcon(false), err)
			healthy = false
		} else {
			fmt.Printf("  Status: %s writable\n", formatStatusIcon(true))
			fmt.Printf("  Directory: %s\n", conf.CacheDir)
			fmt.Printf("  Cached reports: %d\n", countCachedReports(conf.CacheDir))
			fmt.Printf("  Tracked files: %d\n", countTrackedFiles(conf.CacheDir))
		}

		if !healthy {
			return fmt.Errorf("health check failed")
		}
		return nil
	},
}

// loadConfigWithPath loads the nearest config file, project before
// global, and reports which one was used.
func loadConfigWithPath() (*config.Config, string, string, error) {
	projectPath := config.ProjectPath()
	globalPath := config.GlobalPath()

	var effectivePath, scope string
	switch {
	case fileExists(projectPath):
		effectivePath, scope = projectPath, "project"
	case fileExists(globalPath):
		effectivePath, scope = globalPath, "global"
	default:
		return nil, "", "", fmt.Errorf("no configuration found\n"+
			"Checked paths:\n"+
			"  - %s (project)\n"+
			"  - %s (global)\n"+
			"Run 'gdf init' to create a configuration file",
			projectPath, globalPath)
	}

	conf, err := config.LoadFromFile(effectivePath)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to load config from %s: %w", effectivePath, err)
	}

	return conf, effectivePath, scope, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// checkParser lowers a probe method to verify the grammar is wired.
func checkParser() error {
	probe := []byte("class Probe { int probe(int a) { int x = a + 1; return x; } }")
	g, err := cfg.ExtractJavaCFGSource(probe, "probe")
	if err != nil {
		return fmt.Errorf("cannot lower probe method: %w", err)
	}
	if g.Size() < 4 {
		return fmt.Errorf("probe method lowered to %d statements", g.Size())
	}
	return nil
}

// checkCacheDir verifies the cache directory can be written to.
func checkCacheDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create cache directory: %w", err)
	}
	probe, err := os.CreateTemp(dir, ".gdf-probe-*")
	if err != nil {
		return fmt.Errorf("cache directory is not writable: %w", err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}

func countCachedReports(dir string) int {
	c := cache.New(cache.Options{})
	if err := cache.LoadFromFile(c, filepath.Join(dir, cache.DefaultFile)); err != nil {
		return 0
	}
	return c.Len()
}

func countTrackedFiles(dir string) int {
	tracker, err := dirty.NewFromCache(dirty.WithCacheDir(dir))
	if err != nil {
		return 0
	}
	return tracker.TotalCount()
}

func formatStatusIcon(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
