package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/internal/config"
	"github.com/l3aro/go-dataflow/internal/log"
	"github.com/l3aro/go-dataflow/internal/scanner"
	"github.com/l3aro/go-dataflow/pkg/analysis"
	"github.com/l3aro/go-dataflow/pkg/cache"
	"github.com/l3aro/go-dataflow/pkg/cfg"
	"github.com/l3aro/go-dataflow/pkg/dirty"
)

// DeadSite is one reported dead statement.
type DeadSite struct {
	File   string `json:"file,omitempty"`
	Method string `json:"method"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Kind   string `json:"kind"`
}

// DeadcodeOutput represents the output of the deadcode command
type DeadcodeOutput struct {
	Path     string       `json:"path"`
	Files    int          `json:"files"`
	Methods  int          `json:"methods"`
	Findings []DeadSite   `json:"findings"`
	Cache    *cache.Stats `json:"cache,omitempty"`
}

// deadcodeCmd represents the deadcode command
var deadcodeCmd = &cobra.Command{
	Use:   "deadcode <path> [method]",
	Short: "Report unreachable code and dead assignments",
	Long: `Runs constant propagation and live variable analysis over Java
method bodies and reports statements that can be removed: code made
unreachable by constant branch conditions, and assignments whose
value is never read afterwards.

With a file argument analyzes every method of that file, or just the
named one. With a directory argument (or --dir) scans the tree for
Java sources and analyzes all of them, serving unchanged files from
the report cache.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		conf, err := loadConfig()
		if err != nil {
			return err
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat path: %w", err)
		}

		dirFlag, _ := cmd.Flags().GetBool("dir")
		if info.IsDir() || dirFlag {
			if !info.IsDir() {
				return fmt.Errorf("--dir requires a directory, got file: %s", path)
			}
			if len(args) > 1 {
				return fmt.Errorf("a method argument is not supported when scanning a directory")
			}
			return runDeadcodeDir(cmd, conf, path)
		}

		methodName := ""
		if len(args) > 1 {
			methodName = args[1]
		}
		return runDeadcodeFile(cmd, conf, path, methodName)
	},
}

func runDeadcodeFile(cmd *cobra.Command, conf *config.Config, filePath, methodName string) error {
	if err := ensureJavaFile(filePath); err != nil {
		return err
	}

	runner := analysis.Runner{MaxSolverVisits: conf.MaxSolverVisits}

	var reports []*analysis.Report
	if methodName != "" {
		rep, err := runner.AnalyzeFile(filePath, methodName)
		if err != nil {
			if isMethodNotFoundError(err) {
				return methodNotFoundError(filePath, methodName)
			}
			return fmt.Errorf("analyzing: %w", err)
		}
		reports = []*analysis.Report{rep}
	} else {
		var err error
		reports, err = runner.AnalyzeFileAll(filePath)
		if err != nil {
			return fmt.Errorf("analyzing: %w", err)
		}
	}

	output := DeadcodeOutput{Path: filePath, Files: 1}
	for _, rep := range reports {
		output.Methods++
		output.Findings = append(output.Findings, deadSites("", rep)...)
	}

	printDeadcodeOutput(output, cmd, conf)
	return nil
}

func runDeadcodeDir(cmd *cobra.Command, conf *config.Config, root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("getting absolute path: %w", err)
	}

	logger := newLogger(cmd, conf)
	runner := analysis.Runner{MaxSolverVisits: conf.MaxSolverVisits}

	opts := scanner.DefaultOptions()
	opts.Excludes = append(opts.Excludes, conf.Exclude...)
	files, err := scanner.ScanWithOptions(absRoot, opts)
	if err != nil {
		return fmt.Errorf("scanning project: %w", err)
	}

	var (
		c         *cache.LRUCache
		tracker   *dirty.Tracker
		cachePath string
	)
	if conf.CacheEnabled {
		c, tracker, cachePath = openCache(conf, logger)
	}

	output := DeadcodeOutput{Path: absRoot}
	for _, f := range files {
		reports, err := analyzeFileCached(runner, c, tracker, f.FullPath)
		if err != nil {
			logger.Warn("skipping file", "path", f.Path, "error", err)
			continue
		}
		output.Files++
		for _, rep := range reports {
			output.Methods++
			output.Findings = append(output.Findings, deadSites(f.Path, rep)...)
		}
		logger.Debug("analyzed", "path", f.Path, "methods", len(reports))
	}

	if c != nil {
		if err := cache.PersistToFile(c, cachePath); err != nil {
			logger.Warn("failed to persist report cache", "error", err)
		}
		if err := tracker.Save(); err != nil {
			logger.Warn("failed to save hash state", "error", err)
		}
		stats := c.Stats()
		output.Cache = &stats
	}

	printDeadcodeOutput(output, cmd, conf)
	return nil
}

// openCache loads the persisted report cache and hash state, falling
// back to empty ones when either is unreadable.
func openCache(conf *config.Config, logger log.Logger) (*cache.LRUCache, *dirty.Tracker, string) {
	c := cache.New(cache.Options{MaxEntries: conf.CacheMaxEntries})
	cachePath := filepath.Join(conf.CacheDir, cache.DefaultFile)
	if err := cache.LoadFromFile(c, cachePath); err != nil {
		logger.Warn("starting with an empty report cache", "path", cachePath, "error", err)
		c = cache.New(cache.Options{MaxEntries: conf.CacheMaxEntries})
	}

	tracker, err := dirty.NewFromCache(dirty.WithCacheDir(conf.CacheDir))
	if err != nil {
		logger.Warn("starting with empty hash state", "error", err)
		tracker = dirty.New(dirty.WithCacheDir(conf.CacheDir))
	}

	return c, tracker, cachePath
}

// analyzeFileCached analyzes every method of a file, serving reports
// from the cache when the content hash matches. Cache and tracker may
// be nil, in which case every method is analyzed fresh.
func analyzeFileCached(runner analysis.Runner, c *cache.LRUCache, tracker *dirty.Tracker, fullPath string) ([]*analysis.Report, error) {
	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	hash := dirty.HashBytes(content)

	if tracker != nil {
		prior, tracked := tracker.Hash(fullPath)
		changed, err := tracker.CheckAndMark(fullPath)
		if err == nil && changed && tracked && prior != hash && c != nil {
			c.InvalidateHash(prior)
		}
	}

	methods := cfg.ListJavaMethodsSource(content)
	reports := make([]*analysis.Report, 0, len(methods))
	seen := make(map[string]bool, len(methods))
	for _, m := range methods {
		// overloads share a name and resolve to the first declaration
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		key := cache.Key(hash, m.Name)
		if c != nil {
			if rep, ok := c.Get(key); ok {
				reports = append(reports, rep)
				continue
			}
		}

		rep, err := runner.AnalyzeSource(content, m.Name)
		if errors.Is(err, cfg.ErrNoBody) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", m.Name, err)
		}
		rep.File = fullPath

		if c != nil {
			c.Set(key, hash, rep)
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// deadSites flattens a report's findings for output.
func deadSites(file string, rep *analysis.Report) []DeadSite {
	sites := make([]DeadSite, 0, len(rep.Dead))
	for _, f := range rep.Dead {
		sites = append(sites, DeadSite{
			File:   file,
			Method: rep.Method,
			Line:   f.Line,
			Text:   f.Text,
			Kind:   f.Kind,
		})
	}
	return sites
}

func printDeadcodeOutput(output DeadcodeOutput, cmd *cobra.Command, conf *config.Config) {
	if wantJSON(cmd, conf) {
		if output.Findings == nil {
			output.Findings = []DeadSite{}
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling JSON: %v\n", err)
			return
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("=== Dead code: %s ===\n\n", output.Path)

	if len(output.Findings) == 0 {
		fmt.Println("No dead code found.")
	} else {
		currentFile := ""
		for _, site := range output.Findings {
			indent := ""
			if site.File != "" {
				if site.File != currentFile {
					currentFile = site.File
					fmt.Printf("%s:\n", currentFile)
				}
				indent = "  "
			}
			fmt.Printf("%sline %d [%s] %s  (%s)\n", indent, site.Line, site.Kind, site.Text, site.Method)
		}
	}

	fmt.Printf("\n%d findings in %d methods", len(output.Findings), output.Methods)
	if output.Files > 1 {
		fmt.Printf(" across %d files", output.Files)
	}
	fmt.Println()

	if output.Cache != nil {
		fmt.Printf("Cache: %d hits, %d misses, %d entries\n",
			output.Cache.Hits, output.Cache.Misses, output.Cache.Entries)
	}
}

func init() {
	deadcodeCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	deadcodeCmd.Flags().Bool("dir", false, "Treat the path as a project directory to scan")
}
