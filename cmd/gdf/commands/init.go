package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-dataflow/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gdf configuration interactively",
	Long: `Guides you through setting up gdf configuration step by step.
Creates a config file with output, logging and cache settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	// === SECTION 1: Output ===
	outputFormat := string(config.OutputText)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output format").
				Description("Default format for command output").
				Options(
					huh.NewOption("Text", string(config.OutputText)),
					huh.NewOption("JSON", string(config.OutputJSON)),
				).
				Value(&outputFormat),
		),
	)
	err := form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	logLevel := "info"
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Description("Messages below this level are suppressed").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&logLevel),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	// === SECTION 2: Report Cache ===
	cacheEnabled := true
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Report cache").
				Description("Cache analysis reports so unchanged files are not re-analyzed?").
				Affirmative("Enable").
				Negative("Disable").
				Value(&cacheEnabled),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	cacheDir := config.DefaultConfig().CacheDir
	maxEntriesText := strconv.Itoa(config.DefaultConfig().CacheMaxEntries)
	if cacheEnabled {
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Cache directory").
					Placeholder(cacheDir).
					Value(&cacheDir),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}

		form = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Maximum cached reports").
					Description("Least recently used reports are evicted past this count").
					Placeholder(maxEntriesText).
					Value(&maxEntriesText),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
	}

	// === SECTION 3: Config Location ===
	var saveLocationChoice string
	form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Global (~/.gdf/config.yaml)", "global"),
					huh.NewOption("Project (./.gdf/config.yaml)", "project"),
				).
				Value(&saveLocationChoice),
		),
	)
	err = form.Run()
	if err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	var configPath string
	if saveLocationChoice == "global" {
		configPath = config.GlobalPath()
	} else {
		configPath = config.ProjectPath()
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Config file exists").
					Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
					Affirmative("Overwrite").
					Negative("Cancel").
					Value(&overwrite),
			),
		)
		err = form.Run()
		if err != nil {
			return fmt.Errorf("interactive prompt failed: %w", err)
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// === Build config struct ===
	maxEntries, err := strconv.Atoi(maxEntriesText)
	if err != nil {
		return fmt.Errorf("invalid maximum cached reports: %q", maxEntriesText)
	}

	conf := config.DefaultConfig()
	conf.OutputFormat = config.OutputFormat(outputFormat)
	conf.LogLevel = logLevel
	conf.CacheEnabled = cacheEnabled
	conf.CacheDir = cacheDir
	conf.CacheMaxEntries = maxEntries

	// Validate config before saving
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Show config preview
	fmt.Println("\n=== Configuration Preview ===")
	fmt.Printf("Config path: %s\n", configPath)
	fmt.Printf("Output format: %s\n", conf.OutputFormat)
	fmt.Printf("Log level: %s\n", conf.LogLevel)
	if conf.CacheEnabled {
		fmt.Printf("Cache: enabled (%s, up to %d reports)\n", conf.CacheDir, conf.CacheMaxEntries)
	} else {
		fmt.Println("Cache: disabled")
	}
	fmt.Println("=============================")

	// Save config
	if err := conf.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("Configuration saved to: %s\n", configPath)
	fmt.Println("\nRun 'gdf doctor' to verify the setup.")
	return nil
}

func init() {
	RootCmd.AddCommand(initCmd)
}
