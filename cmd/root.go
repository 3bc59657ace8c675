package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/shear/internal/analyzer"
	"github.com/ihavespoons/shear/internal/cache"
	"github.com/ihavespoons/shear/internal/project"
)

var (
	// Global flags
	jsonOutput bool
	verbose    bool
	mode       string
	noCache    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shear",
	Short: "Split and query large C# classes",
	Long: `shear lexically analyzes C# source files and splits oversized classes
into partial-class files grouped by method name.

It provides structured tooling for:
- Listing classes and methods in a source file
- Extracting method bodies
- Dependency trees, reverse callers, and method statistics
- Config-driven partial-class splitting with a generated core file
- Full-text search across parsed method bodies

Use 'shear init' to set up tool configuration, then point any command at a
.cs file. All commands output JSON when --json is provided.`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", "auto", "Analysis mode: auto, semantic, or lexical")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Skip the persistent parse cache")
}

// newAnalyzer builds the analyzer front end from the active project settings
// and the global flags.
func newAnalyzer() *analyzer.Analyzer {
	p, err := project.EnsureActive()
	if err != nil {
		exitError("%v", err)
	}

	opts := analyzer.Options{
		Mode:         analyzer.Mode(mode),
		AnalyzerPath: p.Settings.AnalyzerPath,
		MaxFileLines: p.Settings.MaxFileLines,
	}

	if !noCache && p.Settings.CacheOn() {
		store, err := cache.NewStore(filepath.Join(p.GetCachePath(), "parse.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: parse cache unavailable: %v\n", err)
		} else {
			opts.Store = store
		}
	}

	return analyzer.New(opts)
}

// outputJSON outputs data as JSON
func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// exitError prints an error message and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// exitErrorJSON outputs an error in JSON format if --json flag is set
func exitErrorJSON(err error) {
	if jsonOutput {
		outputJSON(map[string]string{"error": err.Error()})
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
