package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/shear/internal/project"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize shear configuration in the current directory",
	Long: `Create a .shear directory holding tool settings, the parse cache,
and the search index. Commands work without one, using defaults, but the
cache and index need a project root to live in.`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			exitError("%v", err)
		}

		p, err := project.Initialize(cwd)
		if err != nil {
			exitError("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]string{
				"root":     p.RootPath,
				"settings": p.GetSettingsPath(),
			})
			return
		}
		fmt.Printf("Initialized %s\n", p.GetShearPath())
	},
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active project and its settings",
	Run: func(cmd *cobra.Command, args []string) {
		p, err := project.EnsureActive()
		if err != nil {
			exitError("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"root":     p.RootPath,
				"settings": p.Settings,
			})
			return
		}
		fmt.Printf("Root: %s\n", p.RootPath)
		fmt.Printf("Max file lines: %d\n", p.Settings.MaxFileLines)
		fmt.Printf("Max tree depth: %d\n", p.Settings.MaxDepth)
		fmt.Printf("Cache enabled: %t\n", p.Settings.CacheOn())
		if p.Settings.AnalyzerPath != "" {
			fmt.Printf("Semantic analyzer: %s\n", p.Settings.AnalyzerPath)
		}
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
}
