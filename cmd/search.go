package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/shear/internal/index"
	"github.com/ihavespoons/shear/internal/parser"
	"github.com/ihavespoons/shear/internal/project"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search across indexed method bodies",
	Long: `Search the full-text index of method bodies built by 'shear index'.

Use --class to restrict hits to a single class.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := project.EnsureActive()
		if err != nil {
			exitError("%v", err)
		}

		idx, err := index.NewSearchIndex(p.GetIndexPath())
		if err != nil {
			exitErrorJSON(err)
		}
		defer func() { _ = idx.Close() }()

		limit, _ := cmd.Flags().GetInt("limit")
		className, _ := cmd.Flags().GetString("class")

		var results []index.SearchResult
		if className != "" {
			results, err = idx.SearchInClass(args[0], className, limit)
		} else {
			results, err = idx.Search(args[0], limit)
		}
		if err != nil {
			exitErrorJSON(err)
		}

		if jsonOutput {
			if err := outputJSON(results); err != nil {
				exitError("failed to encode JSON: %v", err)
			}
			return
		}
		if len(results) == 0 {
			fmt.Println("No results")
			return
		}
		for _, r := range results {
			fmt.Printf("%s.%s  %s  (%.2f)\n", r.ClassName, r.Name, r.File, r.Score)
			if verbose && r.Snippet != "" {
				fmt.Printf("  %s\n", r.Snippet)
			}
		}
	},
}

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index <file> [file2 ...]",
	Short: "Index source files for full-text search",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := project.EnsureActive()
		if err != nil {
			exitError("%v", err)
		}

		idx, err := index.NewSearchIndex(p.GetIndexPath())
		if err != nil {
			exitErrorJSON(err)
		}
		defer func() { _ = idx.Close() }()

		indexed := 0
		for _, file := range args {
			doc, err := parser.ParseFile(file)
			if err != nil {
				exitErrorJSON(fmt.Errorf("%s: %w", file, err))
			}
			if err := idx.IndexDocument(doc); err != nil {
				exitErrorJSON(fmt.Errorf("%s: %w", file, err))
			}
			indexed++
			if verbose {
				fmt.Printf("Indexed %s\n", file)
			}
		}

		count, _ := idx.DocCount()
		if jsonOutput {
			outputJSON(map[string]interface{}{
				"files_indexed": indexed,
				"total_methods": count,
			})
			return
		}
		fmt.Printf("Indexed %d file(s), %d method(s) total\n", indexed, count)
	},
}

func init() {
	searchCmd.Flags().Int("limit", 20, "Maximum number of results")
	searchCmd.Flags().String("class", "", "Restrict results to one class")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(indexCmd)
}
