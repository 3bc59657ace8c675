package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/shear/internal/graph"
	"github.com/ihavespoons/shear/internal/project"
)

// depsCmd represents the deps command
var depsCmd = &cobra.Command{
	Use:   "deps <file> <method>",
	Short: "Show the dependency tree of a method",
	Long: `Build the call tree rooted at a method, following calls within the
same class up to --depth levels. Recursive calls are marked (circular),
calls into other classes or unknown names are marked (not found).`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := newAnalyzer()
		className, _ := cmd.Flags().GetString("class")
		depth, _ := cmd.Flags().GetInt("depth")
		if depth <= 0 {
			if p, err := project.EnsureActive(); err == nil {
				depth = p.Settings.MaxDepth
			}
		}

		tree, err := a.BuildDependencyTree(args[0], className, args[1], depth)
		if err != nil {
			exitErrorJSON(err)
		}

		if jsonOutput {
			if err := outputJSON(tree); err != nil {
				exitError("failed to encode JSON: %v", err)
			}
			return
		}
		printTree(tree, 0)
	},
}

// printTree renders a dependency tree as indented text
func printTree(n *graph.Node, indent int) {
	prefix := strings.Repeat("  ", indent)
	label := n.MethodName
	switch {
	case n.Circular:
		label += " (circular)"
	case !n.Found:
		label = n.ClassName + "." + n.MethodName + " (not found)"
	case n.LineCount > 0 && verbose:
		label += fmt.Sprintf(" (%d lines)", n.LineCount)
	}
	fmt.Printf("%s%s\n", prefix, label)
	for _, child := range n.Children {
		printTree(child, indent+1)
	}
}

// callersCmd represents the callers command
var callersCmd = &cobra.Command{
	Use:   "callers <file> <method>",
	Short: "Find the methods that call a method",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := newAnalyzer()
		className, _ := cmd.Flags().GetString("class")

		callers, err := a.FindMethodCallers(args[0], className, args[1])
		if err != nil {
			exitErrorJSON(err)
		}

		if jsonOutput {
			if err := outputJSON(callers); err != nil {
				exitError("failed to encode JSON: %v", err)
			}
			return
		}
		if len(callers) == 0 {
			fmt.Printf("No callers of %s found\n", args[1])
			return
		}
		for _, c := range callers {
			fmt.Println(c.Signature)
		}
	},
}

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats <file> <method>",
	Short: "Show aggregate statistics for a method",
	Long: `Show overload count, line counts, dependencies, and per-callee call
frequency aggregated across every overload of the method name.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := newAnalyzer()
		className, _ := cmd.Flags().GetString("class")

		stats, err := a.GetMethodStatistics(args[0], className, args[1])
		if err != nil {
			exitErrorJSON(err)
		}

		if jsonOutput {
			if err := outputJSON(stats); err != nil {
				exitError("failed to encode JSON: %v", err)
			}
			return
		}
		fmt.Printf("Method: %s\n", stats.MethodName)
		fmt.Printf("Overloads: %d\n", stats.OverloadCount)
		fmt.Printf("Total lines: %d\n", stats.TotalLines)
		fmt.Printf("Average lines: %.1f\n", stats.AverageLines)
		if len(stats.Dependencies) > 0 {
			fmt.Printf("Dependencies: %s\n", strings.Join(stats.Dependencies, ", "))
		}
		if len(stats.CallFrequency) > 0 {
			fmt.Println("Call frequency:")
			callees := make([]string, 0, len(stats.CallFrequency))
			for callee := range stats.CallFrequency {
				callees = append(callees, callee)
			}
			sort.Strings(callees)
			for _, callee := range callees {
				fmt.Printf("  %s: %d\n", callee, stats.CallFrequency[callee])
			}
		}
	},
}

func init() {
	depsCmd.Flags().String("class", "", "Class name (defaults to the first class)")
	depsCmd.Flags().Int("depth", 0, "Maximum tree depth (default from settings)")
	callersCmd.Flags().String("class", "", "Class name (defaults to the first class)")
	statsCmd.Flags().String("class", "", "Class name (defaults to the first class)")

	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(callersCmd)
	rootCmd.AddCommand(statsCmd)
}
