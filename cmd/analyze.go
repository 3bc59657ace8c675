package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// classesCmd represents the classes command
var classesCmd = &cobra.Command{
	Use:   "classes <file>",
	Short: "List the classes in a C# source file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := newAnalyzer()

		classes, err := a.ListClasses(context.Background(), args[0])
		if err != nil {
			exitErrorJSON(err)
		}

		if jsonOutput {
			if err := outputJSON(classes); err != nil {
				exitError("failed to encode JSON: %v", err)
			}
			return
		}
		for _, c := range classes {
			if c.Namespace != "" {
				fmt.Printf("%s.%s", c.Namespace, c.Name)
			} else {
				fmt.Print(c.Name)
			}
			if c.LineCount > 0 {
				fmt.Printf(" (%d lines)", c.LineCount)
			}
			fmt.Println()
		}
	},
}

// methodsCmd represents the methods command
var methodsCmd = &cobra.Command{
	Use:   "methods <file>",
	Short: "List the methods of a class",
	Long: `List every method overload of a class in source order.

Use --class to pick a class; the first class in the file is used otherwise.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := newAnalyzer()
		className, _ := cmd.Flags().GetString("class")

		methods, err := a.ListMethods(context.Background(), args[0], className)
		if err != nil {
			exitErrorJSON(err)
		}

		if jsonOutput {
			if err := outputJSON(methods); err != nil {
				exitError("failed to encode JSON: %v", err)
			}
			return
		}
		for _, m := range methods {
			if verbose {
				fmt.Printf("%s (%d lines)\n", m.Signature, m.LineCount)
			} else {
				fmt.Println(m.Name)
			}
		}
	},
}

// bodyCmd represents the body command
var bodyCmd = &cobra.Command{
	Use:   "body <file> <method>",
	Short: "Print the full text of a method",
	Long: `Print the full source text of a method, doc comment included.

Every overload of the name is printed in source order.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := newAnalyzer()
		className, _ := cmd.Flags().GetString("class")

		bodies, err := a.GetMethodBody(args[0], className, args[1])
		if err != nil {
			exitErrorJSON(err)
		}

		if jsonOutput {
			if err := outputJSON(bodies); err != nil {
				exitError("failed to encode JSON: %v", err)
			}
			return
		}
		for i, b := range bodies {
			if i > 0 {
				fmt.Println()
			}
			fmt.Println(b.Text)
		}
	},
}

func init() {
	methodsCmd.Flags().String("class", "", "Class name (defaults to the first class)")
	bodyCmd.Flags().String("class", "", "Class name (defaults to the first class)")

	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(bodyCmd)
}
