package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/shear/internal/config"
	"github.com/ihavespoons/shear/internal/lexer"
	"github.com/ihavespoons/shear/internal/report"
	"github.com/ihavespoons/shear/internal/split"
)

// splitCmd represents the split command
var splitCmd = &cobra.Command{
	Use:   "split <config.json> [config2.json ...]",
	Short: "Split a class into partial-class files",
	Long: `Split a class into partial-class files as described by one or more
JSON configuration documents. Multiple documents are merged: the first is
authoritative for the shared fields, and their partialClasses lists are
concatenated in order.

The configuration is validated against the parsed class before anything is
written. Methods not assigned to any partial class remain in the generated
core file.

Use --watch to keep running and re-split whenever the source file changes.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := newAnalyzer()
		watch, _ := cmd.Flags().GetBool("watch")
		reportPath, _ := cmd.Flags().GetString("report")

		// Accept both "a.json b.json" and "a.json,b.json".
		var paths []string
		for _, arg := range args {
			for _, p := range strings.Split(arg, ",") {
				if p != "" {
					paths = append(paths, p)
				}
			}
		}

		cfg, err := config.Load(paths)
		if err != nil {
			exitErrorJSON(err)
		}

		run := func() error {
			result, err := a.SplitJob(cfg)
			if err != nil {
				return err
			}
			if reportPath != "" {
				if err := writeReport(reportPath, cfg, result); err != nil {
					return err
				}
			}
			if jsonOutput {
				return outputJSON(result)
			}
			for _, f := range result.Files {
				fmt.Printf("Wrote %s\n", f)
			}
			fmt.Printf("Wrote %s (core)\n", result.CoreFile)
			fmt.Printf("%d method(s) distributed\n", result.MethodsOut)
			return nil
		}

		if err := run(); err != nil {
			exitErrorJSON(err)
		}
		if !watch {
			return
		}

		watcher := split.NewWatcher(cfg.SourceFile, func() error {
			a.Invalidate(cfg.SourceFile)
			return run()
		})
		if err := watcher.Start(); err != nil {
			exitErrorJSON(err)
		}
		defer watcher.Stop()

		fmt.Fprintf(os.Stderr, "Watching %s, press Ctrl-C to stop\n", cfg.SourceFile)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
	},
}

// writeReport renders an HTML summary of a completed split job.
func writeReport(path string, cfg *config.Config, result *split.JobResult) error {
	className := cfg.TargetClassName
	if className == "" {
		className = strings.TrimSuffix(cfg.MainPartialClassName, ".cs")
	}

	var files []report.FileSummary
	for i, f := range result.Files {
		summary := report.FileSummary{Path: f, Kind: "partial"}
		if i < len(cfg.PartialClasses) {
			summary.Methods = cfg.PartialClasses[i].Methods
		}
		if data, err := os.ReadFile(f); err == nil {
			summary.Lines = lexer.CountLines(string(data))
		}
		files = append(files, summary)
	}
	core := report.FileSummary{Path: result.CoreFile, Kind: "core"}
	if data, err := os.ReadFile(result.CoreFile); err == nil {
		core.Lines = lexer.CountLines(string(data))
	}
	files = append(files, core)

	html := report.NewHTMLReporter(className).Render(result, files)
	if err := os.WriteFile(path, html, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func init() {
	splitCmd.Flags().Bool("watch", false, "Re-run the split when the source file changes")
	splitCmd.Flags().String("report", "", "Write an HTML summary of the job to this path")

	rootCmd.AddCommand(splitCmd)
}
