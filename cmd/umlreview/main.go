// Command umlreview runs the diagram review pipeline from the shell.
//
// Usage:
//
//	umlreview extract diagram.xml --plantuml
//	umlreview similar diagram.xml -k 5
//	umlreview prompt diagram.xml
//	umlreview critique diagram.xml
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/OFFIS-RIT/umlreview/internal/setup"
	"github.com/OFFIS-RIT/umlreview/internal/util"
	"github.com/OFFIS-RIT/umlreview/pkg/critique"
	"github.com/OFFIS-RIT/umlreview/pkg/logger"
	"github.com/OFFIS-RIT/umlreview/pkg/logger/console"
	"github.com/OFFIS-RIT/umlreview/pkg/uml"
)

var (
	verbose  bool
	timeout  time.Duration
	plantUML bool
	topK     int
	asJSON   bool
)

var rootCmd = &cobra.Command{
	Use:           "umlreview",
	Short:         "Review draw.io class diagrams against a corpus of reference designs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		util.LoadEnv()
		format, err := console.ParseFormat(util.GetEnv("LOG_FORMAT"))
		if err != nil {
			return err
		}
		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
			Debug:  verbose || util.GetEnvBool("DEBUG", false),
			Writer: cmd.ErrOrStderr(),
			Format: format,
		}))
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Print the simplified text form of a diagram",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var similarCmd = &cobra.Command{
	Use:   "similar FILE",
	Short: "List the corpus diagrams closest to FILE",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

var promptCmd = &cobra.Command{
	Use:   "prompt FILE",
	Short: "Print the critique prompt without calling the completion service",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrompt,
}

var critiqueCmd = &cobra.Command{
	Use:   "critique FILE",
	Short: "Ask the completion service for a review of FILE",
	Args:  cobra.ExactArgs(1),
	RunE:  runCritique,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	extractCmd.Flags().BoolVar(&plantUML, "plantuml", false, "Print PlantUML instead of the simplified text")
	similarCmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of matches (default RETRIEVAL_TOP_K or 3)")
	critiqueCmd.Flags().BoolVar(&asJSON, "json", false, "Request a structured JSON review")

	rootCmd.AddCommand(extractCmd, similarCmd, promptCmd, critiqueCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func runExtract(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	res := uml.ExtractDocument(raw)
	if res.Degraded() {
		logger.Warn("Diagram could not be read", "file", args[0], "err", res.Err)
	}

	out := res.Simplified()
	if plantUML {
		out = uml.ToPlantUML(out)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func prepare(cmd *cobra.Command, file string, withClient bool) (*critique.Analyzer, []byte, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	analyzer, err := setup.NewAnalyzer(ctx, withClient)
	if err != nil {
		return nil, nil, err
	}
	return analyzer, raw, nil
}

func runSimilar(cmd *cobra.Command, args []string) error {
	analyzer, raw, err := prepare(cmd, args[0], false)
	if err != nil {
		return err
	}

	k := topK
	if k <= 0 {
		k = analyzer.TopK()
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	report := analyzer.PrepareTopK(ctx, raw, k)

	w := cmd.OutOrStdout()
	for _, m := range report.Matches {
		fmt.Fprintf(w, "%.4f\t%s\n", m.Score, m.File)
	}
	return nil
}

func runPrompt(cmd *cobra.Command, args []string) error {
	analyzer, raw, err := prepare(cmd, args[0], false)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()
	fmt.Fprintln(cmd.OutOrStdout(), analyzer.Prepare(ctx, raw).Prompt)
	return nil
}

func runCritique(cmd *cobra.Command, args []string) error {
	analyzer, raw, err := prepare(cmd, args[0], true)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if asJSON {
		out, err := analyzer.Review(ctx, raw)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	report, err := analyzer.Analyze(ctx, raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Feedback)
	return nil
}
