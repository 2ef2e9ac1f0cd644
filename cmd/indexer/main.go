// Command indexer builds a partitioned inverted index and TF/TF-IDF score
// tables for a categorized JSON news corpus.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sakai-lab/shinbun-search/internal/corpus"
	"github.com/sakai-lab/shinbun-search/internal/persist"
	"github.com/sakai-lab/shinbun-search/internal/progress"
	"github.com/sakai-lab/shinbun-search/internal/tokenize"
)

// setupLogger configures the default slog logger based on debug mode.
func setupLogger(debug bool) {
	level := slog.LevelError
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// readCorpus reads every document under every requested category, reporting
// a malformed or unreadable document as a hard failure — a partial index is
// worse than a loud one (spec §7).
func readCorpus(ctx context.Context, inputPath string, categories []string) ([]corpus.Document, error) {
	var docs []corpus.Document
	for _, category := range categories {
		for doc, err := range corpus.ReadCategory(ctx, inputPath, category) {
			if err != nil {
				return nil, fmt.Errorf("reading category %q: %w", category, err)
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

var rootCmd = &cobra.Command{
	Use:   "indexer --category <cat> [<cat>...]",
	Short: "Build an inverted index and TF/TF-IDF score tables from a JSON news corpus",
	Long: `indexer tokenizes a categorized JSON news corpus and materializes a
partitioned inverted index plus per-term TF and TF-IDF score tables.

Examples:
  indexer --category society --category sports
  indexer -i corpus -o index --category society`,
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, _ := cmd.Flags().GetStringArray("category")
		inputPath, _ := cmd.Flags().GetString("input_path")
		outputPath, _ := cmd.Flags().GetString("output_path")
		debug, _ := cmd.Flags().GetBool("debug")

		setupLogger(debug)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		slog.Debug("reading corpus", "input_path", inputPath, "categories", categories)
		docs, err := readCorpus(ctx, inputPath, categories)
		if err != nil {
			return fmt.Errorf("indexer: %w", err)
		}

		analyzer, err := tokenize.New()
		if err != nil {
			return fmt.Errorf("indexer: %w", err)
		}

		var reporter *progress.Reporter
		if !debug {
			reporter = progress.New(os.Stderr, categories)
			defer reporter.Close()
		}

		builder := &persist.Builder{
			OutputRoot: outputPath,
			Tokenizer:  analyzer,
			Progress: func(done, total int, category string) {
				if reporter != nil {
					reporter.BuildProgress(done, total, category)
				} else {
					slog.Debug("tokenizing", "category", category, "done", done, "total", total)
				}
			},
			OnPhase: func(phase, category string) {
				if reporter != nil {
					reporter.BuildPhase(progress.Phase(phase), category)
				} else {
					slog.Debug("build phase", "phase", phase, "category", category)
				}
			},
		}

		slog.Debug("building index", "output_path", outputPath, "documents", len(docs))
		if err := builder.Build(ctx, categories, docs); err != nil {
			return fmt.Errorf("indexer: %w", err)
		}

		fmt.Fprintf(os.Stdout, "indexed %d documents across %d categories into %s\n", len(docs), len(categories), outputPath)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringArray("category", nil, "category to index (repeatable, required)")
	_ = rootCmd.MarkFlagRequired("category")

	rootCmd.Flags().StringP("input_path", "i", "output", "root directory of the JSON corpus")
	rootCmd.Flags().StringP("output_path", "o", "index", "root directory for the built index")

	rootCmd.Flags().Bool("debug", false, "enable debug logging")
	_ = rootCmd.Flags().MarkHidden("debug")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stdout, "interrupted, stopping")
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
