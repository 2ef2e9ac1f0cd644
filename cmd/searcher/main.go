// Command searcher loads a built index and runs a single boolean query
// against it, printing match counts and TF/TF-IDF rankings.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sakai-lab/shinbun-search/internal/query"
	"github.com/sakai-lab/shinbun-search/internal/rank"
	"github.com/sakai-lab/shinbun-search/internal/session"
)

func setupLogger(debug bool) {
	level := slog.LevelError
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func parseMode(s string) (session.Mode, error) {
	switch s {
	case "single":
		return session.ModeSingle, nil
	case "and":
		return session.ModeAnd, nil
	case "or":
		return session.ModeOr, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want single, and, or)", s)
	}
}

func printRanking(w *os.File, label string, rows []rank.Row) {
	fmt.Fprintf(w, "%s ranking:\n", label)
	for _, r := range rows {
		fmt.Fprintf(w, "  %d. %s (%.6f)\n", r.Rank, r.DocID, r.Score)
	}
}

var rootCmd = &cobra.Command{
	Use:   "searcher -c <cat> [<cat>...] -w <word> [<word2>]",
	Short: "Query a built inverted index and print TF/TF-IDF rankings",
	Long: `searcher loads one or more category partitions of a built index, runs a
single/and/or query, and prints the match set followed by TF and TF-IDF
rankings (single mode only).

Examples:
  searcher -c society -w 猫
  searcher -c society -c sports -w 猫 -w 犬 -m or`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath, _ := cmd.Flags().GetString("input_path")
		categories, _ := cmd.Flags().GetStringArray("category")
		words, _ := cmd.Flags().GetStringArray("search_word")
		modeFlag, _ := cmd.Flags().GetString("mode")
		debug, _ := cmd.Flags().GetBool("debug")

		setupLogger(debug)

		if len(words) < 1 || len(words) > 2 {
			return fmt.Errorf("searcher: search_word requires 1 or 2 terms, got %d", len(words))
		}
		mode, err := parseMode(modeFlag)
		if err != nil {
			return fmt.Errorf("searcher: %w", err)
		}
		if mode != session.ModeSingle && len(words) != 2 {
			return fmt.Errorf("searcher: mode %q requires exactly 2 search_word terms", modeFlag)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sess := session.New()
		if err := sess.Load(ctx, inputPath, categories); err != nil {
			return fmt.Errorf("searcher: %w", err)
		}

		err = sess.Query(mode, words)
		if err != nil {
			var noMatch *query.NoMatchError
			if errors.As(err, &noMatch) {
				fmt.Fprintln(os.Stdout, "文書が見つかりませんでした")
				return nil
			}
			return fmt.Errorf("searcher: %w", err)
		}

		matches := append([]string(nil), sess.Matches()...)
		sort.Strings(matches)
		fmt.Fprintf(os.Stdout, "match count: %d\n", len(matches))
		fmt.Fprintf(os.Stdout, "matches: %v\n", matches)

		if mode != session.ModeSingle {
			return nil
		}

		term := words[0]
		tfRows, err := sess.Rank(inputPath, term, rank.TF)
		if err != nil {
			var noScores *rank.NoScoresError
			if errors.As(err, &noScores) {
				slog.Warn("no TF scores for term", "term", term)
			} else {
				return fmt.Errorf("searcher: %w", err)
			}
		} else {
			printRanking(os.Stdout, "TF", tfRows)
		}

		tfidfRows, err := sess.Rank(inputPath, term, rank.TFIDF)
		if err != nil {
			var noScores *rank.NoScoresError
			if errors.As(err, &noScores) {
				slog.Warn("no TF-IDF scores for term", "term", term)
			} else {
				return fmt.Errorf("searcher: %w", err)
			}
		} else {
			printRanking(os.Stdout, "TF-IDF", tfidfRows)
		}

		return nil
	},
}

func init() {
	rootCmd.Flags().StringP("input_path", "i", "index", "root directory of the built index")

	rootCmd.Flags().StringArrayP("category", "c", nil, "category partition to load (repeatable, required)")
	_ = rootCmd.MarkFlagRequired("category")

	rootCmd.Flags().StringArrayP("search_word", "w", nil, "search term(s): 1 for single mode, 2 for and/or")
	_ = rootCmd.MarkFlagRequired("search_word")

	rootCmd.Flags().StringP("mode", "m", "single", "query mode: single, and, or")

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
