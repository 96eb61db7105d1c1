package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/zhouzirui/scorecard/backend/internal/model/metrics"
)

func printJSON(w io.Writer, results []replayResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func printTable(w io.Writer, results []replayResult, verbose bool) {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Scenario: %s  (scorer: %s, fallback evaluations: %d)\n", res.Scenario, res.Scorer, res.Fallback)

		if verbose {
			for _, step := range res.Steps {
				eval := step.Evaluation
				fmt.Fprintf(w, "  [%02d] %-5s polite=%-5t intro=%-5t %s\n",
					step.Index, step.Utterance.Sender, eval.IsPolite, eval.IsIntroductionComplete, truncate(step.Utterance.Content, 60))
			}
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  METRIC\tAVERAGE\tGRADE")
		for _, name := range metrics.Names {
			v, _ := res.Average.Value(name)
			grade := "-"
			if g, ok := res.Grades[name]; ok {
				grade = string(g)
			}
			fmt.Fprintf(tw, "  %s\t%.1f\t%s\n", name, v, grade)
		}
		_ = tw.Flush()
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-3])) + "..."
}
