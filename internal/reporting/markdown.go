package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Generation Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s | Mode: %s | Universe: %d/%d\n\n",
		r.Run.RunID, r.Run.Mode, r.Run.UniverseK, r.Run.UniverseN))

	// Run Summary
	sb.WriteString("## Run Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Config Hash | %s |\n", r.Run.ConfigHash))
	if r.Run.SearchSpace >= 0 {
		sb.WriteString(fmt.Sprintf("| Search Space | %d |\n", r.Run.SearchSpace))
	}
	sb.WriteString(fmt.Sprintf("| Target | %d |\n", r.Run.Target))
	sb.WriteString(fmt.Sprintf("| Accepted | %d |\n", r.Run.Accepted))
	sb.WriteString(fmt.Sprintf("| Attempts | %d |\n", r.Run.Attempts))
	sb.WriteString(fmt.Sprintf("| Selected | %d |\n", r.Run.Selected))
	sb.WriteString(fmt.Sprintf("| History Draws | %d |\n", r.Run.HistoryDraws))
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", r.Run.Duration))
	sb.WriteString("\n")

	// Warnings
	var warnings []string
	if r.Run.Shortfall {
		warnings = append(warnings, fmt.Sprintf("Shortfall: accepted %d of %d after %d attempts.",
			r.Run.Accepted, r.Run.Target, r.Run.Attempts))
	}
	if r.Run.Cancelled {
		warnings = append(warnings, "Search was cancelled before completion; results are partial.")
	}
	if r.Run.HistoryUnavailable {
		warnings = append(warnings, "History unavailable: neutral frequency scores, duplicate caps not applied.")
	}
	if r.Run.RankProfileDefaulted {
		warnings = append(warnings, "Default rank profile used.")
	}
	if len(warnings) > 0 {
		sb.WriteString("### Warnings\n\n")
		for _, w := range warnings {
			sb.WriteString(fmt.Sprintf("- %s\n", w))
		}
		sb.WriteString("\n")
	}

	// Rejections
	sb.WriteString("## Rejections\n\n")
	if len(r.Rejections) > 0 {
		sb.WriteString("| Predicate | Count |\n")
		sb.WriteString("|-----------|-------|\n")
		for _, row := range r.Rejections {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.Predicate, row.Count))
		}
	} else {
		sb.WriteString("No rejections recorded.\n")
	}
	sb.WriteString("\n")

	// Statistics
	sb.WriteString("## Statistics\n\n")
	sb.WriteString("| Sample | N | Min | Max | Mean | Median | StdDev |\n")
	sb.WriteString("|--------|---|-----|-----|------|--------|--------|\n")
	for _, row := range []struct {
		name string
		d    Distribution
	}{
		{"Selection Sum", r.SumStats},
		{"Selection Score", r.ScoreStats},
		{"Pool Score", r.PoolScoreStats},
	} {
		sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			row.name, row.d.N, row.d.Min, row.d.Max, row.d.Mean, row.d.Median, row.d.StdDev))
	}
	sb.WriteString("\n")

	// Distributions
	sb.WriteString("## Distributions\n\n")
	writeCounts(&sb, "Even Count", r.EvenDistribution)
	writeCounts(&sb, "Seq2", r.Seq2Distribution)
	writeCounts(&sb, "Seq3", r.Seq3Distribution)

	// Number Frequency
	sb.WriteString("## Number Frequency\n\n")
	if len(r.HotNumbers) > 0 {
		sb.WriteString(fmt.Sprintf("Hottest: %s\n\n", joinNumbers(r.HotNumbers)))
		sb.WriteString(fmt.Sprintf("Coldest: %s\n\n", joinNumbers(r.ColdNumbers)))
	}
	if len(r.PositionFrequency) > 0 {
		sb.WriteString("| Position | Number | Count |\n")
		sb.WriteString("|----------|--------|-------|\n")
		for _, row := range r.PositionFrequency {
			sb.WriteString(fmt.Sprintf("| %d | %d | %d |\n", row.Position, row.Number, row.Count))
		}
		sb.WriteString("\n")
	}

	// Duplicates
	sb.WriteString("## Overlap With Recent Draws\n\n")
	if len(r.Duplicates) > 0 {
		sb.WriteString("| Depth | Max | Mean |\n")
		sb.WriteString("|-------|-----|------|\n")
		for _, row := range r.Duplicates {
			sb.WriteString(fmt.Sprintf("| %d | %d | %.2f |\n", row.Depth, row.MaxOverlap, row.MeanOverlap))
		}
	} else {
		sb.WriteString("No recent draws available.\n")
	}
	sb.WriteString("\n")

	// Candidates
	sb.WriteString("## Selected Candidates\n\n")
	if len(r.Candidates) > 0 {
		sb.WriteString("| # | Combination | Sum | E/O | Score | Freq | Bal | Dec | Seq | SumS | Rank | Col1 | Rank Buckets |\n")
		sb.WriteString("|---|-------------|-----|-----|-------|------|-----|-----|-----|------|------|------|--------------|\n")
		for _, c := range r.Candidates {
			sb.WriteString(fmt.Sprintf("| %d | %s | %d | %d/%d | %.2f | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f | %.1f | %s |\n",
				c.Rank, c.Key, c.Sum, c.EvenCount, c.OddCount, c.Score,
				c.Frequency, c.Balance, c.Decade, c.Sequence, c.SumScore, c.RankScore, c.Col1,
				rankBuckets(c.RankBuckets)))
		}
	} else {
		sb.WriteString("No candidates selected.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func writeCounts(sb *strings.Builder, title string, rows []CountRow) {
	sb.WriteString(fmt.Sprintf("### %s\n\n", title))
	if len(rows) == 0 {
		sb.WriteString("No data.\n\n")
		return
	}
	sb.WriteString("| Value | Count |\n")
	sb.WriteString("|-------|-------|\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("| %d | %d |\n", row.Value, row.Count))
	}
	sb.WriteString("\n")
}

func joinNumbers(rows []NumberRow) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprintf("%d (%d)", r.Number, r.Count)
	}
	return strings.Join(parts, ", ")
}

// rankBuckets renders non-empty buckets as "r0:1 r3:2".
func rankBuckets(buckets []int) string {
	var parts []string
	for i, n := range buckets {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("r%d:%d", i, n))
		}
	}
	return strings.Join(parts, " ")
}
