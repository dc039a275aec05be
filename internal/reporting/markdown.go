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
	sb.WriteString("# Transit Search Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Stars analyzed: %d\n\n", r.StarCount))

	// Batch Summary
	sb.WriteString("## Batch Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Stars OK | %d |\n", r.Summary.StarsOK))
	sb.WriteString(fmt.Sprintf("| Stars INSUFFICIENT_DATA | %d |\n", r.Summary.StarsInsufficientData))
	sb.WriteString(fmt.Sprintf("| Stars NO_CANDIDATES | %d |\n", r.Summary.StarsNoCandidates))
	sb.WriteString(fmt.Sprintf("| Total Candidates | %d |\n", r.Summary.TotalCandidates))
	sb.WriteString(fmt.Sprintf("| Significant Candidates | %d |\n", r.Summary.SignificantCandidates))
	if r.Summary.BestStarID != "" {
		sb.WriteString(fmt.Sprintf("| Best Star | %s |\n", r.Summary.BestStarID))
		sb.WriteString(fmt.Sprintf("| Best Power | %.4f |\n", r.Summary.BestPower))
	}
	sb.WriteString("\n")

	// Per-star outcomes
	sb.WriteString("## Star Outcomes\n\n")
	if len(r.StarOutcomes) > 0 {
		sb.WriteString("| Star | Status | Raw | Cleaned | Candidates | Best Period [d] | Best Power | Elapsed |\n")
		sb.WriteString("|------|--------|-----|---------|------------|-----------------|------------|--------|\n")
		for _, o := range r.StarOutcomes {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %.4f | %.4f | %s |\n",
				o.StarID, o.Status, o.SamplesRaw, o.SamplesCleaned,
				o.Candidates, o.BestPeriod, o.BestPower, o.Elapsed.Round(time.Millisecond)))
		}
	} else {
		sb.WriteString("No stars analyzed.\n")
	}
	sb.WriteString("\n")

	// Ranked candidates
	sb.WriteString("## Candidates\n\n")
	if len(r.Candidates) > 0 {
		sb.WriteString("| Star | Rank | Period [d] | Duration [d] | Phase | Depth | Power | Significant |\n")
		sb.WriteString("|------|------|------------|--------------|-------|-------|-------|-------------|\n")
		for _, c := range r.Candidates {
			mark := "no"
			if c.Significant {
				mark = "yes"
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %.4f | %.4f | %.4f | %.5f | %.4f | %s |\n",
				c.StarID, c.Rank, c.Period, c.Duration, c.Phase, c.Depth, c.Power, mark))
		}
	} else {
		sb.WriteString("No candidates found.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
