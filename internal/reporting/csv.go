package reporting

import (
	"fmt"
	"strings"
)

// RenderCandidatesCSV renders ranked candidates as a CSV string.
func RenderCandidatesCSV(candidates []CandidateRow) string {
	var sb strings.Builder

	sb.WriteString("star_id,rank,period,duration,phase,depth,power,significant\n")

	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%t\n",
			c.StarID,
			c.Rank,
			c.Period,
			c.Duration,
			c.Phase,
			c.Depth,
			c.Power,
			c.Significant,
		))
	}

	return sb.String()
}

// RenderOutcomesCSV renders per-star outcomes as a CSV string.
func RenderOutcomesCSV(outcomes []StarOutcomeRow) string {
	var sb strings.Builder

	sb.WriteString("star_id,status,samples_raw,samples_cleaned,candidates,best_period,best_power,elapsed_ms\n")

	for _, o := range outcomes {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d,%d,%.6f,%.6f,%d\n",
			o.StarID,
			o.Status,
			o.SamplesRaw,
			o.SamplesCleaned,
			o.Candidates,
			o.BestPeriod,
			o.BestPower,
			o.Elapsed.Milliseconds(),
		))
	}

	return sb.String()
}
