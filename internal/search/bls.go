package search

import (
	"math"

	"transit-search-lab/internal/domain"
)

// evaluatePeriod finds the (duration, phase) box maximizing the dip
// statistic at one candidate period. Pure function of its inputs: the
// engine runs one call per period with no shared state.
//
// Folded samples are accumulated into phase bins; each candidate box is a
// run of consecutive bins, scanned with circular prefix sums. The statistic
// is the uncertainty-normalized weighted depth of in-box flux below the
// out-of-box continuum. Boxes with fewer than minInBox samples are skipped;
// a period where every box is skipped reports Power == 0 and stays in the
// grid so ranking sees the full period axis.
func evaluatePeriod(samples []domain.Sample, epoch, period float64, durations []float64, res, minInBox int) domain.PeriodResult {
	// Bin the folded series.
	binW := make([]float64, res)
	binWF := make([]float64, res)
	binN := make([]int, res)

	var totalW, totalWF float64
	for _, s := range samples {
		w := 1.0
		if s.FluxErr > 0 {
			w = 1 / (s.FluxErr * s.FluxErr)
		}
		b := int(phase(s.Time, epoch, period) * float64(res))
		if b >= res {
			b = res - 1
		}
		binW[b] += w
		binWF[b] += w * s.Flux
		binN[b]++
		totalW += w
		totalWF += w * s.Flux
	}

	// Doubled prefix sums make circular box sums a constant-time lookup.
	prefW := make([]float64, 2*res+1)
	prefWF := make([]float64, 2*res+1)
	prefN := make([]int, 2*res+1)
	for i := 0; i < 2*res; i++ {
		prefW[i+1] = prefW[i] + binW[i%res]
		prefWF[i+1] = prefWF[i] + binWF[i%res]
		prefN[i+1] = prefN[i] + binN[i%res]
	}

	best := domain.PeriodResult{Period: period}
	for _, d := range durations {
		width := int(math.Ceil(d / period * float64(res)))
		if width < 1 {
			width = 1
		}
		if width >= res {
			// Box covers the whole fold; no out-of-box continuum left.
			continue
		}

		for offset := 0; offset < res; offset++ {
			nIn := prefN[offset+width] - prefN[offset]
			if nIn < minInBox {
				continue
			}
			wIn := prefW[offset+width] - prefW[offset]
			wOut := totalW - wIn
			if wIn <= 0 || wOut <= 0 {
				continue
			}
			wfIn := prefWF[offset+width] - prefWF[offset]
			meanIn := wfIn / wIn
			meanOut := (totalWF - wfIn) / wOut

			depth := meanOut - meanIn
			if depth <= 0 {
				// Brightening, not a dip.
				continue
			}
			power := depth / math.Sqrt(1/wIn+1/wOut)
			if power > best.Power {
				best.Power = power
				best.Duration = d
				best.Phase = float64(offset) / float64(res)
				best.Depth = depth
			}
		}
	}

	return best
}
