package analysis

import (
	"math"
	"sort"
)

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return 0.5 * (cp[mid-1] + cp[mid])
}

// mad is the median absolute deviation; 0 for an empty or constant sample.
func mad(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := median(xs)
	res := make([]float64, len(xs))
	for i, v := range xs {
		res[i] = math.Abs(v - m)
	}
	return median(res)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range xs {
		s += v
	}
	return s / float64(len(xs))
}

// CorpusSummary describes the distribution of corpus scores.
type CorpusSummary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	MAD    float64 `json:"mad"`
}

// Summarize computes descriptive statistics of the corpus scores.
func Summarize(c *Corpus) CorpusSummary {
	scores := c.Scores()
	if len(scores) == 0 {
		return CorpusSummary{}
	}
	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		lo = math.Min(lo, s)
		hi = math.Max(hi, s)
	}
	return CorpusSummary{
		Count:  len(scores),
		Min:    lo,
		Max:    hi,
		Mean:   mean(scores),
		Median: median(scores),
		MAD:    mad(scores),
	}
}

// PhaseAverage is the mean corpus score of one phase group.
type PhaseAverage struct {
	Phase   string  `json:"phase"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// PhaseComparison sets a candidate score against per-phase corpus means.
type PhaseComparison struct {
	Phases    []PhaseAverage `json:"phases"`
	Candidate float64        `json:"candidate"`
	// Scale is the largest of the phase means and the candidate.
	Scale       float64 `json:"scale"`
	CorpusCount int     `json:"corpus_count"`
}

// PhaseAverages groups corpus scores by phase label, sorted by label.
func PhaseAverages(c *Corpus) []PhaseAverage {
	groups := make(map[string][]float64)
	for _, r := range c.Records() {
		label := r.Phase.Label()
		groups[label] = append(groups[label], r.FinalPCSScore)
	}
	out := make([]PhaseAverage, 0, len(groups))
	for label, scores := range groups {
		out = append(out, PhaseAverage{Phase: label, Count: len(scores), Average: mean(scores)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phase < out[j].Phase })
	return out
}

// ComparePhases builds the phase comparison for a candidate PCS.
func ComparePhases(c *Corpus, candidate float64) PhaseComparison {
	phases := PhaseAverages(c)
	scale := candidate
	for _, p := range phases {
		scale = math.Max(scale, p.Average)
	}
	return PhaseComparison{
		Phases:      phases,
		Candidate:   candidate,
		Scale:       scale,
		CorpusCount: c.Len(),
	}
}
