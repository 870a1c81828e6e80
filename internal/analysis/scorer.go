package analysis

import (
	"fmt"
	"math"
	"sort"
)

// Scorer computes sub-scores and the composite PCS for a fixed set of
// weights. A Scorer is immutable and safe for concurrent use.
type Scorer struct {
	weights Weights
}

// defaultScorer panics at init if the production weights are malformed.
var defaultScorer = mustScorer(DefaultWeights())

// NewScorer validates w and returns a Scorer bound to it.
func NewScorer(w Weights) (*Scorer, error) {
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weights: %w", err)
	}
	return &Scorer{weights: w}, nil
}

func mustScorer(w Weights) *Scorer {
	s, err := NewScorer(w)
	if err != nil {
		panic(err)
	}
	return s
}

// DefaultScorer returns the Scorer built from DefaultWeights.
func DefaultScorer() *Scorer { return defaultScorer }

// Weights returns a copy of the scorer's weight tables.
func (s *Scorer) Weights() Weights { return s.weights }

// sumTerms adds value*weight over every term. The explicit conversion
// rounds each product so no platform fuses it into the addition.
func sumTerms(ts []term) float64 {
	score := 0.0
	for _, t := range ts {
		score += float64(t.value * t.weight)
	}
	return score
}

// ScoreVectors returns the weighted score of each sub-vector.
func (s *Scorer) ScoreVectors(f FeatureVector) VectorScores {
	return VectorScores{
		Complexity:    sumTerms(complexityTerms(f.Complexity, s.weights.Complexity)),
		PatientBurden: sumTerms(patientBurdenTerms(f.PatientBurden, s.weights.PatientBurden)),
		SiteBurden:    sumTerms(siteBurdenTerms(f.SiteBurden, s.weights.SiteBurden)),
	}
}

// Aggregate combines sub-scores into the PCS, rounded to one decimal.
// The result is not clamped to [0,100].
func (s *Scorer) Aggregate(v VectorScores) float64 {
	w := s.weights.Vector
	total := float64(v.Complexity*w.Complexity) +
		float64(v.PatientBurden*w.PatientBurden) +
		float64(v.SiteBurden*w.SiteBurden)
	return roundTo1(total)
}

// ScorePCS returns the composite Protocol Complexity Score for f.
func (s *Scorer) ScorePCS(f FeatureVector) float64 {
	return s.Aggregate(s.ScoreVectors(f))
}

// Contributors lists every weighted field of f, largest contribution first.
func (s *Scorer) Contributors(f FeatureVector) []Contributor {
	ts := s.weights.terms(f)
	contribs := make([]Contributor, 0, len(ts))
	for _, t := range ts {
		contribs = append(contribs, Contributor{Name: t.name, Contribution: float64(t.value * t.weight)})
	}
	sort.SliceStable(contribs, func(i, j int) bool {
		return contribs[i].Contribution > contribs[j].Contribution
	})
	return contribs
}

// roundTo1 rounds half away from zero to one decimal place.
func roundTo1(x float64) float64 {
	return math.Round(x*10) / 10
}

// ScoreVectors scores f with the default weights.
func ScoreVectors(f FeatureVector) VectorScores {
	return defaultScorer.ScoreVectors(f)
}

// ScorePCS scores f with the default weights.
func ScorePCS(f FeatureVector) float64 {
	return defaultScorer.ScorePCS(f)
}
