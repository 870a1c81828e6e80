package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpusOf(scores ...float64) *Corpus {
	records := make([]BenchmarkRecord, len(scores))
	for i, s := range scores {
		records[i] = BenchmarkRecord{
			ID:            string(rune('a' + i)),
			StudyType:     StudyInterventional,
			Phase:         3,
			FinalPCSScore: s,
		}
	}
	return NewCorpus(records)
}

func TestBenchmarkPercentile(t *testing.T) {
	tests := []struct {
		name      string
		corpus    *Corpus
		candidate float64
		expected  int
	}{
		{"empty corpus yields zero", corpusOf(), 55, 0},
		{"nil corpus yields zero", nil, 55, 0},
		{"below every entry", corpusOf(10, 20, 30), 5, 0},
		{"equal to the minimum", corpusOf(10, 20, 30), 10, 0},
		{"above every entry", corpusOf(10, 20, 30), 31, 100},
		{"ties are excluded from the numerator", corpusOf(10, 20, 20, 30), 20, 25},
		{"rounds to the nearest integer", corpusOf(10, 20, 30), 25, 67},
		{"one third rounds down", corpusOf(10, 20, 30), 15, 33},
		{"half rounds up", corpusOf(10, 20, 30, 40, 50, 60, 70, 80), 15, 13},
		{"order of the corpus is irrelevant", corpusOf(30, 10, 20), 25, 67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BenchmarkPercentile(tt.candidate, tt.corpus))
		})
	}
}

func TestBenchmarkPercentile_Bounds(t *testing.T) {
	c, err := DefaultCorpus()
	require.NoError(t, err)

	for _, pcs := range []float64{-10, 0, 18.7, 40, 91.7, 100, 1e6} {
		p := BenchmarkPercentile(pcs, c)
		assert.GreaterOrEqual(t, p, 0)
		assert.LessOrEqual(t, p, 100)
	}
	assert.Equal(t, 0, BenchmarkPercentile(math.Inf(-1), c))
	assert.Equal(t, 100, BenchmarkPercentile(math.Inf(1), c))
}

func TestCorpus_IsReadOnly(t *testing.T) {
	records := []BenchmarkRecord{{ID: "x", StudyType: StudyInterventional, Phase: 2, FinalPCSScore: 50}}
	c := NewCorpus(records)

	records[0].FinalPCSScore = 0
	assert.Equal(t, 50.0, c.Records()[0].FinalPCSScore)

	out := c.Records()
	out[0].FinalPCSScore = 99
	scores := c.Scores()
	scores[0] = 99
	assert.Equal(t, 50.0, c.Records()[0].FinalPCSScore)
	assert.Equal(t, 100, c.Percentile(51))
}

func TestValidateRecords(t *testing.T) {
	valid := BenchmarkRecord{ID: "ok", StudyType: StudyObservational, Phase: PhaseNotApplicable, FinalPCSScore: 12}

	tests := []struct {
		name    string
		records []BenchmarkRecord
		wantErr string
	}{
		{"valid corpus", []BenchmarkRecord{valid}, ""},
		{"empty corpus is allowed", nil, ""},
		{"missing id", []BenchmarkRecord{{StudyType: StudyInterventional, Phase: 1}}, "protocol_id is required"},
		{"duplicate id", []BenchmarkRecord{valid, valid}, "duplicate protocol_id"},
		{"unknown study type", []BenchmarkRecord{{ID: "x", StudyType: "Pragmatic", Phase: 1}}, "unknown study_type"},
		{"phase out of range", []BenchmarkRecord{{ID: "x", StudyType: StudyInterventional, Phase: 5}}, "invalid phase"},
		{"score above 100", []BenchmarkRecord{{ID: "x", StudyType: StudyInterventional, Phase: 1, FinalPCSScore: 100.1}}, "outside [0,100]"},
		{"negative score", []BenchmarkRecord{{ID: "x", StudyType: StudyInterventional, Phase: 1, FinalPCSScore: -1}}, "outside [0,100]"},
		{"NaN score", []BenchmarkRecord{{ID: "x", StudyType: StudyInterventional, Phase: 1, FinalPCSScore: math.NaN()}}, "outside [0,100]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecords(tt.records)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
