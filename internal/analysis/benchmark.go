package analysis

import (
	"fmt"
	"math"
)

// Corpus is the read-only reference set of historical protocols. Records
// are copied in and out so callers can never mutate a loaded corpus.
type Corpus struct {
	records []BenchmarkRecord
	scores  []float64
}

// NewCorpus copies records into a new Corpus, preserving their order.
func NewCorpus(records []BenchmarkRecord) *Corpus {
	c := &Corpus{
		records: make([]BenchmarkRecord, len(records)),
		scores:  make([]float64, len(records)),
	}
	copy(c.records, records)
	for i, r := range records {
		c.scores[i] = r.FinalPCSScore
	}
	return c
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns a copy of the records in load order.
func (c *Corpus) Records() []BenchmarkRecord {
	if c == nil {
		return nil
	}
	out := make([]BenchmarkRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Scores returns a copy of the final PCS values in load order.
func (c *Corpus) Scores() []float64 {
	if c == nil {
		return nil
	}
	out := make([]float64, len(c.scores))
	copy(out, c.scores)
	return out
}

// Percentile ranks pcs against the corpus. See BenchmarkPercentile.
func (c *Corpus) Percentile(pcs float64) int {
	if c == nil {
		return 0
	}
	return percentileOf(pcs, c.scores)
}

// BenchmarkPercentile returns the share of corpus scores strictly below
// pcs, as a rounded integer percentage. Scores equal to pcs are not
// counted. An empty or nil corpus yields 0.
func BenchmarkPercentile(pcs float64, corpus *Corpus) int {
	return corpus.Percentile(pcs)
}

func percentileOf(pcs float64, scores []float64) int {
	if len(scores) == 0 {
		return 0
	}
	below := 0
	for _, s := range scores {
		if s < pcs {
			below++
		}
	}
	return int(math.Round(float64(below) / float64(len(scores)) * 100))
}

// ValidateRecords checks a corpus before it is accepted at load time.
func ValidateRecords(records []BenchmarkRecord) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return fmt.Errorf("record %d: protocol_id is required", i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("record %d: duplicate protocol_id %q", i, r.ID)
		}
		seen[r.ID] = struct{}{}
		if !r.StudyType.Valid() {
			return fmt.Errorf("record %q: unknown study_type %q", r.ID, r.StudyType)
		}
		if !r.Phase.Valid() {
			return fmt.Errorf("record %q: invalid phase %d", r.ID, int(r.Phase))
		}
		if math.IsNaN(r.FinalPCSScore) || r.FinalPCSScore < 0 || r.FinalPCSScore > 100 {
			return fmt.Errorf("record %q: final_pcs_score %v outside [0,100]", r.ID, r.FinalPCSScore)
		}
	}
	return nil
}
