package analysis

// Analyzer runs the full scoring pipeline against one loaded corpus.
type Analyzer struct {
	scorer *Scorer
	corpus *Corpus
}

// NewAnalyzer creates an analyzer. A nil scorer uses the default weights.
func NewAnalyzer(scorer *Scorer, corpus *Corpus) *Analyzer {
	if scorer == nil {
		scorer = defaultScorer
	}
	if corpus == nil {
		corpus = NewCorpus(nil)
	}
	return &Analyzer{scorer: scorer, corpus: corpus}
}

// Corpus returns the reference corpus the analyzer benchmarks against.
func (a *Analyzer) Corpus() *Corpus { return a.corpus }

// Scorer returns the scorer in use.
func (a *Analyzer) Scorer() *Scorer { return a.scorer }

// Analyze scores f, then benchmarks and classifies the resulting PCS.
func (a *Analyzer) Analyze(f FeatureVector) ScoringResult {
	sub := a.scorer.ScoreVectors(f)
	pcs := a.scorer.Aggregate(sub)

	return ScoringResult{
		PCSScore:            pcs,
		BenchmarkPercentile: a.corpus.Percentile(pcs),
		RiskProfile:         ClassifyRisk(pcs),
		SubScores:           sub,
		Contributors:        a.scorer.Contributors(f),
	}
}
