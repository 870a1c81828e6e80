package main

import (
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
	"github.com/ZanzyTHEbar/protoscore/internal/errors"
	"github.com/ZanzyTHEbar/protoscore/internal/types"
)

// handleHealth godoc
// @Summary      Health check
// @Description  Reports liveness and the size of the loaded benchmark corpus
// @Tags         system
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Router       /health [get]
func (d *deps) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, types.HealthResponse{
		Status:     "ok",
		CorpusSize: d.analyzer.Corpus().Len(),
		Source:     d.corpusSource,
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}

// handleScore godoc
// @Summary      Score a protocol
// @Description  Computes the PCS, benchmark percentile and risk tier for a feature vector
// @Tags         scoring
// @Accept       json
// @Produce      json
// @Param        request  body      types.ScoreRequest  true  "Protocol feature vector"
// @Success      200      {object}  types.ScoreResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      429      {object}  types.ErrorResponse
// @Router       /score [post]
func (d *deps) handleScore(c *gin.Context) {
	var req types.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.Abort(c, errors.FromBindingError(err))
		return
	}
	d.respondScore(c, "", req.ToFeatureVector())
}

// handleListProtocols godoc
// @Summary      List demo protocols
// @Tags         protocols
// @Produce      json
// @Success      200  {array}  protocols.Protocol
// @Router       /protocols [get]
func (d *deps) handleListProtocols(c *gin.Context) {
	c.JSON(http.StatusOK, d.catalog.All())
}

// handleGetProtocol godoc
// @Summary      Get a demo protocol
// @Tags         protocols
// @Produce      json
// @Param        id   path      string  true  "Protocol id"
// @Success      200  {object}  protocols.Protocol
// @Failure      404  {object}  types.ErrorResponse
// @Router       /protocols/{id} [get]
func (d *deps) handleGetProtocol(c *gin.Context) {
	id := c.Param("id")
	p, ok := d.catalog.Get(id)
	if !ok {
		errors.Abort(c, errors.NewNotFoundError("protocol", id))
		return
	}
	c.JSON(http.StatusOK, p)
}

// handleScoreProtocol godoc
// @Summary      Score a demo protocol
// @Tags         protocols
// @Produce      json
// @Param        id   path      string  true  "Protocol id"
// @Success      200  {object}  types.ScoreResponse
// @Failure      404  {object}  types.ErrorResponse
// @Router       /protocols/{id}/score [post]
func (d *deps) handleScoreProtocol(c *gin.Context) {
	id := c.Param("id")
	p, ok := d.catalog.Get(id)
	if !ok {
		errors.Abort(c, errors.NewNotFoundError("protocol", id))
		return
	}
	d.respondScore(c, p.ID, p.FeatureVector)
}

// handleBenchmark godoc
// @Summary      Benchmark corpus
// @Description  Returns the reference corpus with summary statistics
// @Tags         benchmark
// @Produce      json
// @Success      200  {object}  types.BenchmarkResponse
// @Router       /benchmark [get]
func (d *deps) handleBenchmark(c *gin.Context) {
	corpus := d.analyzer.Corpus()
	c.JSON(http.StatusOK, types.BenchmarkResponse{
		Records: corpus.Records(),
		Summary: analysis.Summarize(corpus),
	})
}

// handleBenchmarkPhases godoc
// @Summary      Compare a score with per-phase corpus means
// @Tags         benchmark
// @Produce      json
// @Param        score  query     number  true  "Candidate PCS"
// @Success      200    {object}  analysis.PhaseComparison
// @Failure      400    {object}  types.ErrorResponse
// @Router       /benchmark/phases [get]
func (d *deps) handleBenchmarkPhases(c *gin.Context) {
	raw, ok := c.GetQuery("score")
	if !ok || raw == "" {
		errors.Abort(c, errors.NewValidationErrorWithMap(map[string]string{"score": "is required"}))
		return
	}
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		errors.Abort(c, errors.NewValidationErrorWithMap(map[string]string{"score": "must be a finite number"}))
		return
	}
	c.JSON(http.StatusOK, analysis.ComparePhases(d.analyzer.Corpus(), score))
}

func (d *deps) respondScore(c *gin.Context, protocolID string, f analysis.FeatureVector) {
	start := time.Now()

	res, cached := d.results.GetOrCompute(f, func() analysis.ScoringResult {
		return d.analyzer.Analyze(f)
	})
	// cached results share their backing array
	res.Contributors = slices.Clone(res.Contributors)
	d.logger.CacheLogger("score", cacheKeyLabel(protocolID), cached, d.results.Size())

	risk := string(res.RiskProfile.Level)
	d.metrics.RecordScore(res.PCSScore, risk)
	d.logger.ScoreLogger(protocolID, res.PCSScore, res.BenchmarkPercentile, risk, time.Since(start), cached)

	c.JSON(http.StatusOK, types.ScoreResponse{
		RequestID:  c.GetString("request_id"),
		ProtocolID: protocolID,
		Result:     res,
		ScoredAt:   time.Now().UTC(),
		Cached:     cached,
	})
}

func cacheKeyLabel(protocolID string) string {
	if protocolID == "" {
		return "adhoc"
	}
	return protocolID
}
