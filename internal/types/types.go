package types

import (
	"time"

	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
)

// Request fields are pointers so that an omitted field fails binding
// instead of silently scoring as zero.

// ComplexityInput is the wire form of analysis.ComplexityVector
type ComplexityInput struct {
	NumObjectives          *int `json:"num_objectives" binding:"required,min=0"`
	NumEndpoints           *int `json:"num_endpoints" binding:"required,min=0"`
	NumEligibilityCriteria *int `json:"num_eligibility_criteria" binding:"required,min=0"`
	NumCountries           *int `json:"num_countries" binding:"required,min=0"`
}

// PatientBurdenInput is the wire form of analysis.PatientBurdenVector
type PatientBurdenInput struct {
	NumVisits                  *int  `json:"num_visits" binding:"required,min=0"`
	NumProceduresPerVisit      *int  `json:"num_procedures_per_visit" binding:"required,min=0"`
	IsInvasiveProcedure        *bool `json:"is_invasive_procedure" binding:"required"`
	NumPatientReportedOutcomes *int  `json:"num_patient_reported_outcomes" binding:"required,min=0"`
}

// SiteBurdenInput is the wire form of analysis.SiteBurdenVector
type SiteBurdenInput struct {
	NumCRFPages                    *int  `json:"num_crf_pages" binding:"required,min=0"`
	NumDataPoints                  *int  `json:"num_data_points" binding:"required,min=0"`
	IsSpecializedEquipmentRequired *bool `json:"is_specialized_equipment_required" binding:"required"`
	NumInvestigatorsPerSite        *int  `json:"num_investigators_per_site" binding:"required,min=0"`
}

// ScoreRequest represents the request structure for the score endpoint
type ScoreRequest struct {
	Complexity    *ComplexityInput    `json:"complexity" binding:"required"`
	PatientBurden *PatientBurdenInput `json:"patient_burden" binding:"required"`
	SiteBurden    *SiteBurdenInput    `json:"site_burden" binding:"required"`
}

// ToFeatureVector converts a bound request. It must only be called after
// binding succeeded, since every pointer is dereferenced.
func (r *ScoreRequest) ToFeatureVector() analysis.FeatureVector {
	return analysis.FeatureVector{
		Complexity: analysis.ComplexityVector{
			NumObjectives:          *r.Complexity.NumObjectives,
			NumEndpoints:           *r.Complexity.NumEndpoints,
			NumEligibilityCriteria: *r.Complexity.NumEligibilityCriteria,
			NumCountries:           *r.Complexity.NumCountries,
		},
		PatientBurden: analysis.PatientBurdenVector{
			NumVisits:                  *r.PatientBurden.NumVisits,
			NumProceduresPerVisit:      *r.PatientBurden.NumProceduresPerVisit,
			IsInvasiveProcedure:        *r.PatientBurden.IsInvasiveProcedure,
			NumPatientReportedOutcomes: *r.PatientBurden.NumPatientReportedOutcomes,
		},
		SiteBurden: analysis.SiteBurdenVector{
			NumCRFPages:                    *r.SiteBurden.NumCRFPages,
			NumDataPoints:                  *r.SiteBurden.NumDataPoints,
			IsSpecializedEquipmentRequired: *r.SiteBurden.IsSpecializedEquipmentRequired,
			NumInvestigatorsPerSite:        *r.SiteBurden.NumInvestigatorsPerSite,
		},
	}
}

// NewScoreRequest builds a fully populated request from a feature vector
func NewScoreRequest(f analysis.FeatureVector) ScoreRequest {
	c, p, s := f.Complexity, f.PatientBurden, f.SiteBurden
	return ScoreRequest{
		Complexity: &ComplexityInput{
			NumObjectives:          &c.NumObjectives,
			NumEndpoints:           &c.NumEndpoints,
			NumEligibilityCriteria: &c.NumEligibilityCriteria,
			NumCountries:           &c.NumCountries,
		},
		PatientBurden: &PatientBurdenInput{
			NumVisits:                  &p.NumVisits,
			NumProceduresPerVisit:      &p.NumProceduresPerVisit,
			IsInvasiveProcedure:        &p.IsInvasiveProcedure,
			NumPatientReportedOutcomes: &p.NumPatientReportedOutcomes,
		},
		SiteBurden: &SiteBurdenInput{
			NumCRFPages:                    &s.NumCRFPages,
			NumDataPoints:                  &s.NumDataPoints,
			IsSpecializedEquipmentRequired: &s.IsSpecializedEquipmentRequired,
			NumInvestigatorsPerSite:        &s.NumInvestigatorsPerSite,
		},
	}
}

// ScoreResponse wraps a scoring result with request metadata
type ScoreResponse struct {
	RequestID  string                 `json:"requestId,omitempty"`
	ProtocolID string                 `json:"protocolId,omitempty"`
	Result     analysis.ScoringResult `json:"result"`
	ScoredAt   time.Time              `json:"scoredAt"`
	Cached     bool                   `json:"cached"`
}

// BenchmarkResponse describes the loaded reference corpus
type BenchmarkResponse struct {
	Records []analysis.BenchmarkRecord `json:"records"`
	Summary analysis.CorpusSummary     `json:"summary"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status     string `json:"status"`
	CorpusSize int    `json:"corpusSize"`
	Source     string `json:"corpusSource"`
	Timestamp  string `json:"timestamp"`
}

// ErrorResponse documents the error envelope for swagger
type ErrorResponse struct {
	Error struct {
		Code      string                 `json:"code"`
		Message   string                 `json:"message"`
		Category  string                 `json:"category"`
		Details   map[string]interface{} `json:"details,omitempty"`
		Timestamp string                 `json:"timestamp"`
	} `json:"error"`
}
