package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ComplexityVector describes the scientific design of a protocol.
type ComplexityVector struct {
	NumObjectives          int `json:"num_objectives" yaml:"num_objectives"`
	NumEndpoints           int `json:"num_endpoints" yaml:"num_endpoints"`
	NumEligibilityCriteria int `json:"num_eligibility_criteria" yaml:"num_eligibility_criteria"`
	NumCountries           int `json:"num_countries" yaml:"num_countries"`
}

// PatientBurdenVector describes what the protocol asks of each participant.
type PatientBurdenVector struct {
	NumVisits                  int  `json:"num_visits" yaml:"num_visits"`
	NumProceduresPerVisit      int  `json:"num_procedures_per_visit" yaml:"num_procedures_per_visit"`
	IsInvasiveProcedure        bool `json:"is_invasive_procedure" yaml:"is_invasive_procedure"`
	NumPatientReportedOutcomes int  `json:"num_patient_reported_outcomes" yaml:"num_patient_reported_outcomes"`
}

// SiteBurdenVector describes the operational load placed on investigator sites.
type SiteBurdenVector struct {
	NumCRFPages                    int  `json:"num_crf_pages" yaml:"num_crf_pages"`
	NumDataPoints                  int  `json:"num_data_points" yaml:"num_data_points"`
	IsSpecializedEquipmentRequired bool `json:"is_specialized_equipment_required" yaml:"is_specialized_equipment_required"`
	NumInvestigatorsPerSite        int  `json:"num_investigators_per_site" yaml:"num_investigators_per_site"`
}

// FeatureVector is the sole input to scoring.
type FeatureVector struct {
	Complexity    ComplexityVector    `json:"complexity" yaml:"complexity"`
	PatientBurden PatientBurdenVector `json:"patient_burden" yaml:"patient_burden"`
	SiteBurden    SiteBurdenVector    `json:"site_burden" yaml:"site_burden"`
}

// VectorScores holds the three weighted sub-scores.
type VectorScores struct {
	Complexity    float64 `json:"complexityScore"`
	PatientBurden float64 `json:"patientBurdenScore"`
	SiteBurden    float64 `json:"siteBurdenScore"`
}

// Contributor is one weighted field of a sub-vector.
type Contributor struct {
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
}

// ScoringResult is produced fresh for every scoring call.
type ScoringResult struct {
	PCSScore            float64       `json:"pcsScore"`
	BenchmarkPercentile int           `json:"benchmarkPercentile"`
	RiskProfile         RiskProfile   `json:"riskProfile"`
	SubScores           VectorScores  `json:"subScores"`
	Contributors        []Contributor `json:"contributors"`
}

// StudyType is the design family of a historical protocol.
type StudyType string

const (
	StudyInterventional StudyType = "Interventional"
	StudyObservational  StudyType = "Observational"
)

// Valid reports whether t is a known study type.
func (t StudyType) Valid() bool {
	return t == StudyInterventional || t == StudyObservational
}

// Phase is a clinical phase 1-4, or PhaseNotApplicable.
type Phase int

const PhaseNotApplicable Phase = 0

const phaseNotApplicableLabel = "N/A"

// Valid reports whether p is 1-4 or not applicable.
func (p Phase) Valid() bool {
	return p >= PhaseNotApplicable && p <= 4
}

// Label is the grouping label used for phase comparisons.
func (p Phase) Label() string {
	if p == PhaseNotApplicable {
		return string(StudyObservational)
	}
	return fmt.Sprintf("Phase %d", int(p))
}

func (p Phase) String() string {
	if p == PhaseNotApplicable {
		return phaseNotApplicableLabel
	}
	return strconv.Itoa(int(p))
}

func parsePhase(s string) (Phase, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, phaseNotApplicableLabel) {
		return PhaseNotApplicable, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 4 {
		return 0, fmt.Errorf("invalid phase %q", s)
	}
	return Phase(n), nil
}

// MarshalJSON writes phases as numbers and not-applicable as "N/A".
func (p Phase) MarshalJSON() ([]byte, error) {
	if p == PhaseNotApplicable {
		return json.Marshal(phaseNotApplicableLabel)
	}
	return json.Marshal(int(p))
}

// UnmarshalJSON accepts a number or the string "N/A".
func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := parsePhase(s)
		if err != nil {
			return err
		}
		*p = v
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid phase %s", string(data))
	}
	v, err := parsePhase(strconv.Itoa(n))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalYAML mirrors MarshalJSON.
func (p Phase) MarshalYAML() (interface{}, error) {
	if p == PhaseNotApplicable {
		return phaseNotApplicableLabel, nil
	}
	return int(p), nil
}

// UnmarshalYAML accepts a number or the string "N/A".
func (p *Phase) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: phase must be a scalar", node.Line)
	}
	v, err := parsePhase(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*p = v
	return nil
}

// BenchmarkRecord is one historical protocol in the reference corpus.
type BenchmarkRecord struct {
	ID            string    `json:"protocol_id" yaml:"protocol_id"`
	StudyType     StudyType `json:"study_type" yaml:"study_type"`
	Phase         Phase     `json:"phase" yaml:"phase"`
	FinalPCSScore float64   `json:"final_pcs_score" yaml:"final_pcs_score"`
}
