package analysis

import (
	"fmt"
	"math"
)

// ComplexityWeights pairs one weight with each ComplexityVector field.
type ComplexityWeights struct {
	NumObjectives          float64 `json:"num_objectives"`
	NumEndpoints           float64 `json:"num_endpoints"`
	NumEligibilityCriteria float64 `json:"num_eligibility_criteria"`
	NumCountries           float64 `json:"num_countries"`
}

// PatientBurdenWeights pairs one weight with each PatientBurdenVector field.
type PatientBurdenWeights struct {
	NumVisits                  float64 `json:"num_visits"`
	NumProceduresPerVisit      float64 `json:"num_procedures_per_visit"`
	IsInvasiveProcedure        float64 `json:"is_invasive_procedure"`
	NumPatientReportedOutcomes float64 `json:"num_patient_reported_outcomes"`
}

// SiteBurdenWeights pairs one weight with each SiteBurdenVector field.
type SiteBurdenWeights struct {
	NumCRFPages                    float64 `json:"num_crf_pages"`
	NumDataPoints                  float64 `json:"num_data_points"`
	IsSpecializedEquipmentRequired float64 `json:"is_specialized_equipment_required"`
	NumInvestigatorsPerSite        float64 `json:"num_investigators_per_site"`
}

// VectorWeights is the second weighting layer applied to the sub-scores.
// The three weights must sum to 1.0.
type VectorWeights struct {
	Complexity    float64 `json:"complexity"`
	PatientBurden float64 `json:"patient_burden"`
	SiteBurden    float64 `json:"site_burden"`
}

// Sum returns the total of the top-level weights.
func (w VectorWeights) Sum() float64 {
	return w.Complexity + w.PatientBurden + w.SiteBurden
}

// Weights is the full, immutable weighting configuration of a Scorer.
type Weights struct {
	Complexity    ComplexityWeights    `json:"complexity"`
	PatientBurden PatientBurdenWeights `json:"patient_burden"`
	SiteBurden    SiteBurdenWeights    `json:"site_burden"`
	Vector        VectorWeights        `json:"vector"`
}

const weightSumTolerance = 1e-9

// DefaultWeights returns the production weight tables.
func DefaultWeights() Weights {
	return Weights{
		Complexity: ComplexityWeights{
			NumObjectives:          2,
			NumEndpoints:           2.5,
			NumEligibilityCriteria: 1,
			NumCountries:           1.5,
		},
		PatientBurden: PatientBurdenWeights{
			NumVisits:                  3,
			NumProceduresPerVisit:      2,
			IsInvasiveProcedure:        15,
			NumPatientReportedOutcomes: 1,
		},
		SiteBurden: SiteBurdenWeights{
			NumCRFPages:                    0.1,
			NumDataPoints:                  0.01,
			IsSpecializedEquipmentRequired: 10,
			NumInvestigatorsPerSite:        2,
		},
		Vector: VectorWeights{
			Complexity:    0.45,
			PatientBurden: 0.35,
			SiteBurden:    0.20,
		},
	}
}

// Validate checks that no weight is negative or non-finite and that the
// vector weights sum to 1.0.
func (w Weights) Validate() error {
	for _, t := range w.terms(FeatureVector{}) {
		if err := checkWeight(t.name, t.weight); err != nil {
			return err
		}
	}
	for name, v := range map[string]float64{
		"vector.complexity":     w.Vector.Complexity,
		"vector.patient_burden": w.Vector.PatientBurden,
		"vector.site_burden":    w.Vector.SiteBurden,
	} {
		if err := checkWeight(name, v); err != nil {
			return err
		}
	}
	if sum := w.Vector.Sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("vector weights sum to %.4f, must sum to 1.0", sum)
	}
	return nil
}

func checkWeight(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("weight %s is not finite", name)
	}
	if v < 0 {
		return fmt.Errorf("negative weight %s: %f", name, v)
	}
	return nil
}

// term is one (field value, weight) pair of a sub-vector.
type term struct {
	name   string
	value  float64
	weight float64
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// complexityTerms lists every ComplexityVector field with its weight.
// Adding a field to the vector requires adding it here and to
// ComplexityWeights; TestTermsCoverEveryField enforces that.
func complexityTerms(v ComplexityVector, w ComplexityWeights) []term {
	return []term{
		{"complexity.num_objectives", float64(v.NumObjectives), w.NumObjectives},
		{"complexity.num_endpoints", float64(v.NumEndpoints), w.NumEndpoints},
		{"complexity.num_eligibility_criteria", float64(v.NumEligibilityCriteria), w.NumEligibilityCriteria},
		{"complexity.num_countries", float64(v.NumCountries), w.NumCountries},
	}
}

func patientBurdenTerms(v PatientBurdenVector, w PatientBurdenWeights) []term {
	return []term{
		{"patient_burden.num_visits", float64(v.NumVisits), w.NumVisits},
		{"patient_burden.num_procedures_per_visit", float64(v.NumProceduresPerVisit), w.NumProceduresPerVisit},
		{"patient_burden.is_invasive_procedure", boolValue(v.IsInvasiveProcedure), w.IsInvasiveProcedure},
		{"patient_burden.num_patient_reported_outcomes", float64(v.NumPatientReportedOutcomes), w.NumPatientReportedOutcomes},
	}
}

func siteBurdenTerms(v SiteBurdenVector, w SiteBurdenWeights) []term {
	return []term{
		{"site_burden.num_crf_pages", float64(v.NumCRFPages), w.NumCRFPages},
		{"site_burden.num_data_points", float64(v.NumDataPoints), w.NumDataPoints},
		{"site_burden.is_specialized_equipment_required", boolValue(v.IsSpecializedEquipmentRequired), w.IsSpecializedEquipmentRequired},
		{"site_burden.num_investigators_per_site", float64(v.NumInvestigatorsPerSite), w.NumInvestigatorsPerSite},
	}
}

func (w Weights) terms(f FeatureVector) []term {
	ts := make([]term, 0, 12)
	ts = append(ts, complexityTerms(f.Complexity, w.Complexity)...)
	ts = append(ts, patientBurdenTerms(f.PatientBurden, w.PatientBurden)...)
	ts = append(ts, siteBurdenTerms(f.SiteBurden, w.SiteBurden)...)
	return ts
}
