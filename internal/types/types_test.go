package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
)

func TestScoreRequest_RoundTrip(t *testing.T) {
	f := analysis.FeatureVector{
		Complexity:    analysis.ComplexityVector{NumObjectives: 3, NumEndpoints: 5, NumEligibilityCriteria: 25, NumCountries: 10},
		PatientBurden: analysis.PatientBurdenVector{NumVisits: 20, NumProceduresPerVisit: 4, IsInvasiveProcedure: true, NumPatientReportedOutcomes: 5},
		SiteBurden:    analysis.SiteBurdenVector{NumCRFPages: 150, NumDataPoints: 3000, IsSpecializedEquipmentRequired: true, NumInvestigatorsPerSite: 4},
	}

	req := NewScoreRequest(f)
	data, err := json.Marshal(req)
	require.NoError(t, err)

	var back ScoreRequest
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, f, back.ToFeatureVector())
}

func TestNewScoreRequest_DoesNotAlias(t *testing.T) {
	f := analysis.FeatureVector{}
	req := NewScoreRequest(f)
	*req.Complexity.NumObjectives = 9
	assert.Equal(t, 0, f.Complexity.NumObjectives)
}
