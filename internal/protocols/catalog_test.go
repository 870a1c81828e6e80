package protocols

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
)

func TestDefault_ScoresMatchKnownValues(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Equal(t, 6, c.Len())

	expected := map[string]float64{
		"NIVO-LUNG-001": 91.7,
		"HER2-BR-002":   54.7,
		"AML-LEUK-003":  99.3,
		"BRAF-MEL-004":  30.2,
		"ENZA-PROS-005": 45.5,
		"GBM-RAD-006":   72.8,
	}

	for _, p := range c.All() {
		want, ok := expected[p.ID]
		require.True(t, ok, "unexpected protocol %s", p.ID)
		assert.Equal(t, want, analysis.ScorePCS(p.FeatureVector), p.ID)
	}
}

func TestCatalog_Get(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	p, ok := c.Get("BRAF-MEL-004")
	require.True(t, ok)
	assert.Equal(t, analysis.StudyObservational, p.StudyType)
	assert.Equal(t, analysis.PhaseNotApplicable, p.Phase)
	assert.Equal(t, 800, p.SiteBurden.NumDataPoints)

	_, ok = c.Get("NOPE")
	assert.False(t, ok)
}

func TestCatalog_AllReturnsCopy(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	all := c.All()
	all[0].Title = "changed"
	first, _ := c.Get(all[0].ID)
	assert.NotEqual(t, "changed", first.Title)
}

func TestProtocol_JSONIsFlat(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	p, _ := c.Get("NIVO-LUNG-001")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "NIVO-LUNG-001", m["protocol_id"])
	assert.Equal(t, 3.0, m["phase"])
	assert.Contains(t, m, "complexity")
	assert.Contains(t, m, "site_burden")
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", "protocols:\n  - title: x\n    study_type: Interventional\n    phase: 1\n"},
		{"duplicate id", "protocols:\n  - {protocol_id: A, study_type: Interventional, phase: 1}\n  - {protocol_id: A, study_type: Interventional, phase: 2}\n"},
		{"bad study type", "protocols:\n  - {protocol_id: A, study_type: Expanded, phase: 1}\n"},
		{"unknown field", "protocols:\n  - {protocol_id: A, study_type: Interventional, phase: 1, arm: 2}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
