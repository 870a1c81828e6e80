package analysis

// RiskLevel is the discrete risk tier derived from a PCS.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskCritical RiskLevel = "Critical"
)

// Lower bounds, inclusive, of the Critical and Medium tiers.
const (
	CriticalThreshold = 70.0
	MediumThreshold   = 40.0
)

// Label is the display form, e.g. "Critical Risk".
func (l RiskLevel) Label() string {
	return string(l) + " Risk"
}

// RiskProfile is a risk tier with its operational explanation.
type RiskProfile struct {
	Level       RiskLevel `json:"level"`
	Label       string    `json:"label"`
	Explanation string    `json:"explanation"`
}

var riskExplanations = map[RiskLevel]string{
	RiskCritical: "This protocol exhibits a high degree of complexity, posing significant risks to timelines, budget, and patient recruitment. Immediate simplification is strongly recommended.",
	RiskMedium:   "This protocol has moderate complexity. While manageable, certain aspects may introduce challenges. Review actionable insights to identify areas for optimization.",
	RiskLow:      "This protocol is well-structured with a low complexity profile. It is likely to proceed with minimal operational friction and high efficiency.",
}

// ClassifyRisk maps a PCS to its tier, checking from the highest tier down.
func ClassifyRisk(pcs float64) RiskProfile {
	level := RiskLow
	switch {
	case pcs >= CriticalThreshold:
		level = RiskCritical
	case pcs >= MediumThreshold:
		level = RiskMedium
	}
	return RiskProfile{
		Level:       level,
		Label:       level.Label(),
		Explanation: riskExplanations[level],
	}
}
