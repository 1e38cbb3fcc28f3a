package domain

// RiskLevel is the four-bucket classification of a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskSevere   RiskLevel = "SEVERE"
)

// RiskLevelForScore maps a score to its risk level. This is the single
// classification used everywhere a score is surfaced.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score <= 25:
		return RiskLow
	case score <= 50:
		return RiskModerate
	case score <= 75:
		return RiskHigh
	default:
		return RiskSevere
	}
}
