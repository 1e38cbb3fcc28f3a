package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelForScore(t *testing.T) {
	cases := []struct {
		score float64
		level RiskLevel
	}{
		{0, RiskLow},
		{25, RiskLow},
		{25.1, RiskModerate},
		{50, RiskModerate},
		{50.1, RiskHigh},
		{75, RiskHigh},
		{75.1, RiskSevere},
		{100, RiskSevere},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, RiskLevelForScore(tc.score), "score %v", tc.score)
	}
}
