package risk

import (
	"fmt"

	"github.com/priyam/numsense/internal/screening"
)

// Heuristic is the local risk classifier used when the scoring service is
// unreachable. It reproduces the service's fallback banding (accuracy
// above 70% is low risk, above 40% medium, otherwise high) with the same
// explanation and recommendation texts, so the report reads identically
// whether or not the backend was reachable.

const fallbackConfidence = 0.85

var recommendations = map[screening.RiskLevel][]string{
	screening.RiskLow: {
		"Continue with regular age-appropriate math activities",
		"Encourage number games and puzzles",
		"Celebrate their mathematical curiosity",
	},
	screening.RiskMedium: {
		"Consider additional practice with number concepts",
		"Use visual and hands-on learning materials",
		"Monitor progress over the next few months",
		"Consult with teacher about classroom support",
	},
	screening.RiskHigh: {
		"Schedule an evaluation with an educational psychologist",
		"Explore specialized learning support options",
		"Use multi-sensory learning approaches",
		"Connect with school special education services",
		"Consider working with a math specialist tutor",
	},
}

// Classify bands the session's overall accuracy into a risk verdict.
func Classify(s *screening.Session) screening.RiskAssessment {
	accuracy := s.OverallAccuracy()

	var level screening.RiskLevel
	switch {
	case accuracy > 70:
		level = screening.RiskLow
	case accuracy > 40:
		level = screening.RiskMedium
	default:
		level = screening.RiskHigh
	}

	return screening.RiskAssessment{
		Level:           level,
		Confidence:      fallbackConfidence,
		Explanation:     explanation(level, accuracy),
		Recommendations: recommendations[level],
	}
}

func explanation(level screening.RiskLevel, accuracy float64) string {
	switch level {
	case screening.RiskLow:
		return fmt.Sprintf("Based on the assessment (accuracy: %.1f%%), your child showed strong number sense and mathematical reasoning. Response times were within normal range.", accuracy)
	case screening.RiskMedium:
		return fmt.Sprintf("The assessment shows some areas that may benefit from additional support (accuracy: %.1f%%). This is common and doesn't indicate a diagnosis.", accuracy)
	default:
		return fmt.Sprintf("The screening suggests that a professional evaluation may be beneficial (accuracy: %.1f%%). Early support can make a significant positive difference.", accuracy)
	}
}
