package risk

import (
	"math"

	"github.com/priyam/numsense/internal/screening"
)

// ageThresholds are the per-age response-time calibration points (ms) used
// by the behavioral metrics: below MinThinking suggests guessing, above
// Slow suggests cognitive load.
type ageThresholds struct {
	MinThinking float64
	Normal      float64
	Slow        float64
}

var thresholdsByAge = map[screening.AgeGroup]ageThresholds{
	screening.Age5to6:  {MinThinking: 2000, Normal: 8000, Slow: 15000},
	screening.Age7to8:  {MinThinking: 1500, Normal: 6000, Slow: 12000},
	screening.Age9to10: {MinThinking: 1000, Normal: 5000, Slow: 10000},
}

// Extended is the behavioral profile computed over the flattened answer
// log of a session. It augments the six-field wire vector with the
// patterns the report screen surfaces: erratic timing, guessing, and
// hesitation.
type Extended struct {
	ResponseTimeVariance float64

	// MaxConsecutiveErrors is the longest run of wrong answers.
	MaxConsecutiveErrors int

	// RapidResponses counts answers faster than the age's minimum
	// thinking time (potential guessing).
	RapidResponses int

	// SlowResponses counts answers slower than the age's slow threshold.
	SlowResponses int

	// HesitationIndex blends slow responses and answer changes, in [0,1].
	HesitationIndex float64

	// ConfidenceIndex blends accuracy, selection stability, and speed,
	// in [0,1].
	ConfidenceIndex float64
}

// ExtendedFeatures computes the behavioral profile for the session's
// completed modules, calibrated to the given age group. Unknown age groups
// use the middle bracket.
func ExtendedFeatures(s *screening.Session, age screening.AgeGroup) Extended {
	th, ok := thresholdsByAge[age]
	if !ok {
		th = thresholdsByAge[screening.Age7to8]
	}

	var answers []screening.Answer
	for _, r := range s.TestResults() {
		answers = append(answers, r.Answers...)
	}
	if len(answers) == 0 {
		return Extended{}
	}

	var (
		sumMs      float64
		correct    int
		changes    int
		rapid      int
		slow       int
		runLength  int
		longestRun int
	)
	for _, a := range answers {
		ms := float64(a.ResponseTimeMs)
		sumMs += ms
		changes += a.AnswerChanges
		if ms < th.MinThinking {
			rapid++
		}
		if ms > th.Slow {
			slow++
		}
		if a.Correct {
			correct++
			runLength = 0
		} else {
			runLength++
			if runLength > longestRun {
				longestRun = runLength
			}
		}
	}

	n := float64(len(answers))
	mean := sumMs / n

	var variance float64
	if len(answers) > 1 {
		for _, a := range answers {
			d := float64(a.ResponseTimeMs) - mean
			variance += d * d
		}
		variance /= n
	}

	var hesitation float64
	if mean > 0 {
		timeFactor := math.Min(1, mean/th.Slow)
		changeFactor := math.Min(1, float64(changes)/(n*2))
		hesitation = (timeFactor + changeFactor) / 2
	}

	accuracy := float64(correct) / n
	stability := 1 - math.Min(1, float64(changes)/n)
	speedFactor := 1 - math.Min(1, mean/th.Normal)
	confidence := accuracy*0.4 + stability*0.3 + speedFactor*0.3

	return Extended{
		ResponseTimeVariance: variance,
		MaxConsecutiveErrors: longestRun,
		RapidResponses:       rapid,
		SlowResponses:        slow,
		HesitationIndex:      round3(hesitation),
		ConfidenceIndex:      round3(confidence),
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
