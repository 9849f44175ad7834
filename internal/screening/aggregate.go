package screening

// Aggregate queries over the completed-test history. These are computed on
// demand from the results the session holds; nothing here is cached or
// stored. The result/dashboard views and the risk feature extractor are
// the consumers.

// TotalQuestions sums TotalQuestions across all completed modules.
func (s *Session) TotalQuestions() int {
	total := 0
	for _, r := range s.testResults {
		total += r.TotalQuestions
	}
	return total
}

// TotalCorrect sums CorrectAnswers across all completed modules.
func (s *Session) TotalCorrect() int {
	total := 0
	for _, r := range s.testResults {
		total += r.CorrectAnswers
	}
	return total
}

// OverallAccuracy returns totalCorrect / totalQuestions as a percentage,
// or 0 when no questions have been presented.
func (s *Session) OverallAccuracy() float64 {
	total := s.TotalQuestions()
	if total == 0 {
		return 0
	}
	return float64(s.TotalCorrect()) / float64(total) * 100
}

// OverallAvgResponseTime returns the mean of each module's mean response
// time, in milliseconds. This is deliberately a mean of means, not
// re-weighted by question count: the dashboard has always displayed this
// figure and downstream consumers compare against it.
func (s *Session) OverallAvgResponseTime() float64 {
	if len(s.testResults) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.testResults {
		sum += r.AvgResponseTime
	}
	return sum / float64(len(s.testResults))
}

// MaxDelay returns the largest single-answer response time across every
// recorded answer, in milliseconds.
func (s *Session) MaxDelay() int64 {
	var max int64
	for _, r := range s.testResults {
		for _, a := range r.Answers {
			if a.ResponseTimeMs > max {
				max = a.ResponseTimeMs
			}
		}
	}
	return max
}

// TotalAnswerChanges sums the answer-change counts across every recorded
// answer.
func (s *Session) TotalAnswerChanges() int {
	total := 0
	for _, r := range s.testResults {
		for _, a := range r.Answers {
			total += a.AnswerChanges
		}
	}
	return total
}

// SkippedQuestions counts question slots that ended a module without any
// recorded answer: for each result, the shortfall of answers against
// questions presented, never negative, so duplicate submissions in one
// module cannot offset gaps in another.
func (s *Session) SkippedQuestions() int {
	total := 0
	for _, r := range s.testResults {
		if gap := r.TotalQuestions - len(r.Answers); gap > 0 {
			total += gap
		}
	}
	return total
}
