package service

import (
	"math"
	"strconv"
	"strings"

	"mathquest_backend/internal/model"
)

// gradeAnswer checks a submission against the problem's answer spec.
// Numeric answers compare within the author's tolerance; text answers
// compare trimmed and case-insensitively.
func gradeAnswer(p *model.Problem, answer string) bool {
	answer = strings.TrimSpace(answer)

	if p.AnswerType == model.AnswerNumeric {
		got, err := strconv.ParseFloat(answer, 64)
		if err != nil {
			return false
		}
		want, err := strconv.ParseFloat(strings.TrimSpace(p.AnswerValue), 64)
		if err != nil {
			return false
		}
		return math.Abs(got-want) <= p.AnswerTolerance
	}

	return strings.EqualFold(answer, strings.TrimSpace(p.AnswerValue))
}
