package service

import (
	"testing"

	"mathquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestGradeNumericAnswer(t *testing.T) {
	p := &model.Problem{
		AnswerType:      model.AnswerNumeric,
		AnswerValue:     "3.14",
		AnswerTolerance: 0.01,
	}

	assert.True(t, gradeAnswer(p, "3.14"))
	assert.True(t, gradeAnswer(p, " 3.141 "))
	assert.True(t, gradeAnswer(p, "3.13"))
	assert.False(t, gradeAnswer(p, "3.2"))
	assert.False(t, gradeAnswer(p, "pi"))
	assert.False(t, gradeAnswer(p, ""))
}

func TestGradeNumericExactWhenZeroTolerance(t *testing.T) {
	p := &model.Problem{
		AnswerType:  model.AnswerNumeric,
		AnswerValue: "42",
	}

	assert.True(t, gradeAnswer(p, "42"))
	assert.True(t, gradeAnswer(p, "42.0"))
	assert.False(t, gradeAnswer(p, "42.0001"))
}

func TestGradeTextAnswer(t *testing.T) {
	p := &model.Problem{
		AnswerType:  model.AnswerText,
		AnswerValue: "isosceles",
	}

	assert.True(t, gradeAnswer(p, "isosceles"))
	assert.True(t, gradeAnswer(p, "  Isosceles "))
	assert.True(t, gradeAnswer(p, "ISOSCELES"))
	assert.False(t, gradeAnswer(p, "scalene"))
	assert.False(t, gradeAnswer(p, ""))
}
