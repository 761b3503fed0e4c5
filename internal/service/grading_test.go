package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-app/studyhub-api/internal/models"
)

func sampleQuestions() []models.QuizQuestion {
	return []models.QuizQuestion{
		{
			ID:           "q1",
			QuestionType: models.QuestionMultipleChoice,
			Options: models.OptionList{
				{OptionText: "Mercury", IsCorrect: true},
				{OptionText: "Venus"},
				{OptionText: "Mars"},
			},
			Points: 2,
		},
		{
			ID:            "q2",
			QuestionType:  models.QuestionTrueFalse,
			CorrectAnswer: "true",
			Points:        1,
		},
		{
			ID:            "q3",
			QuestionType:  models.QuestionShortAnswer,
			CorrectAnswer: "Photosynthesis",
			Points:        3,
		},
	}
}

func TestGradeAllCorrect(t *testing.T) {
	result := Grade(sampleQuestions(), []models.SubmittedAnswer{
		{QuestionID: "q1", Answer: "Mercury"},
		{QuestionID: "q2", Answer: "true"},
		{QuestionID: "q3", Answer: "  photosynthesis "},
	})

	require.Equal(t, 6, result.Score)
	require.Equal(t, 6, result.TotalPoints)
	for _, a := range result.Answers {
		assert.True(t, a.Correct, a.QuestionID)
	}
}

func TestGradeMultipleChoiceWrongOption(t *testing.T) {
	result := Grade(sampleQuestions(), []models.SubmittedAnswer{
		{QuestionID: "q1", Answer: "Venus"},
	})

	require.Equal(t, 0, result.Score)
	require.Equal(t, 6, result.TotalPoints)
	require.False(t, result.Answers[0].Correct)
	require.Zero(t, result.Answers[0].PointsEarned)
}

func TestGradeShortAnswerCaseAndWhitespace(t *testing.T) {
	questions := []models.QuizQuestion{
		{ID: "q1", QuestionType: models.QuestionShortAnswer, CorrectAnswer: "Mitochondria", Points: 1},
	}

	correct := Grade(questions, []models.SubmittedAnswer{{QuestionID: "q1", Answer: "  MITOCHONDRIA\t"}})
	require.Equal(t, 1, correct.Score)

	wrong := Grade(questions, []models.SubmittedAnswer{{QuestionID: "q1", Answer: "Mito chondria"}})
	require.Equal(t, 0, wrong.Score)
}

func TestGradeTrueFalseExactMatch(t *testing.T) {
	questions := []models.QuizQuestion{
		{ID: "q1", QuestionType: models.QuestionTrueFalse, CorrectAnswer: "false", Points: 2},
	}

	result := Grade(questions, []models.SubmittedAnswer{{QuestionID: "q1", Answer: "False"}})
	require.Equal(t, 0, result.Score, "comparison is exact, not case-folded")

	result = Grade(questions, []models.SubmittedAnswer{{QuestionID: "q1", Answer: "false"}})
	require.Equal(t, 2, result.Score)
}

func TestGradeUnknownQuestionID(t *testing.T) {
	result := Grade(sampleQuestions(), []models.SubmittedAnswer{
		{QuestionID: "q1", Answer: "Mercury"},
		{QuestionID: "ghost", Answer: "anything"},
	})

	require.Equal(t, 2, result.Score)
	require.Equal(t, 6, result.TotalPoints, "unknown question does not inflate the total")

	var ghost *models.GradedAnswer
	for i := range result.Answers {
		if result.Answers[i].QuestionID == "ghost" {
			ghost = &result.Answers[i]
		}
	}
	require.NotNil(t, ghost)
	assert.False(t, ghost.Correct)
	assert.Zero(t, ghost.PointsEarned)
}

func TestGradeMissingAnswers(t *testing.T) {
	result := Grade(sampleQuestions(), nil)

	require.Equal(t, 0, result.Score)
	require.Equal(t, 6, result.TotalPoints)
	require.Len(t, result.Answers, 3, "every question is graded even when unanswered")
	for _, a := range result.Answers {
		assert.False(t, a.Correct)
	}
}

func TestGradeEmptyQuiz(t *testing.T) {
	result := Grade(nil, []models.SubmittedAnswer{{QuestionID: "q1", Answer: "x"}})

	require.Equal(t, 0, result.Score)
	require.Equal(t, 0, result.TotalPoints)
	require.Len(t, result.Answers, 1)
	require.False(t, result.Answers[0].Correct)
}
