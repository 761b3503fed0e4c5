package service

import (
	"strings"

	"github.com/studyhub-app/studyhub-api/internal/models"
)

// GradeResult is the outcome of grading one submission against a quiz's
// question set.
type GradeResult struct {
	Answers     models.GradedAnswerList
	Score       int
	TotalPoints int
}

// Grade scores submitted answers against the quiz questions. The total is
// the sum of points across the quiz's questions; answers referencing unknown
// question ids earn zero and do not change the total. A question left
// unanswered counts as incorrect.
func Grade(questions []models.QuizQuestion, answers []models.SubmittedAnswer) GradeResult {
	answerByQuestion := make(map[string]string, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a.Answer
	}

	known := make(map[string]struct{}, len(questions))
	result := GradeResult{Answers: make(models.GradedAnswerList, 0, len(questions))}

	for _, q := range questions {
		known[q.ID] = struct{}{}
		result.TotalPoints += q.Points

		answer, answered := answerByQuestion[q.ID]
		graded := models.GradedAnswer{QuestionID: q.ID, Answer: answer}
		if answered && gradeAnswer(q, answer) {
			graded.Correct = true
			graded.PointsEarned = q.Points
			result.Score += q.Points
		}
		result.Answers = append(result.Answers, graded)
	}

	for _, a := range answers {
		if _, ok := known[a.QuestionID]; ok {
			continue
		}
		result.Answers = append(result.Answers, models.GradedAnswer{
			QuestionID: a.QuestionID,
			Answer:     a.Answer,
		})
	}

	return result
}

func gradeAnswer(q models.QuizQuestion, answer string) bool {
	switch q.QuestionType {
	case models.QuestionMultipleChoice:
		for _, opt := range q.Options {
			if opt.IsCorrect && opt.OptionText == answer {
				return true
			}
		}
		return false
	case models.QuestionTrueFalse:
		return answer == q.CorrectAnswer
	case models.QuestionShortAnswer:
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer))
	}
	return false
}
