package service

import (
	"math"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

// ScoreQuiz grades a submission against the quiz definition. Answers are
// positional: answers[i] belongs to quiz.Questions[i]. A question counts
// as correct only when the selected option set equals its correct option
// set exactly; subsets, supersets and empty selections score zero for
// that question. Pure function, no side effects.
func ScoreQuiz(quiz *model.Quiz, answers []model.SubmittedAnswer) (model.ScoreResult, error) {
	if len(quiz.Questions) == 0 {
		return model.ScoreResult{}, util.ErrInvalidInput
	}
	if len(answers) != len(quiz.Questions) {
		return model.ScoreResult{}, util.ErrInvalidInput
	}

	result := model.ScoreResult{TotalQuestions: len(quiz.Questions)}
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		result.TotalPoints += q.Points
		if questionCorrect(q, answers[i].SelectedOptionIDs) {
			result.CorrectAnswers++
			result.EarnedPoints += q.Points
		}
	}

	if result.TotalPoints > 0 {
		result.Percentage = roundPercent(result.EarnedPoints, result.TotalPoints)
	}
	result.Passed = result.Percentage >= quiz.PassingScore

	return result, nil
}

// questionCorrect compares the deduplicated selection against the
// question's correct option set. A question without any correct option
// still carries points into the total but can never be earned.
func questionCorrect(q *model.QuizQuestion, selected []uint) bool {
	correct := make(map[uint]bool)
	for _, opt := range q.Options {
		if opt.IsCorrect {
			correct[opt.ID] = true
		}
	}
	if len(correct) == 0 {
		return false
	}

	chosen := make(map[uint]bool)
	for _, id := range selected {
		chosen[id] = true
	}
	if len(chosen) != len(correct) {
		return false
	}
	for id := range chosen {
		if !correct[id] {
			return false
		}
	}
	return true
}

// AttemptsAllowed reports whether another attempt may be started.
// MaxAttempts of zero means unlimited.
func AttemptsAllowed(quiz *model.Quiz, attemptsSoFar int) bool {
	return quiz.MaxAttempts == 0 || attemptsSoFar < quiz.MaxAttempts
}

// QuestionReview is the per-question breakdown returned with a graded
// submission; correctness comes from the same set comparison the grader
// scores with.
type QuestionReview struct {
	QuestionID  uint   `json:"questionId"`
	Correct     bool   `json:"correct"`
	Points      int    `json:"points"`
	Explanation string `json:"explanation,omitempty"`
}

// ReviewQuiz derives the answer review for a graded submission. The
// caller must have validated alignment via ScoreQuiz first.
func ReviewQuiz(quiz *model.Quiz, answers []model.SubmittedAnswer) []QuestionReview {
	reviews := make([]QuestionReview, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		var selected []uint
		if i < len(answers) {
			selected = answers[i].SelectedOptionIDs
		}
		reviews = append(reviews, QuestionReview{
			QuestionID:  q.ID,
			Correct:     questionCorrect(q, selected),
			Points:      q.Points,
			Explanation: q.Explanation,
		})
	}
	return reviews
}

// roundPercent rounds half up to the nearest whole percent.
func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}
