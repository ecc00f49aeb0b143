package service_test

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoQuestionQuiz builds a quiz with two single-answer questions worth one
// point each. Option IDs 1,2 belong to question one (1 correct), 3,4 to
// question two (3 correct).
func twoQuestionQuiz(passingScore int) *model.Quiz {
	return &model.Quiz{
		PassingScore: passingScore,
		Questions: []model.QuizQuestion{
			{
				Points: 1,
				Options: []model.QuestionOption{
					{BaseModel: model.BaseModel{ID: 1}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 2}},
				},
			},
			{
				Points: 1,
				Options: []model.QuestionOption{
					{BaseModel: model.BaseModel{ID: 3}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 4}},
				},
			},
		},
	}
}

func TestScoreQuizAllCorrect(t *testing.T) {
	quiz := twoQuestionQuiz(70)

	result, err := service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
		{SelectedOptionIDs: []uint{3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.CorrectAnswers)
	assert.Equal(t, 2, result.TotalQuestions)
	assert.Equal(t, 2, result.EarnedPoints)
	assert.Equal(t, 2, result.TotalPoints)
	assert.Equal(t, 100, result.Percentage)
	assert.True(t, result.Passed)
}

func TestScoreQuizPartiallyCorrect(t *testing.T) {
	quiz := twoQuestionQuiz(70)

	result, err := service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
		{SelectedOptionIDs: []uint{4}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 1, result.EarnedPoints)
	assert.Equal(t, 50, result.Percentage)
	assert.False(t, result.Passed)
}

func TestScoreQuizAllWrong(t *testing.T) {
	quiz := twoQuestionQuiz(70)

	result, err := service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{2}},
		{SelectedOptionIDs: []uint{4}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.CorrectAnswers)
	assert.Equal(t, 0, result.Percentage)
	assert.False(t, result.Passed)
}

func TestScoreQuizAnswerCountMismatch(t *testing.T) {
	quiz := twoQuestionQuiz(70)

	_, err := service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
	})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
		{SelectedOptionIDs: []uint{3}},
		{SelectedOptionIDs: []uint{3}},
	})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestScoreQuizNoQuestions(t *testing.T) {
	quiz := &model.Quiz{PassingScore: 70}

	_, err := service.ScoreQuiz(quiz, nil)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestScoreQuizExactSetMatch(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 100,
		Questions: []model.QuizQuestion{
			{
				Points: 2,
				Options: []model.QuestionOption{
					{BaseModel: model.BaseModel{ID: 1}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 2}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 3}},
				},
			},
		},
	}

	cases := []struct {
		name     string
		selected []uint
		correct  bool
	}{
		{"ExactSet", []uint{1, 2}, true},
		{"OrderIgnored", []uint{2, 1}, true},
		{"DuplicatesDeduplicated", []uint{1, 2, 2}, true},
		{"Subset", []uint{1}, false},
		{"Superset", []uint{1, 2, 3}, false},
		{"Empty", nil, false},
		{"UnknownOption", []uint{1, 99}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := service.ScoreQuiz(quiz, []model.SubmittedAnswer{{SelectedOptionIDs: tc.selected}})
			require.NoError(t, err)

			if tc.correct {
				assert.Equal(t, 2, result.EarnedPoints)
				assert.Equal(t, 100, result.Percentage)
			} else {
				assert.Equal(t, 0, result.EarnedPoints)
				assert.Equal(t, 0, result.Percentage)
			}
		})
	}
}

func TestScoreQuizQuestionWithoutCorrectOption(t *testing.T) {
	// a malformed question still weighs in the total but can never be earned
	quiz := &model.Quiz{
		PassingScore: 50,
		Questions: []model.QuizQuestion{
			{
				Points: 1,
				Options: []model.QuestionOption{
					{BaseModel: model.BaseModel{ID: 1}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 2}},
				},
			},
			{
				Points: 1,
				Options: []model.QuestionOption{
					{BaseModel: model.BaseModel{ID: 3}},
					{BaseModel: model.BaseModel{ID: 4}},
				},
			},
		},
	}

	result, err := service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
		{SelectedOptionIDs: []uint{3}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectAnswers)
	assert.Equal(t, 2, result.TotalPoints)
	assert.Equal(t, 1, result.EarnedPoints)
	assert.Equal(t, 50, result.Percentage)
	assert.True(t, result.Passed)
}

func TestScoreQuizZeroTotalPoints(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.QuizQuestion{
			{
				Points: 0,
				Options: []model.QuestionOption{
					{BaseModel: model.BaseModel{ID: 1}, IsCorrect: true},
				},
			},
		},
	}

	result, err := service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Percentage)
	assert.False(t, result.Passed)
}

func TestScoreQuizRoundsHalfUp(t *testing.T) {
	oneCorrect := func(id uint) model.QuizQuestion {
		return model.QuizQuestion{
			Points: 1,
			Options: []model.QuestionOption{
				{BaseModel: model.BaseModel{ID: id}, IsCorrect: true},
				{BaseModel: model.BaseModel{ID: id + 100}},
			},
		}
	}

	quiz := &model.Quiz{
		PassingScore: 70,
		Questions:    []model.QuizQuestion{oneCorrect(1), oneCorrect(2), oneCorrect(3)},
	}

	// 1/3 rounds to 33, 2/3 rounds to 67
	result, err := service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
		{SelectedOptionIDs: []uint{999}},
		{SelectedOptionIDs: []uint{999}},
	})
	require.NoError(t, err)
	assert.Equal(t, 33, result.Percentage)

	result, err = service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
		{SelectedOptionIDs: []uint{2}},
		{SelectedOptionIDs: []uint{999}},
	})
	require.NoError(t, err)
	assert.Equal(t, 67, result.Percentage)
}

func TestScoreQuizPassingBoundary(t *testing.T) {
	// percentage equal to the passing score passes
	quiz := twoQuestionQuiz(50)

	result, err := service.ScoreQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
		{SelectedOptionIDs: []uint{4}},
	})
	require.NoError(t, err)

	assert.Equal(t, 50, result.Percentage)
	assert.True(t, result.Passed)
}

func TestAttemptsAllowed(t *testing.T) {
	unlimited := &model.Quiz{MaxAttempts: 0}
	assert.True(t, service.AttemptsAllowed(unlimited, 0))
	assert.True(t, service.AttemptsAllowed(unlimited, 1000))

	limited := &model.Quiz{MaxAttempts: 3}
	assert.True(t, service.AttemptsAllowed(limited, 0))
	assert.True(t, service.AttemptsAllowed(limited, 2))
	assert.False(t, service.AttemptsAllowed(limited, 3))
	assert.False(t, service.AttemptsAllowed(limited, 4))
}

func TestReviewQuiz(t *testing.T) {
	quiz := &model.Quiz{
		PassingScore: 70,
		Questions: []model.QuizQuestion{
			{
				BaseModel: model.BaseModel{ID: 10},
				Points:    1,
				Options: []model.QuestionOption{
					{BaseModel: model.BaseModel{ID: 1}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 2}},
				},
				Explanation: "first",
			},
			{
				BaseModel: model.BaseModel{ID: 11},
				Points:    2,
				Options: []model.QuestionOption{
					{BaseModel: model.BaseModel{ID: 3}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 4}},
				},
			},
		},
	}

	reviews := service.ReviewQuiz(quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
		{SelectedOptionIDs: []uint{4}},
	})
	require.Len(t, reviews, 2)

	assert.Equal(t, uint(10), reviews[0].QuestionID)
	assert.True(t, reviews[0].Correct)
	assert.Equal(t, "first", reviews[0].Explanation)

	assert.Equal(t, uint(11), reviews[1].QuestionID)
	assert.False(t, reviews[1].Correct)
	assert.Equal(t, 2, reviews[1].Points)
}
