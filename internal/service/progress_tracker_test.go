package service_test

import (
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleQuestionQuiz(id uint, passingScore int) *model.Quiz {
	return &model.Quiz{
		BaseModel:    model.BaseModel{ID: id},
		PassingScore: passingScore,
		Questions: []model.QuizQuestion{
			{
				Points: 1,
				Options: []model.QuestionOption{
					{BaseModel: model.BaseModel{ID: 1}, IsCorrect: true},
					{BaseModel: model.BaseModel{ID: 2}},
				},
			},
		},
	}
}

func passQuiz(t *testing.T, record *model.CourseProgress, quiz *model.Quiz, totals service.CourseTotals) model.ScoreResult {
	t.Helper()
	result, err := service.RecordQuizAttempt(record, quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{1}},
	}, 5, totals)
	require.NoError(t, err)
	require.True(t, result.Passed)
	return result
}

func failQuiz(t *testing.T, record *model.CourseProgress, quiz *model.Quiz, totals service.CourseTotals) model.ScoreResult {
	t.Helper()
	result, err := service.RecordQuizAttempt(record, quiz, []model.SubmittedAnswer{
		{SelectedOptionIDs: []uint{2}},
	}, 5, totals)
	require.NoError(t, err)
	require.False(t, result.Passed)
	return result
}

func TestRecordLessonCompletion(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Lessons: 2}

	service.RecordLessonCompletion(record, 1, 10, 50, totals)

	require.Len(t, record.Lessons, 1)
	entry := record.Lessons[0]
	assert.True(t, entry.Completed)
	assert.NotNil(t, entry.CompletedAt)
	assert.Equal(t, 10, entry.TimeSpentMinutes)
	assert.Equal(t, 50, entry.WatchedPercentage)
	assert.Equal(t, 50, record.OverallProgress)
	assert.NotNil(t, record.StartedAt)
}

func TestRecordLessonCompletionIsIdempotentOnCompletion(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Lessons: 1}

	service.RecordLessonCompletion(record, 1, 5, 100, totals)
	firstCompletedAt := record.Lessons[0].CompletedAt

	service.RecordLessonCompletion(record, 1, 5, 40, totals)

	require.Len(t, record.Lessons, 1)
	entry := record.Lessons[0]
	assert.True(t, entry.Completed)
	assert.Equal(t, firstCompletedAt, entry.CompletedAt)
	assert.Equal(t, 10, entry.TimeSpentMinutes)
	assert.Equal(t, 100, entry.WatchedPercentage, "watched percentage keeps its maximum")
}

func TestRecordLessonWatchProgressThreshold(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Lessons: 1}

	// below the threshold nothing completes
	service.RecordLessonWatchProgress(record, 1, 10, 79, totals)
	require.Len(t, record.Lessons, 1)
	assert.False(t, record.Lessons[0].Completed)
	assert.Equal(t, 0, record.OverallProgress)

	// crossing it latches completion
	service.RecordLessonWatchProgress(record, 1, 10, 85, totals)
	assert.True(t, record.Lessons[0].Completed)
	assert.NotNil(t, record.Lessons[0].CompletedAt)
	assert.Equal(t, 100, record.OverallProgress)

	// a lower later report never regresses anything
	service.RecordLessonWatchProgress(record, 1, 10, 60, totals)
	assert.True(t, record.Lessons[0].Completed)
	assert.Equal(t, 85, record.Lessons[0].WatchedPercentage)
	assert.Equal(t, 30, record.Lessons[0].TimeSpentMinutes)
	assert.Equal(t, 100, record.OverallProgress)
}

func TestRecordQuizAttemptAppends(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Quizzes: 1}
	quiz := singleQuestionQuiz(7, 70)

	failQuiz(t, record, quiz, totals)
	assert.Equal(t, 0, record.OverallProgress)

	passQuiz(t, record, quiz, totals)
	assert.Equal(t, 100, record.OverallProgress)

	require.Len(t, record.QuizAttempts, 2)
	assert.Equal(t, uint(7), record.QuizAttempts[0].QuizID)
	assert.False(t, record.QuizAttempts[0].Score.Passed, "earlier attempts stay untouched")
	assert.True(t, record.QuizAttempts[1].Score.Passed)
	assert.NotEmpty(t, record.QuizAttempts[1].Answers)
}

func TestRecordQuizAttemptInvalidSubmissionLeavesRecordUntouched(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Quizzes: 1}
	quiz := singleQuestionQuiz(7, 70)

	_, err := service.RecordQuizAttempt(record, quiz, nil, 5, totals)
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	assert.Empty(t, record.QuizAttempts)
	assert.Nil(t, record.StartedAt)
	assert.Equal(t, 0, record.OverallProgress)
}

func TestLaterFailureDoesNotUnpassQuiz(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Quizzes: 1}
	quiz := singleQuestionQuiz(7, 70)

	passQuiz(t, record, quiz, totals)
	assert.Equal(t, 100, record.OverallProgress)

	failQuiz(t, record, quiz, totals)
	assert.Equal(t, 100, record.OverallProgress)
}

func TestRecomputeOverallProgressEmptyCourse(t *testing.T) {
	record := &model.CourseProgress{OverallProgress: 42}

	service.RecomputeOverallProgress(record, service.CourseTotals{})

	assert.Equal(t, 0, record.OverallProgress)
	assert.Nil(t, record.CompletedAt, "an empty course can never be completed")
}

func TestRecomputeOverallProgressMixedContent(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Lessons: 2, Quizzes: 1}

	service.RecordLessonCompletion(record, 1, 5, 100, totals)
	assert.Equal(t, 33, record.OverallProgress)

	service.RecordLessonCompletion(record, 2, 5, 100, totals)
	assert.Equal(t, 67, record.OverallProgress)
	assert.Nil(t, record.CompletedAt)

	passQuiz(t, record, singleQuestionQuiz(7, 70), totals)
	assert.Equal(t, 100, record.OverallProgress)
	assert.NotNil(t, record.CompletedAt)
}

func TestRecomputeOverallProgressIsIdempotent(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Lessons: 2}

	service.RecordLessonCompletion(record, 1, 5, 100, totals)
	want := record.OverallProgress

	service.RecomputeOverallProgress(record, totals)
	service.RecomputeOverallProgress(record, totals)

	assert.Equal(t, want, record.OverallProgress)
}

func TestRecomputeClampsStaleEntries(t *testing.T) {
	// entries for deleted content may linger until the cascade runs; they
	// must not push the percentage past 100
	record := &model.CourseProgress{}
	service.RecordLessonCompletion(record, 1, 5, 100, service.CourseTotals{Lessons: 2})
	service.RecordLessonCompletion(record, 2, 5, 100, service.CourseTotals{Lessons: 2})

	service.RecomputeOverallProgress(record, service.CourseTotals{Lessons: 1})
	assert.Equal(t, 100, record.OverallProgress)
}

func TestCompletedAtLatchSurvivesRegression(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Quizzes: 1}
	quiz := singleQuestionQuiz(7, 70)

	passQuiz(t, record, quiz, totals)
	require.NotNil(t, record.CompletedAt)
	completedAt := record.CompletedAt

	removed := service.RemoveQuizAttempts(record, quiz.ID, totals)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, record.OverallProgress)
	assert.Equal(t, completedAt, record.CompletedAt, "completion timestamp is a one-way latch")
}

func TestBestScoreForQuiz(t *testing.T) {
	record := &model.CourseProgress{
		QuizAttempts: []model.QuizAttempt{
			{QuizID: 7, Score: model.ScoreResult{Percentage: 50}},
			{QuizID: 7, Score: model.ScoreResult{Percentage: 80, EarnedPoints: 4}},
			{QuizID: 7, Score: model.ScoreResult{Percentage: 80, EarnedPoints: 8}},
			{QuizID: 9, Score: model.ScoreResult{Percentage: 95}},
		},
	}

	best := service.BestScoreForQuiz(record, 7)
	require.NotNil(t, best)
	assert.Equal(t, 80, best.Percentage)
	assert.Equal(t, 4, best.EarnedPoints, "ties keep the earliest attempt")

	assert.Nil(t, service.BestScoreForQuiz(record, 123))
}

func TestIssueCertificate(t *testing.T) {
	record := &model.CourseProgress{OverallProgress: 67}

	err := service.IssueCertificate(record)
	assert.ErrorIs(t, err, util.ErrNotEligible)
	assert.False(t, record.CertificateIssued)

	record.OverallProgress = 100
	require.NoError(t, service.IssueCertificate(record))
	assert.True(t, record.CertificateIssued)
	assert.NotNil(t, record.CertificateIssuedAt)
	assert.NotEmpty(t, record.CertificateSerial)

	serial := record.CertificateSerial
	err = service.IssueCertificate(record)
	assert.ErrorIs(t, err, util.ErrCertificateIssued)
	assert.Equal(t, serial, record.CertificateSerial, "repeat issuance changes nothing")
}

func TestRemoveLessonEntries(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Lessons: 2}

	service.RecordLessonCompletion(record, 1, 5, 100, totals)
	service.RecordLessonCompletion(record, 2, 5, 100, totals)
	assert.Equal(t, 100, record.OverallProgress)

	removed := service.RemoveLessonEntries(record, 1, service.CourseTotals{Lessons: 1})
	assert.Equal(t, 1, removed)
	require.Len(t, record.Lessons, 1)
	assert.Equal(t, uint(2), record.Lessons[0].LessonID)
	assert.Equal(t, 100, record.OverallProgress)

	assert.Equal(t, 0, service.RemoveLessonEntries(record, 99, service.CourseTotals{Lessons: 1}))
}

func TestRemoveQuizAttempts(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Quizzes: 2}

	passQuiz(t, record, singleQuestionQuiz(7, 70), totals)
	failQuiz(t, record, singleQuestionQuiz(7, 70), totals)
	passQuiz(t, record, singleQuestionQuiz(9, 70), totals)
	assert.Equal(t, 100, record.OverallProgress)

	removed := service.RemoveQuizAttempts(record, 7, service.CourseTotals{Quizzes: 1})
	assert.Equal(t, 2, removed)
	require.Len(t, record.QuizAttempts, 1)
	assert.Equal(t, uint(9), record.QuizAttempts[0].QuizID)
	assert.Equal(t, 100, record.OverallProgress)
}

func TestFullCompletionFlow(t *testing.T) {
	record := &model.CourseProgress{}
	totals := service.CourseTotals{Lessons: 2, Quizzes: 1}
	quiz := singleQuestionQuiz(7, 70)

	service.RecordLessonWatchProgress(record, 1, 15, 90, totals)
	service.RecordLessonCompletion(record, 2, 10, 100, totals)
	assert.Equal(t, 67, record.OverallProgress)
	assert.ErrorIs(t, service.IssueCertificate(record), util.ErrNotEligible)

	failQuiz(t, record, quiz, totals)
	assert.Equal(t, 67, record.OverallProgress)

	passQuiz(t, record, quiz, totals)
	assert.Equal(t, 100, record.OverallProgress)
	require.NotNil(t, record.CompletedAt)

	require.NoError(t, service.IssueCertificate(record))
	assert.ErrorIs(t, service.IssueCertificate(record), util.ErrCertificateIssued)
}
