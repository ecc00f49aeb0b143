package service

import (
	"encoding/json"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/util"
)

// AutoCompleteWatchedPercent is the watch threshold at which a lesson
// flips to completed without an explicit completion call.
const AutoCompleteWatchedPercent = 80

// CourseTotals carries the content counts the aggregate percentage is
// computed against. Callers load them alongside the record; the tracker
// itself never reaches back into storage.
type CourseTotals struct {
	Lessons int
	Quizzes int
}

// The functions below are the only code that mutates a CourseProgress
// record. Each one either fully applies its update and recomputes the
// aggregate, or returns an error without touching the record.

// RecordLessonCompletion marks a lesson explicitly complete. Time spent
// accumulates, watched percentage keeps its maximum, and completion is a
// one-way latch.
func RecordLessonCompletion(record *model.CourseProgress, lessonID uint, timeSpentMinutes, watchedPercentage int, totals CourseTotals) {
	entry := upsertLessonEntry(record, lessonID, timeSpentMinutes, watchedPercentage)

	if !entry.Completed {
		entry.Completed = true
	}
	if entry.CompletedAt == nil {
		now := time.Now()
		entry.CompletedAt = &now
	}

	markStarted(record)
	RecomputeOverallProgress(record, totals)
}

// RecordLessonWatchProgress applies a watch event. Completion is derived:
// the entry latches to completed the first time the stored watched
// percentage reaches the auto-complete threshold, exactly as if
// RecordLessonCompletion had been called.
func RecordLessonWatchProgress(record *model.CourseProgress, lessonID uint, timeSpentMinutes, watchedPercentage int, totals CourseTotals) {
	entry := upsertLessonEntry(record, lessonID, timeSpentMinutes, watchedPercentage)

	if !entry.Completed && entry.WatchedPercentage >= AutoCompleteWatchedPercent {
		entry.Completed = true
	}
	if entry.Completed && entry.CompletedAt == nil {
		now := time.Now()
		entry.CompletedAt = &now
	}

	markStarted(record)
	RecomputeOverallProgress(record, totals)
}

// RecordQuizAttempt grades the raw answers and appends a new immutable
// attempt. Prior attempts are never modified. Enrollment, quiz activity
// and the attempt limit are the caller's gates; the tracker trusts them.
func RecordQuizAttempt(record *model.CourseProgress, quiz *model.Quiz, answers []model.SubmittedAnswer, timeSpentMinutes int, totals CourseTotals) (model.ScoreResult, error) {
	result, err := ScoreQuiz(quiz, answers)
	if err != nil {
		return model.ScoreResult{}, err
	}

	raw, err := json.Marshal(answers)
	if err != nil {
		return model.ScoreResult{}, err
	}

	now := time.Now()
	record.QuizAttempts = append(record.QuizAttempts, model.QuizAttempt{
		ProgressID:       record.ID,
		QuizID:           quiz.ID,
		Answers:          raw,
		Score:            result,
		StartedAt:        now.Add(-time.Duration(timeSpentMinutes) * time.Minute),
		CompletedAt:      now,
		TimeSpentMinutes: timeSpentMinutes,
	})

	markStarted(record)
	RecomputeOverallProgress(record, totals)

	return result, nil
}

// RecomputeOverallProgress rederives the aggregate percentage from the
// record's lesson entries and attempt history. A quiz counts as passed
// when any attempt ever passed it; later failures do not unpass it. A
// course with no content stays at zero and can never be completed.
// CompletedAt is set the first time the aggregate reaches 100 and is
// never cleared here afterwards.
func RecomputeOverallProgress(record *model.CourseProgress, totals CourseTotals) {
	if totals.Lessons == 0 && totals.Quizzes == 0 {
		record.OverallProgress = 0
		return
	}

	completedLessons := 0
	for i := range record.Lessons {
		if record.Lessons[i].Completed {
			completedLessons++
		}
	}

	passedQuizzes := countPassedQuizzes(record)

	// stale entries may survive between a content deletion and its
	// cascade; never let them push a category past its total
	if completedLessons > totals.Lessons {
		completedLessons = totals.Lessons
	}
	if passedQuizzes > totals.Quizzes {
		passedQuizzes = totals.Quizzes
	}

	completedItems, totalItems := 0, 0
	if totals.Lessons > 0 {
		completedItems += completedLessons
		totalItems += totals.Lessons
	}
	if totals.Quizzes > 0 {
		completedItems += passedQuizzes
		totalItems += totals.Quizzes
	}

	record.OverallProgress = roundPercent(completedItems, totalItems)

	if record.OverallProgress == 100 && record.CompletedAt == nil {
		now := time.Now()
		record.CompletedAt = &now
	}
}

// BestScoreForQuiz returns the highest-percentage attempt for a quiz, or
// nil when none exists. Ties go to the earliest attempt so repeated
// queries are deterministic.
func BestScoreForQuiz(record *model.CourseProgress, quizID uint) *model.ScoreResult {
	var best *model.ScoreResult
	for i := range record.QuizAttempts {
		attempt := &record.QuizAttempts[i]
		if attempt.QuizID != quizID {
			continue
		}
		if best == nil || attempt.Score.Percentage > best.Percentage {
			best = &attempt.Score
		}
	}
	return best
}

// IssueCertificate latches the certificate flags. Eligibility requires a
// 100% aggregate; issuance happens at most once per record.
func IssueCertificate(record *model.CourseProgress) error {
	if record.OverallProgress != 100 {
		return util.ErrNotEligible
	}
	if record.CertificateIssued {
		return util.ErrCertificateIssued
	}

	now := time.Now()
	record.CertificateIssued = true
	record.CertificateIssuedAt = &now
	record.CertificateSerial = model.GenerateUUID()
	return nil
}

// RemoveLessonEntries drops every entry for a deleted lesson and
// recomputes. Returns how many entries were removed.
func RemoveLessonEntries(record *model.CourseProgress, lessonID uint, totals CourseTotals) int {
	kept := record.Lessons[:0]
	removed := 0
	for _, entry := range record.Lessons {
		if entry.LessonID == lessonID {
			removed++
			continue
		}
		kept = append(kept, entry)
	}
	record.Lessons = kept

	RecomputeOverallProgress(record, totals)
	return removed
}

// RemoveQuizAttempts drops every attempt for a deleted quiz and
// recomputes. Returns how many attempts were removed.
func RemoveQuizAttempts(record *model.CourseProgress, quizID uint, totals CourseTotals) int {
	kept := record.QuizAttempts[:0]
	removed := 0
	for _, attempt := range record.QuizAttempts {
		if attempt.QuizID == quizID {
			removed++
			continue
		}
		kept = append(kept, attempt)
	}
	record.QuizAttempts = kept

	RecomputeOverallProgress(record, totals)
	return removed
}

// upsertLessonEntry finds or creates the entry for a lesson and applies
// the monotonic accumulation rules shared by completion and watch events.
func upsertLessonEntry(record *model.CourseProgress, lessonID uint, timeSpentMinutes, watchedPercentage int) *model.LessonProgress {
	for i := range record.Lessons {
		entry := &record.Lessons[i]
		if entry.LessonID == lessonID {
			entry.TimeSpentMinutes += timeSpentMinutes
			if watchedPercentage > entry.WatchedPercentage {
				entry.WatchedPercentage = watchedPercentage
			}
			return entry
		}
	}

	record.Lessons = append(record.Lessons, model.LessonProgress{
		ProgressID:        record.ID,
		LessonID:          lessonID,
		TimeSpentMinutes:  timeSpentMinutes,
		WatchedPercentage: watchedPercentage,
	})
	return &record.Lessons[len(record.Lessons)-1]
}

// countPassedQuizzes counts distinct quizzes with at least one passing
// attempt, best-attempt-ever semantics.
func countPassedQuizzes(record *model.CourseProgress) int {
	passed := make(map[uint]bool)
	for i := range record.QuizAttempts {
		attempt := &record.QuizAttempts[i]
		if attempt.Score.Passed {
			passed[attempt.QuizID] = true
		}
	}
	return len(passed)
}

func markStarted(record *model.CourseProgress) {
	if record.StartedAt == nil {
		now := time.Now()
		record.StartedAt = &now
	}
}
