package service

import (
	"context"
	"fmt"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/database"
	"lms_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// progressLockTTL bounds both the wait for a busy record and the lifetime
// of a lock whose holder died.
const progressLockTTL = 5 * time.Second

// ProgressService owns every read-modify-write cycle on progress records.
// Mutations for one (user, course) pair are serialized through a redis
// lock; pairs never share state, so distinct learners and courses proceed
// in parallel.
type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	CourseRepo   *repository.CourseRepository
	LessonRepo   *repository.LessonRepository
	Lock         *database.RecordLock
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	lock *database.RecordLock,
) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		CourseRepo:   courseRepo,
		LessonRepo:   lessonRepo,
		Lock:         lock,
	}
}

type LessonProgressRequest struct {
	TimeSpentMinutes  int `json:"timeSpentMinutes"`
	WatchedPercentage int `json:"watchedPercentage" binding:"min=0,max=100"`
}

func (s *ProgressService) Enroll(ctx context.Context, userID, courseID uint) (*model.CourseProgress, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if !course.Published {
		return nil, util.ErrCourseNotFound
	}

	if _, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	record := &model.CourseProgress{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := s.ProgressRepo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ProgressService) Unenroll(ctx context.Context, userID, courseID uint) error {
	return s.withLock(ctx, userID, courseID, func() error {
		record, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return util.ErrNotEnrolled
			}
			return err
		}
		return s.ProgressRepo.Delete(record)
	})
}

// CompleteLesson applies an explicit lesson completion.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID, lessonID uint, req LessonProgressRequest) (*model.CourseProgress, error) {
	return s.applyLessonEvent(ctx, userID, lessonID, req, RecordLessonCompletion)
}

// WatchLesson applies a watch-progress event; completion is derived from
// the 80% threshold.
func (s *ProgressService) WatchLesson(ctx context.Context, userID, lessonID uint, req LessonProgressRequest) (*model.CourseProgress, error) {
	return s.applyLessonEvent(ctx, userID, lessonID, req, RecordLessonWatchProgress)
}

func (s *ProgressService) applyLessonEvent(
	ctx context.Context,
	userID, lessonID uint,
	req LessonProgressRequest,
	apply func(*model.CourseProgress, uint, int, int, CourseTotals),
) (*model.CourseProgress, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	var record *model.CourseProgress
	err = s.withLock(ctx, userID, lesson.CourseID, func() error {
		record, err = s.loadOrCreate(userID, lesson.CourseID)
		if err != nil {
			return err
		}

		totals, err := s.courseTotals(lesson.CourseID)
		if err != nil {
			return err
		}

		apply(record, lessonID, req.TimeSpentMinutes, req.WatchedPercentage, totals)
		return s.ProgressRepo.Save(record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SubmitQuizAttempt runs the full submission pipeline under the record
// lock: load or create the record, enforce the attempt limit, grade,
// append the attempt, recompute and persist.
func (s *ProgressService) SubmitQuizAttempt(ctx context.Context, userID uint, quiz *model.Quiz, answers []model.SubmittedAnswer, timeSpentMinutes int) (*model.CourseProgress, model.ScoreResult, error) {
	var record *model.CourseProgress
	var result model.ScoreResult

	err := s.withLock(ctx, userID, quiz.CourseID, func() error {
		var err error
		record, err = s.loadOrCreate(userID, quiz.CourseID)
		if err != nil {
			return err
		}

		attempts := 0
		for i := range record.QuizAttempts {
			if record.QuizAttempts[i].QuizID == quiz.ID {
				attempts++
			}
		}
		if !AttemptsAllowed(quiz, attempts) {
			return util.ErrAttemptLimit
		}

		totals, err := s.courseTotals(quiz.CourseID)
		if err != nil {
			return err
		}

		result, err = RecordQuizAttempt(record, quiz, answers, timeSpentMinutes, totals)
		if err != nil {
			return err
		}
		return s.ProgressRepo.Save(record)
	})
	if err != nil {
		return nil, model.ScoreResult{}, err
	}

	monitoring.QuizSubmissions.WithLabelValues(fmt.Sprintf("%t", result.Passed)).Inc()
	return record, result, nil
}

func (s *ProgressService) Get(userID, courseID uint) (*model.CourseProgress, error) {
	record, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	return record, nil
}

func (s *ProgressService) ListForUser(userID uint) ([]model.CourseProgress, error) {
	return s.ProgressRepo.FindByUser(userID)
}

// BestScore returns the best attempt for a quiz; ErrNotFound when the
// learner has no attempt for it.
func (s *ProgressService) BestScore(userID, courseID, quizID uint) (*model.ScoreResult, error) {
	record, err := s.Get(userID, courseID)
	if err != nil {
		return nil, err
	}

	best := BestScoreForQuiz(record, quizID)
	if best == nil {
		return nil, util.ErrNotFound
	}
	return best, nil
}

func (s *ProgressService) IssueCertificate(ctx context.Context, userID, courseID uint) (*model.CourseProgress, error) {
	var record *model.CourseProgress
	err := s.withLock(ctx, userID, courseID, func() error {
		var err error
		record, err = s.ProgressRepo.FindByUserAndCourse(userID, courseID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return util.ErrNotEnrolled
			}
			return err
		}

		if err := IssueCertificate(record); err != nil {
			return err
		}
		return s.ProgressRepo.Save(record)
	})
	if err != nil {
		return nil, err
	}

	monitoring.CertificatesIssued.Inc()
	return record, nil
}

// RemoveLessonEntries is the cascade for a deleted lesson: prune the
// matching entries from every record of the course, then recompute each.
func (s *ProgressService) RemoveLessonEntries(ctx context.Context, courseID, lessonID uint) error {
	if err := s.ProgressRepo.DeleteLessonEntries(lessonID); err != nil {
		return err
	}
	return s.recomputeCourse(ctx, courseID)
}

// RemoveQuizAttempts is the cascade for a deleted quiz.
func (s *ProgressService) RemoveQuizAttempts(ctx context.Context, courseID, quizID uint) error {
	if err := s.ProgressRepo.DeleteQuizAttempts(quizID); err != nil {
		return err
	}
	return s.recomputeCourse(ctx, courseID)
}

func (s *ProgressService) recomputeCourse(ctx context.Context, courseID uint) error {
	totals, err := s.courseTotals(courseID)
	if err != nil {
		return err
	}

	records, err := s.ProgressRepo.FindByCourse(courseID)
	if err != nil {
		return err
	}

	for i := range records {
		userID := records[i].UserID
		err := s.withLock(ctx, userID, courseID, func() error {
			record, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
			if err != nil {
				return err
			}
			RecomputeOverallProgress(record, totals)
			return s.ProgressRepo.Save(record)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ProgressService) loadOrCreate(userID, courseID uint) (*model.CourseProgress, error) {
	record, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err == nil {
		return record, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	// first interaction without an explicit enrollment creates the record
	record = &model.CourseProgress{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := s.ProgressRepo.Create(record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ProgressService) courseTotals(courseID uint) (CourseTotals, error) {
	lessons, err := s.CourseRepo.CountLessons(courseID)
	if err != nil {
		return CourseTotals{}, err
	}
	quizzes, err := s.CourseRepo.CountQuizzes(courseID)
	if err != nil {
		return CourseTotals{}, err
	}
	return CourseTotals{Lessons: int(lessons), Quizzes: int(quizzes)}, nil
}

func (s *ProgressService) withLock(ctx context.Context, userID, courseID uint, fn func() error) error {
	key := fmt.Sprintf("progress:lock:%d:%d", userID, courseID)
	token, err := s.Lock.Acquire(ctx, key, progressLockTTL)
	if err != nil {
		return err
	}
	defer s.Lock.Release(ctx, key, token)

	return fn()
}
