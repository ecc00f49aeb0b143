package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Create(record *model.CourseProgress) error {
	return r.DB.Create(record).Error
}

// FindByUserAndCourse loads the record for the composite key with its
// lesson entries and attempt history.
func (r *ProgressRepository) FindByUserAndCourse(userID, courseID uint) (*model.CourseProgress, error) {
	var record model.CourseProgress
	err := r.DB.
		Preload("Lessons").
		Preload("QuizAttempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.CourseProgress, error) {
	var records []model.CourseProgress
	err := r.DB.
		Preload("Lessons").
		Preload("QuizAttempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&records).Error
	return records, err
}

func (r *ProgressRepository) FindByCourse(courseID uint) ([]model.CourseProgress, error) {
	var records []model.CourseProgress
	err := r.DB.
		Preload("Lessons").
		Preload("QuizAttempts", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("course_id = ?", courseID).
		Find(&records).Error
	return records, err
}

// Save persists the record and its nested entries, creating appended
// children and updating existing ones.
func (r *ProgressRepository) Save(record *model.CourseProgress) error {
	return r.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(record).Error
}

// Delete removes the record with its children (unenrollment).
func (r *ProgressRepository) Delete(record *model.CourseProgress) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("progress_id = ?", record.ID).
			Delete(&model.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("progress_id = ?", record.ID).
			Delete(&model.QuizAttempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(record).Error
	})
}

// DeleteLessonEntries prunes every lesson entry referencing a deleted
// lesson, across all records.
func (r *ProgressRepository) DeleteLessonEntries(lessonID uint) error {
	return r.DB.Where("lesson_id = ?", lessonID).
		Delete(&model.LessonProgress{}).Error
}

// DeleteQuizAttempts prunes every attempt referencing a deleted quiz.
func (r *ProgressRepository) DeleteQuizAttempts(quizID uint) error {
	return r.DB.Where("quiz_id = ?", quizID).
		Delete(&model.QuizAttempt{}).Error
}
