package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Instructor").First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindBySlug(slug string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Instructor").Where("slug = ?", slug).First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns a page of courses. Empty filter values are ignored;
// publishedOnly hides drafts from the public catalog.
func (r *CourseRepository) List(page, limit int, category, level string, publishedOnly bool) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	query := r.DB.Model(&model.Course{})
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if level != "" {
		query = query.Where("level = ?", level)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Instructor").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *CourseRepository) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).
		Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

// Delete removes a course together with its lessons, quizzes (and their
// questions/options), and every progress record of the course.
func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var quizIDs []uint
		if err := tx.Model(&model.Quiz{}).Where("course_id = ?", id).
			Pluck("id", &quizIDs).Error; err != nil {
			return err
		}

		if len(quizIDs) > 0 {
			var questionIDs []uint
			if err := tx.Model(&model.QuizQuestion{}).Where("quiz_id IN ?", quizIDs).
				Pluck("id", &questionIDs).Error; err != nil {
				return err
			}
			if len(questionIDs) > 0 {
				if err := tx.Where("question_id IN ?", questionIDs).
					Delete(&model.QuestionOption{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("quiz_id IN ?", quizIDs).
				Delete(&model.QuizQuestion{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", quizIDs).
				Delete(&model.Quiz{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("course_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
			return err
		}

		var progressIDs []uint
		if err := tx.Model(&model.CourseProgress{}).Where("course_id = ?", id).
			Pluck("id", &progressIDs).Error; err != nil {
			return err
		}
		if len(progressIDs) > 0 {
			if err := tx.Where("progress_id IN ?", progressIDs).
				Delete(&model.LessonProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("progress_id IN ?", progressIDs).
				Delete(&model.QuizAttempt{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", progressIDs).
				Delete(&model.CourseProgress{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.Course{}, id).Error
	})
}

// CountLessons and CountQuizzes feed the aggregate recompute; only active
// quizzes count toward completion.
func (r *CourseRepository) CountLessons(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *CourseRepository) CountQuizzes(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).
		Where("course_id = ? AND is_active = ?", courseID, true).Count(&count).Error
	return count, err
}
