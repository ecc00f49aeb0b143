package service

import (
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
	QuizRepo   *repository.QuizRepository
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
		QuizRepo:   quizRepo,
	}
}

type CourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Level       string `json:"level"`
	Thumbnail   string `json:"thumbnail"`
}

func (s *CourseService) Create(instructorID uint, req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:        req.Title,
		Slug:         slug.Make(req.Title),
		Description:  req.Description,
		Category:     req.Category,
		Level:        model.CourseLevel(req.Level),
		Thumbnail:    req.Thumbnail,
		InstructorID: instructorID,
	}
	if course.Level == "" {
		course.Level = model.Beginner
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) List(page, limit int, category, level string, publishedOnly bool) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.List(page, limit, category, level, publishedOnly)
}

func (s *CourseService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(instructorID)
}

// Get returns the course with its ordered lessons and quiz summaries.
func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lessons, err := s.LessonRepo.FindByCourse(id)
	if err != nil {
		return nil, err
	}
	course.Lessons = lessons

	quizzes, err := s.QuizRepo.FindByCourse(id)
	if err != nil {
		return nil, err
	}
	course.Quizzes = quizzes

	return course, nil
}

// CanManage reports whether a user may modify the course. Instructors own
// their courses; admins manage everything.
func (s *CourseService) CanManage(course *model.Course, claims *util.Claims) bool {
	if claims == nil {
		return false
	}
	if claims.Role == model.Admin {
		return true
	}
	return claims.Role == model.Instructor && course.InstructorID == claims.UserID
}

func (s *CourseService) Update(id uint, req CourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	course.Title = req.Title
	course.Slug = slug.Make(req.Title)
	course.Description = req.Description
	course.Category = req.Category
	if req.Level != "" {
		course.Level = model.CourseLevel(req.Level)
	}
	if req.Thumbnail != "" {
		course.Thumbnail = req.Thumbnail
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) SetPublished(id uint, published bool) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	course.Published = published
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete cascades: lessons, quizzes and all progress records go with the
// course.
func (s *CourseService) Delete(id uint) error {
	if _, err := s.CourseRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrCourseNotFound
		}
		return err
	}
	return s.CourseRepo.Delete(id)
}
