package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
	Progress   *ProgressService
	Storage    *StorageService
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	progress *ProgressService,
	storage *StorageService,
) *LessonService {
	return &LessonService{
		LessonRepo: lessonRepo,
		CourseRepo: courseRepo,
		Progress:   progress,
		Storage:    storage,
	}
}

type LessonRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	VideoURL  string `json:"videoUrl"`
	Order     int    `json:"order"`
	IsPreview bool   `json:"isPreview"`
}

func (s *LessonService) Create(courseID uint, req LessonRequest) (*model.Lesson, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID:  courseID,
		Title:     req.Title,
		Content:   req.Content,
		VideoURL:  req.VideoURL,
		Order:     req.Order,
		IsPreview: req.IsPreview,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Get(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) ListByCourse(courseID uint) ([]model.Lesson, error) {
	return s.LessonRepo.FindByCourse(courseID)
}

func (s *LessonService) Update(id uint, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Content = req.Content
	if req.VideoURL != "" {
		lesson.VideoURL = req.VideoURL
	}
	lesson.Order = req.Order
	lesson.IsPreview = req.IsPreview

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Delete removes the lesson and prunes it from every learner's progress.
func (s *LessonService) Delete(ctx context.Context, id uint) error {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrNotFound
		}
		return err
	}

	if err := s.LessonRepo.Delete(id); err != nil {
		return err
	}

	return s.Progress.RemoveLessonEntries(ctx, lesson.CourseID, lesson.ID)
}

// UploadVideo stores the uploaded file and probes its duration. The probe
// is best-effort; a lesson with an unreadable container just keeps a zero
// duration.
func (s *LessonService) UploadVideo(ctx context.Context, id uint, file *multipart.FileHeader) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "lesson-video-*"+filepath.Ext(file.Filename))
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.ReadFrom(src); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	filename := fmt.Sprintf("lessons/%d/%s", lesson.ID, filepath.Base(file.Filename))
	url, err := s.Storage.UploadFile(ctx, filename, tmp.Name(), file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	lesson.VideoURL = url
	if info, err := util.ProbeVideo(tmp.Name()); err == nil {
		lesson.DurationMinutes = util.VideoDurationMinutes(info)
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}
