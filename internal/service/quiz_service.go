package service

import (
	"context"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo   *repository.QuizRepository
	CourseRepo *repository.CourseRepository
	Progress   *ProgressService
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	courseRepo *repository.CourseRepository,
	progress *ProgressService,
) *QuizService {
	return &QuizService{
		QuizRepo:   quizRepo,
		CourseRepo: courseRepo,
		Progress:   progress,
	}
}

type QuizOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuizQuestionRequest struct {
	Text        string              `json:"text" binding:"required"`
	Options     []QuizOptionRequest `json:"options" binding:"required,min=2,max=6"`
	Points      int                 `json:"points"`
	Explanation string              `json:"explanation"`
}

type QuizRequest struct {
	Title            string                `json:"title" binding:"required"`
	Description      string                `json:"description"`
	PassingScore     int                   `json:"passingScore" binding:"min=0,max=100"`
	MaxAttempts      int                   `json:"maxAttempts" binding:"min=0"`
	TimeLimitMinutes int                   `json:"timeLimitMinutes" binding:"min=0"`
	Questions        []QuizQuestionRequest `json:"questions"`
}

func (s *QuizService) Create(courseID uint, req QuizRequest) (*model.Quiz, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		CourseID:         courseID,
		Title:            req.Title,
		Description:      req.Description,
		PassingScore:     req.PassingScore,
		MaxAttempts:      req.MaxAttempts,
		TimeLimitMinutes: req.TimeLimitMinutes,
		IsActive:         true,
		Questions:        questions,
	}
	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Get(id uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListByCourse(courseID uint) ([]model.Quiz, error) {
	return s.QuizRepo.FindByCourse(courseID)
}

// StudentQuizQuestion strips the correct flags from a question for
// learner-facing payloads.
type StudentQuizQuestion struct {
	ID      uint                   `json:"id"`
	Text    string                 `json:"text"`
	Options []model.QuestionOption `json:"options"`
	Points  int                    `json:"points"`
	Order   int                    `json:"order"`
}

type StudentQuizView struct {
	ID               uint                  `json:"id"`
	CourseID         uint                  `json:"courseId"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	PassingScore     int                   `json:"passingScore"`
	MaxAttempts      int                   `json:"maxAttempts"`
	TimeLimitMinutes int                   `json:"timeLimitMinutes"`
	Questions        []StudentQuizQuestion `json:"questions"`
}

// StudentView returns the quiz as a learner may see it. Inactive quizzes
// are hidden from learners entirely.
func (s *QuizService) StudentView(id uint) (*StudentQuizView, error) {
	quiz, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizNotActive
	}

	view := &StudentQuizView{
		ID:               quiz.ID,
		CourseID:         quiz.CourseID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		PassingScore:     quiz.PassingScore,
		MaxAttempts:      quiz.MaxAttempts,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		Questions:        make([]StudentQuizQuestion, len(quiz.Questions)),
	}
	for i, q := range quiz.Questions {
		view.Questions[i] = StudentQuizQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Options: q.Options,
			Points:  q.Points,
			Order:   q.Order,
		}
	}
	return view, nil
}

func (s *QuizService) Update(id uint, req QuizRequest) (*model.Quiz, error) {
	quiz, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.PassingScore = req.PassingScore
	quiz.MaxAttempts = req.MaxAttempts
	quiz.TimeLimitMinutes = req.TimeLimitMinutes

	if len(req.Questions) > 0 {
		questions, err := buildQuestions(req.Questions)
		if err != nil {
			return nil, err
		}
		if err := s.QuizRepo.ReplaceQuestions(quiz.ID, questions); err != nil {
			return nil, err
		}
	}

	quiz.Questions = nil
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *QuizService) SetActive(id uint, active bool) (*model.Quiz, error) {
	quiz, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	quiz.IsActive = active
	quiz.Questions = nil
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// Delete removes the quiz and prunes its attempts from every progress
// record of the course.
func (s *QuizService) Delete(ctx context.Context, id uint) error {
	quiz, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.QuizRepo.Delete(id); err != nil {
		return err
	}

	return s.Progress.RemoveQuizAttempts(ctx, quiz.CourseID, quiz.ID)
}

type QuizSubmissionRequest struct {
	Answers          []model.SubmittedAnswer `json:"answers" binding:"required"`
	TimeSpentMinutes int                     `json:"timeSpentMinutes"`
}

type QuizSubmissionResult struct {
	Score   model.ScoreResult `json:"score"`
	Reviews []QuestionReview  `json:"reviews"`
}

// Submit grades a learner submission. The gates here (active quiz,
// attempt limit inside the record lock) are the caller-side contract the
// tracker relies on.
func (s *QuizService) Submit(ctx context.Context, userID, quizID uint, req QuizSubmissionRequest) (*QuizSubmissionResult, error) {
	quiz, err := s.Get(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizNotActive
	}

	_, result, err := s.Progress.SubmitQuizAttempt(ctx, userID, quiz, req.Answers, req.TimeSpentMinutes)
	if err != nil {
		return nil, err
	}

	return &QuizSubmissionResult{
		Score:   result,
		Reviews: ReviewQuiz(quiz, req.Answers),
	}, nil
}

func buildQuestions(reqs []QuizQuestionRequest) ([]model.QuizQuestion, error) {
	questions := make([]model.QuizQuestion, 0, len(reqs))
	for i, qr := range reqs {
		hasCorrect := false
		options := make([]model.QuestionOption, 0, len(qr.Options))
		for _, or := range qr.Options {
			if or.IsCorrect {
				hasCorrect = true
			}
			options = append(options, model.QuestionOption{
				Text:      or.Text,
				IsCorrect: or.IsCorrect,
			})
		}
		// every question needs at least one correct option; the grader
		// tolerates violations but creation rejects them outright
		if !hasCorrect {
			return nil, util.ErrInvalidInput
		}

		points := qr.Points
		if points <= 0 {
			points = 1
		}

		questions = append(questions, model.QuizQuestion{
			Text:        qr.Text,
			Options:     options,
			Points:      points,
			Order:       i,
			Explanation: qr.Explanation,
		})
	}
	return questions, nil
}
