package model

import (
	"encoding/json"
	"time"
)

// ScoreResult is the grading outcome of a single quiz attempt.
// Percentage is round(earned/total*100) when total > 0, else 0, and
// Passed mirrors percentage >= the quiz's passing score.
// swagger:model ScoreResult
type ScoreResult struct {
	CorrectAnswers int  `gorm:"default:0" json:"correctAnswers"`
	TotalQuestions int  `gorm:"default:0" json:"totalQuestions"`
	EarnedPoints   int  `gorm:"default:0" json:"earnedPoints"`
	TotalPoints    int  `gorm:"default:0" json:"totalPoints"`
	Percentage     int  `gorm:"default:0" json:"percentage"`
	Passed         bool `gorm:"default:false" json:"passed"`
}

// QuizAttempt is immutable once created; attempts accumulate and are only
// removed when their quiz is deleted.
// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	ProgressID       uint            `gorm:"index;not null" json:"-"`
	QuizID           uint            `gorm:"index;not null" json:"quizId"`
	Answers          json.RawMessage `gorm:"type:json" json:"answers"`
	Score            ScoreResult     `gorm:"embedded" json:"score"`
	StartedAt        time.Time       `json:"startedAt"`
	CompletedAt      time.Time       `json:"completedAt"`
	TimeSpentMinutes int             `gorm:"default:0" json:"timeSpentMinutes"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// LessonProgress tracks one lesson for one enrollment. TimeSpentMinutes
// accumulates and WatchedPercentage keeps the maximum ever observed;
// neither ever decreases. Completed latches to true at 80% watched or on
// an explicit completion.
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	ProgressID        uint       `gorm:"index:idx_progress_lesson,unique;not null" json:"-"`
	LessonID          uint       `gorm:"index:idx_progress_lesson,unique;not null" json:"lessonId"`
	Completed         bool       `gorm:"default:false" json:"completed"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	TimeSpentMinutes  int        `gorm:"default:0" json:"timeSpentMinutes"`
	WatchedPercentage int        `gorm:"default:0" json:"watchedPercentage"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// CourseProgress is the one record per (user, course) pair. It is only
// mutated through the progress tracker; handlers read snapshots.
// swagger:model CourseProgress
type CourseProgress struct {
	BaseModel
	UserID              uint             `gorm:"index:idx_user_course,unique;not null" json:"userId"`
	CourseID            uint             `gorm:"index:idx_user_course,unique;not null" json:"courseId"`
	EnrolledAt          time.Time        `json:"enrolledAt"`
	StartedAt           *time.Time       `json:"startedAt,omitempty"`
	CompletedAt         *time.Time       `json:"completedAt,omitempty"`
	Lessons             []LessonProgress `gorm:"foreignKey:ProgressID" json:"lessons,omitempty"`
	QuizAttempts        []QuizAttempt    `gorm:"foreignKey:ProgressID" json:"quizAttempts,omitempty"`
	OverallProgress     int              `gorm:"default:0" json:"overallProgress"` // percent, 0-100
	CertificateIssued   bool             `gorm:"default:false" json:"certificateIssued"`
	CertificateIssuedAt *time.Time       `json:"certificateIssuedAt,omitempty"`
	CertificateSerial   string           `gorm:"size:36" json:"certificateSerial,omitempty"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}
