package model

// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID         uint           `gorm:"index;not null" json:"courseId"`
	Title            string         `gorm:"size:255;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	Questions        []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
	PassingScore     int            `gorm:"default:70" json:"passingScore"` // percent, 0-100
	MaxAttempts      int            `gorm:"default:0" json:"maxAttempts"`   // 0 = unlimited
	TimeLimitMinutes int            `gorm:"default:0" json:"timeLimitMinutes"`
	IsActive         bool           `gorm:"default:true" json:"isActive"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID      uint             `gorm:"index;not null" json:"quizId"`
	Text        string           `gorm:"type:text;not null" json:"text"`
	Options     []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	Points      int              `gorm:"default:1" json:"points"`
	Order       int              `gorm:"default:0" json:"order"`
	Explanation string           `gorm:"type:text" json:"explanation,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuestionOption holds one selectable answer. IsCorrect never leaves the
// server in student-facing payloads; see QuizService.StudentView.
// swagger:model QuestionOption
type QuestionOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}

// SubmittedAnswer is one learner answer, aligned positionally with the
// quiz's question list. Duplicate option ids collapse to a set when graded.
type SubmittedAnswer struct {
	QuestionID        uint   `json:"questionId"`
	SelectedOptionIDs []uint `json:"selectedOptionIds"`
}
