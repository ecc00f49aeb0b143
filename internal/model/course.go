package model

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title        string      `gorm:"size:255;not null" json:"title"`
	Slug         string      `gorm:"size:255;uniqueIndex" json:"slug"`
	Description  string      `gorm:"type:text" json:"description"`
	Category     string      `gorm:"size:100;index" json:"category"`
	Level        CourseLevel `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"level"`
	Thumbnail    string      `gorm:"size:255" json:"thumbnail"`
	InstructorID uint        `gorm:"index" json:"instructorId"`
	Instructor   *User       `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
	Published    bool        `gorm:"default:false" json:"published"`
	Lessons      []Lesson    `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
	Quizzes      []Quiz      `gorm:"foreignKey:CourseID" json:"quizzes,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
