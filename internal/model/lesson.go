package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID        uint   `gorm:"index;not null" json:"courseId"`
	Title           string `gorm:"size:255;not null" json:"title"`
	Content         string `gorm:"type:text" json:"content"`
	VideoURL        string `gorm:"size:255" json:"videoUrl"`
	DurationMinutes int    `gorm:"default:0" json:"durationMinutes"`
	Order           int    `gorm:"default:0" json:"order"`
	IsPreview       bool   `gorm:"default:false" json:"isPreview"`
}

func (Lesson) TableName() string {
	return "lessons"
}
