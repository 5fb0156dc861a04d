package model

type Exam struct {
	BaseModel

	Title           string     `gorm:"size:255;not null" json:"title"`
	DurationMinutes int        `gorm:"not null;default:30" json:"durationMinutes"`
	ProjectID       *uint      `gorm:"index" json:"projectId,omitempty"`
	Questions       []Question `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

func (Exam) TableName() string {
	return "exams"
}

type Question struct {
	BaseModel

	ExamID       uint     `gorm:"index;not null" json:"examId"`
	DisplayOrder int      `gorm:"default:0" json:"displayOrder"`
	Text         string   `gorm:"type:text" json:"text"`
	Choices      []Choice `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "exam_questions"
}

type Choice struct {
	BaseModel

	QuestionID uint    `gorm:"index;not null" json:"questionId"`
	Text       *string `gorm:"type:text" json:"text,omitempty"`
	ImageURL   *string `gorm:"size:255" json:"imageUrl,omitempty"`
	IsCorrect  bool    `gorm:"default:false" json:"-"`
}

func (Choice) TableName() string {
	return "exam_choices"
}
