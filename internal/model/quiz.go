package model

// Quiz 题库中的一套测验，属于某个数据结构/算法主题
// 测验内容由教研侧创建后不可变，本服务只读
// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title       string         `gorm:"size:200;not null" json:"title"`
	Topic       string         `gorm:"size:100;not null;index" json:"topic"`
	Description string         `gorm:"type:text" json:"description"`
	Difficulty  string         `gorm:"size:20;default:'beginner'" json:"difficulty"`
	Questions   []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion 测验题目，至少包含一个选项
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID   uint         `gorm:"index;not null" json:"quizId"`
	Text     string       `gorm:"type:text;not null" json:"text"`
	Position int          `gorm:"default:0" json:"position"`
	Options  []QuizOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizOption 题目选项，正确性标志在创建时固定
// swagger:model QuizOption
type QuizOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
	Position   int    `gorm:"default:0" json:"position"`
}

func (QuizOption) TableName() string {
	return "quiz_options"
}
