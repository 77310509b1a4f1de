package model

import (
	"time"
)

// QuizAttempt 一次已完成的测验提交，创建后不可修改（仅追加的历史记录）
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	UserID      uint      `gorm:"index;not null" json:"userId"`
	QuizID      uint      `gorm:"index;not null" json:"quizId"`
	Score       int       `gorm:"not null" json:"score"` // 0-100
	CompletedAt time.Time `gorm:"not null;index" json:"completedAt"`

	Quiz *Quiz `gorm:"foreignKey:QuizID" json:"-"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
