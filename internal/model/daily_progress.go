package model

import (
	"time"
)

// DailyProgress 按 (用户, 自然日) 聚合的学习计数器
// 只能通过原子的 insert-or-increment upsert 写入，首次提交当天懒创建
// swagger:model DailyProgress
type DailyProgress struct {
	BaseModel
	UserID           uint      `gorm:"uniqueIndex:idx_user_day;not null" json:"userId"`
	Day              time.Time `gorm:"type:date;uniqueIndex:idx_user_day;not null" json:"day"`
	QuizzesCompleted int       `gorm:"default:0" json:"quizzesCompleted"`
	CumulativeScore  int       `gorm:"default:0" json:"cumulativeScore"`
	StudyTimeMinutes int       `gorm:"default:0" json:"studyTimeMinutes"`
	XPEarned         int       `gorm:"default:0" json:"xpEarned"`
}

func (DailyProgress) TableName() string {
	return "daily_progress"
}

// ProgressTotals 日聚合计数器的全量汇总，非表结构
type ProgressTotals struct {
	QuizzesCompleted int `json:"quizzesCompleted"`
	CumulativeScore  int `json:"cumulativeScore"`
	StudyTimeMinutes int `json:"studyTimeMinutes"`
	XPEarned         int `json:"xpEarned"`
}
