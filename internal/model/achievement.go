package model

import (
	"time"
)

// UserAchievement 用户在某条成就规则上的进度状态
// (user_id, achievement_id) 唯一，is_completed 单调：一旦为 true 不再回退
// completed_at 只在 false→true 的那次评估中写入一次
// swagger:model UserAchievement
type UserAchievement struct {
	BaseModel
	UserID        uint       `gorm:"uniqueIndex:idx_user_achievement;not null" json:"userId"`
	AchievementID string     `gorm:"size:64;uniqueIndex:idx_user_achievement;not null" json:"achievementId"`
	Progress      int        `gorm:"default:0" json:"progress"`
	IsCompleted   bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
