package service

import (
	"algoquiz_backend/internal/model"
	"context"
	"time"
)

// 服务层依赖的窄存储接口，由 repository 包的具体实现满足，
// 测试中用内存假实现替换

type UserStore interface {
	FindByID(id uint) (*model.User, error)
}

type QuizStore interface {
	FindWithQuestions(id uint) (*model.Quiz, error)
	List(page, limit int) ([]model.Quiz, int64, error)
}

type AttemptStore interface {
	Create(attempt *model.QuizAttempt) error
	ListByUser(userID uint) ([]model.QuizAttempt, error)
	ListByUserBetween(userID uint, from, to time.Time) ([]model.QuizAttempt, error)
}

type ProgressStore interface {
	IncrementDaily(userID uint, day time.Time, delta model.DailyProgress) error
	RangeByUser(userID uint, from, to time.Time) ([]model.DailyProgress, error)
	TotalsByUser(userID uint) (*model.ProgressTotals, error)
}

type AchievementStore interface {
	Upsert(states []model.UserAchievement) error
	ListByUser(userID uint) ([]model.UserAchievement, error)
	CountCompleted(userID uint) (int64, error)
}

// SummaryCache 进度汇总缓存，实现必须在不可用时静默降级
type SummaryCache interface {
	Get(ctx context.Context, userID uint, dest interface{}) bool
	Set(ctx context.Context, userID uint, value interface{})
	Invalidate(ctx context.Context, userID uint)
}
