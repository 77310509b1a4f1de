package repository

import (
	"algoquiz_backend/internal/model"
	"algoquiz_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create 追加一条答题记录，记录创建后不再修改
func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	if err := r.DB.Create(attempt).Error; err != nil {
		return util.WrapDependency("create attempt", err)
	}
	return nil
}

// ListByUser 返回用户全部答题历史（新到旧），带所属测验用于主题统计
func (r *AttemptRepository) ListByUser(userID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.
		Preload("Quiz").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, util.WrapDependency("list attempts", err)
	}
	return attempts, nil
}

// ListByUserBetween 返回窗口内的答题记录，用于周报的按需推导路径
func (r *AttemptRepository) ListByUserBetween(userID uint, from, to time.Time) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.
		Where("user_id = ? AND completed_at >= ? AND completed_at < ?", userID, from, to).
		Order("completed_at ASC").
		Find(&attempts).Error
	if err != nil {
		return nil, util.WrapDependency("list attempts in window", err)
	}
	return attempts, nil
}
