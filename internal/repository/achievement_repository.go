package repository

import (
	"algoquiz_backend/internal/model"
	"algoquiz_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

// Upsert 幂等写入成就状态，按 (user_id, achievement_id) 唯一索引合并
// 合并语义保证三条不变量在存储层原子成立：
//   - progress 单调不减（GREATEST）
//   - is_completed 一旦为 true 不回退（OR）
//   - completed_at 只在首次完成时写入（COALESCE 保留旧值）
// 对相同历史重复执行是 no-op
func (r *AchievementRepository) Upsert(states []model.UserAchievement) error {
	if len(states) == 0 {
		return nil
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"progress":     gorm.Expr("GREATEST(progress, VALUES(progress))"),
			"is_completed": gorm.Expr("is_completed OR VALUES(is_completed)"),
			"completed_at": gorm.Expr("COALESCE(completed_at, VALUES(completed_at))"),
		}),
	}).Create(&states).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: achievement state race", util.ErrConflict)
		}
		return util.WrapDependency("upsert achievements", err)
	}
	return nil
}

func (r *AchievementRepository) ListByUser(userID uint) ([]model.UserAchievement, error) {
	var states []model.UserAchievement
	err := r.DB.
		Where("user_id = ?", userID).
		Order("achievement_id ASC").
		Find(&states).Error
	if err != nil {
		return nil, util.WrapDependency("list achievements", err)
	}
	return states, nil
}

func (r *AchievementRepository) CountCompleted(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAchievement{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&count).Error
	if err != nil {
		return 0, util.WrapDependency("count completed achievements", err)
	}
	return count, nil
}
