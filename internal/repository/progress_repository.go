package repository

import (
	"algoquiz_backend/internal/model"
	"algoquiz_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// IncrementDaily 对 (user, day) 的日聚合行执行单条原子 insert-or-increment
// 依赖 (user_id, day) 唯一索引，MySQL 生成 ON DUPLICATE KEY UPDATE col = col + VALUES(col)
// 不允许在应用层先读后写，否则同一用户并发提交会丢失更新
func (r *ProgressRepository) IncrementDaily(userID uint, day time.Time, delta model.DailyProgress) error {
	row := model.DailyProgress{
		UserID:           userID,
		Day:              day,
		QuizzesCompleted: delta.QuizzesCompleted,
		CumulativeScore:  delta.CumulativeScore,
		StudyTimeMinutes: delta.StudyTimeMinutes,
		XPEarned:         delta.XPEarned,
	}

	err := r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quizzes_completed":  gorm.Expr("quizzes_completed + VALUES(quizzes_completed)"),
			"cumulative_score":   gorm.Expr("cumulative_score + VALUES(cumulative_score)"),
			"study_time_minutes": gorm.Expr("study_time_minutes + VALUES(study_time_minutes)"),
			"xp_earned":          gorm.Expr("xp_earned + VALUES(xp_earned)"),
		}),
	}).Create(&row).Error
	if err != nil {
		return util.WrapDependency("upsert daily progress", err)
	}
	return nil
}

// RangeByUser 返回 [from, to) 内已存在的日聚合行
func (r *ProgressRepository) RangeByUser(userID uint, from, to time.Time) ([]model.DailyProgress, error) {
	var rows []model.DailyProgress
	err := r.DB.
		Where("user_id = ? AND day >= ? AND day < ?", userID, from, to).
		Order("day ASC").
		Find(&rows).Error
	if err != nil {
		return nil, util.WrapDependency("range daily progress", err)
	}
	return rows, nil
}

// TotalsByUser 汇总用户全部日聚合计数器
func (r *ProgressRepository) TotalsByUser(userID uint) (*model.ProgressTotals, error) {
	var totals model.ProgressTotals
	err := r.DB.Model(&model.DailyProgress{}).
		Select(
			"COALESCE(SUM(quizzes_completed),0) AS quizzes_completed",
			"COALESCE(SUM(cumulative_score),0) AS cumulative_score",
			"COALESCE(SUM(study_time_minutes),0) AS study_time_minutes",
			"COALESCE(SUM(xp_earned),0) AS xp_earned",
		).
		Where("user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return nil, util.WrapDependency("sum daily progress", err)
	}
	return &totals, nil
}
