package service

import (
	"algoquiz_backend/internal/model"
	"algoquiz_backend/pkg/logger"
	"algoquiz_backend/pkg/monitoring"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AchievementService 按注册的规则目录评估用户成就并幂等落库
type AchievementService struct {
	Attempts     AttemptStore
	Achievements AchievementStore

	catalog []AchievementRule
	now     func() time.Time
}

func NewAchievementService(attempts AttemptStore, achievements AchievementStore, catalog []AchievementRule) *AchievementService {
	return &AchievementService{
		Attempts:     attempts,
		Achievements: achievements,
		catalog:      catalog,
		now:          time.Now,
	}
}

// Catalog 返回不可变的规则目录
func (s *AchievementService) Catalog() []AchievementRule {
	return s.catalog
}

// RuleError 单条规则评估失败的记录，整批评估不因此中断
type RuleError struct {
	RuleID string
	Err    error
}

// Evaluate 对用户历史评估全部规则
// 历史和连击数据只加载一次，所有规则共用同一份上下文。
// 单条规则出错（含 panic）只记入错误列表并跳过，其余规则照常评估
func (s *AchievementService) Evaluate(userID uint) ([]model.UserAchievement, []RuleError, error) {
	attempts, err := s.Attempts.ListByUser(userID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	ctx := BuildRuleContext(attempts, now)

	states := make([]model.UserAchievement, 0, len(s.catalog))
	var ruleErrs []RuleError

	for _, rule := range s.catalog {
		progress, completed, err := evalRule(rule, ctx)
		if err != nil {
			ruleErrs = append(ruleErrs, RuleError{RuleID: rule.ID, Err: err})
			monitoring.RuleEvaluationErrors.Inc()
			logger.Log.Warn("achievement rule skipped",
				zap.String("rule", rule.ID),
				zap.Uint("user", userID),
				zap.Error(err))
			continue
		}

		state := model.UserAchievement{
			UserID:        userID,
			AchievementID: rule.ID,
			Progress:      progress,
			IsCompleted:   completed,
		}
		if completed {
			completedAt := now
			state.CompletedAt = &completedAt
		}
		states = append(states, state)
	}

	return states, ruleErrs, nil
}

// evalRule 评估单条规则，panic 也按规则错误吸收，进度钳制到 [0, MaxProgress]
func evalRule(rule AchievementRule, ctx *RuleContext) (progress int, completed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule %s panicked: %v", rule.ID, r)
		}
	}()

	if rule.Evaluate == nil {
		return 0, false, fmt.Errorf("rule %s has no evaluate function", rule.ID)
	}
	if rule.MaxProgress < 1 {
		return 0, false, fmt.Errorf("rule %s has invalid maxProgress %d", rule.ID, rule.MaxProgress)
	}

	progress, completed = rule.Evaluate(ctx)
	if progress < 0 {
		progress = 0
	}
	if progress > rule.MaxProgress {
		progress = rule.MaxProgress
	}
	return progress, completed, nil
}

// Materialize 评估并持久化成就状态，返回本次新解锁的规则
// 落库是按 (user, achievement) 唯一索引的幂等 upsert：
// 历史不变时重复执行不改变任何行，completed_at 永不被覆盖
func (s *AchievementService) Materialize(userID uint) ([]model.UserAchievement, []AchievementRule, error) {
	states, ruleErrs, err := s.Evaluate(userID)
	if err != nil {
		return nil, nil, err
	}
	_ = ruleErrs // 已在 Evaluate 内记录，不阻断落库

	prior, err := s.Achievements.ListByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	priorCompleted := make(map[string]bool, len(prior))
	for _, p := range prior {
		if p.IsCompleted {
			priorCompleted[p.AchievementID] = true
		}
	}

	if err := s.Achievements.Upsert(states); err != nil {
		return nil, nil, err
	}

	var unlocked []AchievementRule
	for _, st := range states {
		if st.IsCompleted && !priorCompleted[st.AchievementID] {
			if rule, ok := s.ruleByID(st.AchievementID); ok {
				unlocked = append(unlocked, rule)
				monitoring.AchievementsUnlocked.WithLabelValues(rule.ID).Inc()
			}
		}
	}

	return states, unlocked, nil
}

func (s *AchievementService) ruleByID(id string) (AchievementRule, bool) {
	for _, rule := range s.catalog {
		if rule.ID == id {
			return rule, true
		}
	}
	return AchievementRule{}, false
}

// AchievementState 规则目录与用户状态拼接后的展示结构
// swagger:model AchievementState
type AchievementState struct {
	AchievementID string     `json:"achievementId"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	Rarity        string     `json:"rarity"`
	RewardXP      int        `json:"rewardXp"`
	Progress      int        `json:"progress"`
	MaxProgress   int        `json:"maxProgress"`
	IsCompleted   bool       `json:"isCompleted"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// GetUserAchievements 返回完整目录视图：每条规则一行，未评估过的规则进度为 0
func (s *AchievementService) GetUserAchievements(userID uint) ([]AchievementState, error) {
	stored, err := s.Achievements.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.UserAchievement, len(stored))
	for _, st := range stored {
		byID[st.AchievementID] = st
	}

	result := make([]AchievementState, 0, len(s.catalog))
	for _, rule := range s.catalog {
		view := AchievementState{
			AchievementID: rule.ID,
			Name:          rule.Name,
			Description:   rule.Description,
			Category:      rule.Category,
			Rarity:        rule.Rarity,
			RewardXP:      rule.RewardXP,
			MaxProgress:   rule.MaxProgress,
		}
		if st, ok := byID[rule.ID]; ok {
			view.Progress = st.Progress
			view.IsCompleted = st.IsCompleted
			view.CompletedAt = st.CompletedAt
		}
		result = append(result, view)
	}
	return result, nil
}
