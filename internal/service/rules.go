package service

import (
	"algoquiz_backend/internal/model"
	"time"
)

// RuleContext 一轮成就评估的共享上下文
// 完整答题历史和派生数据只加载/计算一次，全部规则共用，
// 避免 N 条规则各扫一遍历史
type RuleContext struct {
	Attempts         []model.QuizAttempt
	CurrentStreak    int
	LongestStreak    int
	PerfectCount     int
	DistinctTopics   int
	MaxAttemptsInDay int
}

// AchievementRule 成就规则：纯函数 (上下文) -> (进度, 是否完成)
// 规则目录在进程启动时装配一次，之后不可变。
// 规则对只增历史必须单调：历史变长时进度不允许下降，
// 因此连击类规则看 LongestStreak 而不是会随中断归零的 CurrentStreak
type AchievementRule struct {
	ID          string
	Name        string
	Description string
	Category    string
	Rarity      string
	RewardXP    int
	MaxProgress int
	Evaluate    func(ctx *RuleContext) (progress int, completed bool)
}

// progressTo 通用进度换算：progress = min(value, max)，value 达到 max 即完成
func progressTo(value, max int) (int, bool) {
	if value < 0 {
		value = 0
	}
	if value >= max {
		return max, true
	}
	return value, false
}

// DefaultRuleCatalog 内置成就目录
// 新规则在这里注册，评估循环保持通用，不接受针对单条规则的分支
func DefaultRuleCatalog() []AchievementRule {
	return []AchievementRule{
		{
			ID:          "first_steps",
			Name:        "初试牛刀",
			Description: "完成第一次测验",
			Category:    "milestone",
			Rarity:      "common",
			RewardXP:    25,
			MaxProgress: 1,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(len(ctx.Attempts), 1)
			},
		},
		{
			ID:          "quiz_veteran",
			Name:        "测验老手",
			Description: "累计完成 10 次测验",
			Category:    "milestone",
			Rarity:      "uncommon",
			RewardXP:    100,
			MaxProgress: 10,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(len(ctx.Attempts), 10)
			},
		},
		{
			ID:          "quiz_centurion",
			Name:        "百战百胜",
			Description: "累计完成 50 次测验",
			Category:    "milestone",
			Rarity:      "rare",
			RewardXP:    300,
			MaxProgress: 50,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(len(ctx.Attempts), 50)
			},
		},
		{
			ID:          "perfectionist",
			Name:        "完美主义者",
			Description: "取得一次满分",
			Category:    "performance",
			Rarity:      "rare",
			RewardXP:    150,
			MaxProgress: 1,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(ctx.PerfectCount, 1)
			},
		},
		{
			ID:          "flawless_five",
			Name:        "五连满分",
			Description: "累计取得 5 次满分",
			Category:    "performance",
			Rarity:      "epic",
			RewardXP:    400,
			MaxProgress: 5,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(ctx.PerfectCount, 5)
			},
		},
		{
			ID:          "topic_explorer",
			Name:        "领域探索者",
			Description: "在 3 个不同主题下完成测验",
			Category:    "breadth",
			Rarity:      "uncommon",
			RewardXP:    150,
			MaxProgress: 3,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(ctx.DistinctTopics, 3)
			},
		},
		{
			ID:          "topic_scholar",
			Name:        "博学多才",
			Description: "在 6 个不同主题下完成测验",
			Category:    "breadth",
			Rarity:      "rare",
			RewardXP:    300,
			MaxProgress: 6,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(ctx.DistinctTopics, 6)
			},
		},
		{
			ID:          "marathon_day",
			Name:        "学习马拉松",
			Description: "单日完成 3 次测验",
			Category:    "intensity",
			Rarity:      "uncommon",
			RewardXP:    100,
			MaxProgress: 3,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(ctx.MaxAttemptsInDay, 3)
			},
		},
		{
			ID:          "streak_starter",
			Name:        "初见坚持",
			Description: "连续学习 3 天",
			Category:    "streak",
			Rarity:      "common",
			RewardXP:    75,
			MaxProgress: 3,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(ctx.LongestStreak, 3)
			},
		},
		{
			ID:          "streak_master",
			Name:        "七日之约",
			Description: "连续学习 7 天",
			Category:    "streak",
			Rarity:      "rare",
			RewardXP:    250,
			MaxProgress: 7,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(ctx.LongestStreak, 7)
			},
		},
		{
			ID:          "streak_legend",
			Name:        "月度传奇",
			Description: "连续学习 30 天",
			Category:    "streak",
			Rarity:      "legendary",
			RewardXP:    1000,
			MaxProgress: 30,
			Evaluate: func(ctx *RuleContext) (int, bool) {
				return progressTo(ctx.LongestStreak, 30)
			},
		},
	}
}

// BuildRuleContext 从答题历史构建共享评估上下文
// 连击数据经由 CalculateStreaks 推导，和进度汇总走同一实现
func BuildRuleContext(attempts []model.QuizAttempt, now time.Time) *RuleContext {
	timestamps := make([]time.Time, len(attempts))
	topics := make(map[string]bool)
	perDay := make(map[int]int)
	perfect := 0

	for i, a := range attempts {
		timestamps[i] = a.CompletedAt
		if a.Score == 100 {
			perfect++
		}
		if a.Quiz != nil && a.Quiz.Topic != "" {
			topics[a.Quiz.Topic] = true
		}
		perDay[dayIndex(a.CompletedAt)]++
	}

	current, longest := CalculateStreaks(timestamps, now)

	maxInDay := 0
	for _, n := range perDay {
		if n > maxInDay {
			maxInDay = n
		}
	}

	return &RuleContext{
		Attempts:         attempts,
		CurrentStreak:    current,
		LongestStreak:    longest,
		PerfectCount:     perfect,
		DistinctTopics:   len(topics),
		MaxAttemptsInDay: maxInDay,
	}
}
