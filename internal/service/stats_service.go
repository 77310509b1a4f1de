package service

import (
	"context"
	"math"
	"time"
)

const (
	// XPPerLevel 每级所需经验
	XPPerLevel = 1000
	// MasteryScore 主题最佳成绩达到该分数视为掌握
	MasteryScore = 80
)

// LevelForXP 经验到等级的换算
func LevelForXP(totalXP int) (level, xpIntoLevel int) {
	return totalXP/XPPerLevel + 1, totalXP % XPPerLevel
}

// ProgressionSummary 用户进度总览
// swagger:model ProgressionSummary
type ProgressionSummary struct {
	TotalXP                int     `json:"totalXp"`
	Level                  int     `json:"level"`
	XPIntoLevel            int     `json:"xpIntoLevel"`
	QuizzesCompleted       int     `json:"quizzesCompleted"`
	AverageScore           float64 `json:"averageScore"`
	CurrentStreak          int     `json:"currentStreak"`
	LongestStreak          int     `json:"longestStreak"`
	AchievementsUnlocked   int     `json:"achievementsUnlocked"`
	TotalStudyMinutes      int     `json:"totalStudyMinutes"`
	DistinctTopicsMastered int     `json:"distinctTopicsMastered"`
}

// DailyStat 周报中一天的聚合
// swagger:model DailyStat
type DailyStat struct {
	Day              string  `json:"day"`
	QuizzesCompleted int     `json:"quizzesCompleted"`
	AverageScore     float64 `json:"averageScore"`
	StudyTimeMinutes int     `json:"studyTimeMinutes"`
	XPEarned         int     `json:"xpEarned"`
}

// StatsService 只读组合层：把评分、日聚合、连击、成就拼成展示数据
type StatsService struct {
	Attempts     AttemptStore
	Progress     ProgressStore
	Achievements AchievementStore
	Cache        SummaryCache

	now func() time.Time
}

func NewStatsService(attempts AttemptStore, progress ProgressStore, achievements AchievementStore, cache SummaryCache) *StatsService {
	return &StatsService{
		Attempts:     attempts,
		Progress:     progress,
		Achievements: achievements,
		Cache:        cache,
		now:          time.Now,
	}
}

// GetSummary 进度总览，短时缓存，提交答题时失效
// 全新用户返回零值默认（1 级、0 平均分、0 连击），不报错
func (s *StatsService) GetSummary(ctx context.Context, userID uint) (*ProgressionSummary, error) {
	if s.Cache != nil {
		var cached ProgressionSummary
		if s.Cache.Get(ctx, userID, &cached) {
			return &cached, nil
		}
	}

	totals, err := s.Progress.TotalsByUser(userID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.Attempts.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	timestamps := make([]time.Time, len(attempts))
	scoreSum := 0
	bestByTopic := make(map[string]int)
	for i, a := range attempts {
		timestamps[i] = a.CompletedAt
		scoreSum += a.Score
		if a.Quiz != nil && a.Quiz.Topic != "" {
			if a.Score > bestByTopic[a.Quiz.Topic] {
				bestByTopic[a.Quiz.Topic] = a.Score
			}
		}
	}

	average := 0.0
	if len(attempts) > 0 {
		average = round2(float64(scoreSum) / float64(len(attempts)))
	}

	current, longest := CalculateStreaks(timestamps, s.now())

	mastered := 0
	for _, best := range bestByTopic {
		if best >= MasteryScore {
			mastered++
		}
	}

	completedCount, err := s.Achievements.CountCompleted(userID)
	if err != nil {
		return nil, err
	}

	level, into := LevelForXP(totals.XPEarned)
	summary := &ProgressionSummary{
		TotalXP:                totals.XPEarned,
		Level:                  level,
		XPIntoLevel:            into,
		QuizzesCompleted:       totals.QuizzesCompleted,
		AverageScore:           average,
		CurrentStreak:          current,
		LongestStreak:          longest,
		AchievementsUnlocked:   int(completedCount),
		TotalStudyMinutes:      totals.StudyTimeMinutes,
		DistinctTopicsMastered: mastered,
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, userID, summary)
	}
	return summary, nil
}

// GetWeeklySeries 最近 7 个自然日（含今天）的逐日序列
//
// 优先使用已存的日聚合行；某天没有聚合行时退回用该窗口的原始答题记录
// 现算；两条路径对同一批答题必须得到相同数字。完全无活动的天补零
func (s *StatsService) GetWeeklySeries(userID uint) ([]DailyStat, error) {
	now := s.now()
	end := startOfDay(now).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -7)

	rows, err := s.Progress.RangeByUser(userID, start, end)
	if err != nil {
		return nil, err
	}
	rowByDay := make(map[int]*dayAggregate, len(rows))
	for i := range rows {
		r := rows[i]
		rowByDay[dayIndex(r.Day)] = &dayAggregate{
			quizzes: r.QuizzesCompleted,
			score:   r.CumulativeScore,
			study:   r.StudyTimeMinutes,
			xp:      r.XPEarned,
		}
	}

	attempts, err := s.Attempts.ListByUserBetween(userID, start, end)
	if err != nil {
		return nil, err
	}
	attemptsByDay := make(map[int]*dayAggregate)
	for _, a := range attempts {
		k := dayIndex(a.CompletedAt)
		agg, ok := attemptsByDay[k]
		if !ok {
			agg = &dayAggregate{}
			attemptsByDay[k] = agg
		}
		agg.quizzes++
		agg.score += a.Score
		agg.study += StudyMinutesPerAttempt
		agg.xp += AttemptXP(a.Score)
	}

	series := make([]DailyStat, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		k := dayIndex(day)

		agg := rowByDay[k]
		if agg == nil {
			agg = attemptsByDay[k]
		}

		stat := DailyStat{Day: day.Format("2006-01-02")}
		if agg != nil {
			stat.QuizzesCompleted = agg.quizzes
			stat.StudyTimeMinutes = agg.study
			stat.XPEarned = agg.xp
			if agg.quizzes > 0 {
				stat.AverageScore = round2(float64(agg.score) / float64(agg.quizzes))
			}
		}
		series = append(series, stat)
	}
	return series, nil
}

// dayAggregate 周报两条推导路径共用的中间聚合
type dayAggregate struct {
	quizzes int
	score   int
	study   int
	xp      int
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
