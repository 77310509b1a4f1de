package service

import (
	"algoquiz_backend/internal/model"
	"algoquiz_backend/internal/util"
	"algoquiz_backend/pkg/logger"
	"algoquiz_backend/pkg/monitoring"
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	// BaseAttemptXP 每次提交的保底经验，外加 floor(score/10)
	BaseAttemptXP = 10
	// StudyMinutesPerAttempt 单次测验的固定学习时长估计，本服务不测客户端耗时
	StudyMinutesPerAttempt = 5
)

// AttemptXP 一次提交获得的经验值
func AttemptXP(score int) int {
	return BaseAttemptXP + score/10
}

// ProgressService 记录答题并推进日聚合与成就
type ProgressService struct {
	Users       UserStore
	Quizzes     QuizStore
	Attempts    AttemptStore
	Progress    ProgressStore
	Achievement *AchievementService
	Cache       SummaryCache

	now func() time.Time
}

func NewProgressService(
	users UserStore,
	quizzes QuizStore,
	attempts AttemptStore,
	progress ProgressStore,
	achievement *AchievementService,
	cache SummaryCache,
) *ProgressService {
	return &ProgressService{
		Users:       users,
		Quizzes:     quizzes,
		Attempts:    attempts,
		Progress:    progress,
		Achievement: achievement,
		Cache:       cache,
		now:         time.Now,
	}
}

// UnlockedAchievement 本次提交新解锁的成就
type UnlockedAchievement struct {
	AchievementID string `json:"achievementId"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Rarity        string `json:"rarity"`
	RewardXP      int    `json:"rewardXp"`
}

// SubmissionResult 一次提交的完整结果
// swagger:model SubmissionResult
type SubmissionResult struct {
	AttemptID   string                `json:"attemptId"`
	QuizID      uint                  `json:"quizId"`
	Score       int                   `json:"score"`
	XPEarned    int                   `json:"xpEarned"`
	CompletedAt time.Time             `json:"completedAt"`
	Unlocked    []UnlockedAchievement `json:"unlockedAchievements"`
}

// SubmitAttempt 评分并记录一次测验提交
//
// 评分失败（空作答、空测验、测验不存在）在任何写入之前整体拒绝。
// 写入顺序固定：先追加答题记录，再对当日聚合行做单条原子自增，
// 最后同步评估成就——成就评估读到的历史必然包含本次提交。
// 成就环节的任何失败只记日志，学员的分数必须已保存。
func (s *ProgressService) SubmitAttempt(ctx context.Context, userID, quizID uint, answers []AnswerSubmission) (*SubmissionResult, error) {
	if len(answers) == 0 {
		return nil, util.ErrNoAnswers
	}

	if _, err := s.Users.FindByID(userID); err != nil {
		return nil, err
	}

	quiz, err := s.Quizzes.FindWithQuestions(quizID)
	if err != nil {
		return nil, err
	}

	score, err := ScoreQuiz(quiz, answers)
	if err != nil {
		return nil, err
	}

	// 本次调用的所有派生写入共用同一个时间点，避免跨日边界错位
	now := s.now()

	attempt := &model.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		CompletedAt: now,
	}
	if err := s.Attempts.Create(attempt); err != nil {
		return nil, err
	}

	xp := AttemptXP(score)
	delta := model.DailyProgress{
		QuizzesCompleted: 1,
		CumulativeScore:  score,
		StudyTimeMinutes: StudyMinutesPerAttempt,
		XPEarned:         xp,
	}
	if err := s.Progress.IncrementDaily(userID, startOfDay(now), delta); err != nil {
		return nil, err
	}

	unlocked := s.materializeAchievements(userID)

	monitoring.AttemptsScored.WithLabelValues(quiz.Topic).Inc()
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, userID)
	}

	return &SubmissionResult{
		AttemptID:   attempt.ID,
		QuizID:      quizID,
		Score:       score,
		XPEarned:    xp,
		CompletedAt: now,
		Unlocked:    unlocked,
	}, nil
}

// materializeAchievements 成就落库，冲突重试一次，失败不回传给提交方
func (s *ProgressService) materializeAchievements(userID uint) []UnlockedAchievement {
	_, newly, err := s.Achievement.Materialize(userID)
	if util.IsConflict(err) {
		// 并发评估撞上唯一索引，重试一次即可收敛
		_, newly, err = s.Achievement.Materialize(userID)
	}
	if err != nil {
		logger.Log.Error("achievement materialization failed, attempt already recorded",
			zap.Uint("user", userID),
			zap.Error(err))
		return nil
	}

	unlocked := make([]UnlockedAchievement, 0, len(newly))
	for _, rule := range newly {
		unlocked = append(unlocked, UnlockedAchievement{
			AchievementID: rule.ID,
			Name:          rule.Name,
			Description:   rule.Description,
			Rarity:        rule.Rarity,
			RewardXP:      rule.RewardXP,
		})
	}
	return unlocked
}
