package service

import (
	"algoquiz_backend/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsFixture struct {
	svc          *StatsService
	attempts     *fakeAttemptStore
	progress     *fakeProgressStore
	achievements *fakeAchievementStore
}

func newStatsFixture() *statsFixture {
	attempts := &fakeAttemptStore{}
	progress := newFakeProgressStore()
	achievements := newFakeAchievementStore()

	svc := NewStatsService(attempts, progress, achievements, nil)
	svc.now = func() time.Time { return streakNow }

	return &statsFixture{svc: svc, attempts: attempts, progress: progress, achievements: achievements}
}

// recordAttempt 同时写答题记录和对应的日聚合行，模拟提交路径的双写
func (f *statsFixture) recordAttempt(t *testing.T, userID uint, score int, at time.Time, quiz *model.Quiz) {
	t.Helper()
	require.NoError(t, f.attempts.Create(&model.QuizAttempt{
		UserID:      userID,
		QuizID:      quiz.ID,
		Score:       score,
		CompletedAt: at,
		Quiz:        quiz,
	}))
	require.NoError(t, f.progress.IncrementDaily(userID, startOfDay(at), model.DailyProgress{
		QuizzesCompleted: 1,
		CumulativeScore:  score,
		StudyTimeMinutes: StudyMinutesPerAttempt,
		XPEarned:         AttemptXP(score),
	}))
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp        int
		wantLevel int
		wantInto  int
	}{
		{0, 1, 0},
		{999, 1, 999},
		{1000, 2, 0},
		{2350, 3, 350},
	}
	for _, tt := range tests {
		level, into := LevelForXP(tt.xp)
		if level != tt.wantLevel || into != tt.wantInto {
			t.Errorf("LevelForXP(%d) = (%d, %d), want (%d, %d)",
				tt.xp, level, into, tt.wantLevel, tt.wantInto)
		}
	}
}

// 全新用户拿到零值默认而不是错误
func TestGetSummaryEmptyHistory(t *testing.T) {
	f := newStatsFixture()

	summary, err := f.svc.GetSummary(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalXP)
	assert.Equal(t, 1, summary.Level)
	assert.Equal(t, 0, summary.XPIntoLevel)
	assert.Equal(t, 0, summary.QuizzesCompleted)
	assert.Equal(t, 0.0, summary.AverageScore)
	assert.Equal(t, 0, summary.CurrentStreak)
	assert.Equal(t, 0, summary.LongestStreak)
	assert.Equal(t, 0, summary.AchievementsUnlocked)
	assert.Equal(t, 0, summary.DistinctTopicsMastered)
}

func TestGetSummaryComputation(t *testing.T) {
	f := newStatsFixture()
	arrayQuiz := buildQuiz(1, "array", 1)
	treeQuiz := buildQuiz(2, "binary_tree", 1)

	// array 最佳 100（掌握），binary_tree 最佳 50（未掌握）
	f.recordAttempt(t, 1, 100, daysAgo(1, 9), arrayQuiz)
	f.recordAttempt(t, 1, 50, daysAgo(1, 14), treeQuiz)
	f.recordAttempt(t, 1, 50, daysAgo(0, 10), treeQuiz)

	require.NoError(t, f.achievements.Upsert([]model.UserAchievement{
		{UserID: 1, AchievementID: "first_steps", Progress: 1, IsCompleted: true},
		{UserID: 1, AchievementID: "quiz_veteran", Progress: 3},
	}))

	summary, err := f.svc.GetSummary(context.Background(), 1)
	require.NoError(t, err)

	wantXP := AttemptXP(100) + AttemptXP(50) + AttemptXP(50)
	assert.Equal(t, wantXP, summary.TotalXP)
	assert.Equal(t, 1, summary.Level)
	assert.Equal(t, wantXP, summary.XPIntoLevel)
	assert.Equal(t, 3, summary.QuizzesCompleted)
	// (100+50+50)/3 = 66.666... 保留两位
	assert.Equal(t, 66.67, summary.AverageScore)
	assert.Equal(t, 2, summary.CurrentStreak)
	assert.Equal(t, 2, summary.LongestStreak)
	assert.Equal(t, 1, summary.AchievementsUnlocked)
	assert.Equal(t, 3*StudyMinutesPerAttempt, summary.TotalStudyMinutes)
	assert.Equal(t, 1, summary.DistinctTopicsMastered)
}

func TestGetWeeklySeriesZeroFill(t *testing.T) {
	f := newStatsFixture()

	series, err := f.svc.GetWeeklySeries(1)
	require.NoError(t, err)
	require.Len(t, series, 7)

	assert.Equal(t, streakNow.AddDate(0, 0, -6).Format("2006-01-02"), series[0].Day)
	assert.Equal(t, streakNow.Format("2006-01-02"), series[6].Day)
	for _, stat := range series {
		assert.Equal(t, 0, stat.QuizzesCompleted)
		assert.Equal(t, 0.0, stat.AverageScore)
		assert.Equal(t, 0, stat.XPEarned)
	}
}

// 有聚合行的天和只有原始答题记录的天，对同样的答题必须算出相同数字
func TestGetWeeklySeriesStoredMatchesDerived(t *testing.T) {
	f := newStatsFixture()
	quiz := buildQuiz(1, "array", 1)

	// 前天：双写（正常提交路径）
	f.recordAttempt(t, 1, 80, daysAgo(2, 9), quiz)
	f.recordAttempt(t, 1, 90, daysAgo(2, 15), quiz)

	// 昨天：同样的分数组合，但只有答题记录，没有聚合行
	for _, score := range []int{80, 90} {
		require.NoError(t, f.attempts.Create(&model.QuizAttempt{
			UserID:      1,
			QuizID:      quiz.ID,
			Score:       score,
			CompletedAt: daysAgo(1, 10),
			Quiz:        quiz,
		}))
	}

	series, err := f.svc.GetWeeklySeries(1)
	require.NoError(t, err)
	require.Len(t, series, 7)

	stored := series[4]  // 前天
	derived := series[5] // 昨天
	assert.Equal(t, daysAgo(2, 15).Format("2006-01-02"), stored.Day)
	assert.Equal(t, daysAgo(1, 15).Format("2006-01-02"), derived.Day)

	assert.Equal(t, stored.QuizzesCompleted, derived.QuizzesCompleted)
	assert.Equal(t, stored.AverageScore, derived.AverageScore)
	assert.Equal(t, stored.StudyTimeMinutes, derived.StudyTimeMinutes)
	assert.Equal(t, stored.XPEarned, derived.XPEarned)

	assert.Equal(t, 2, stored.QuizzesCompleted)
	assert.Equal(t, 85.0, stored.AverageScore)
	assert.Equal(t, AttemptXP(80)+AttemptXP(90), stored.XPEarned)
}

func TestGetWeeklySeriesOldActivityExcluded(t *testing.T) {
	f := newStatsFixture()
	quiz := buildQuiz(1, "array", 1)
	f.recordAttempt(t, 1, 100, daysAgo(10, 9), quiz)

	series, err := f.svc.GetWeeklySeries(1)
	require.NoError(t, err)
	for _, stat := range series {
		assert.Equal(t, 0, stat.QuizzesCompleted)
	}
}

type stubCache struct {
	stored map[uint]*ProgressionSummary
	sets   int
}

func (c *stubCache) Get(ctx context.Context, userID uint, dest interface{}) bool {
	cached, ok := c.stored[userID]
	if !ok {
		return false
	}
	*dest.(*ProgressionSummary) = *cached
	return true
}

func (c *stubCache) Set(ctx context.Context, userID uint, value interface{}) {
	c.sets++
	c.stored[userID] = value.(*ProgressionSummary)
}

func (c *stubCache) Invalidate(ctx context.Context, userID uint) {
	delete(c.stored, userID)
}

// 缓存命中时不回源，未命中时回源并回填
func TestGetSummaryUsesCache(t *testing.T) {
	f := newStatsFixture()
	cache := &stubCache{stored: make(map[uint]*ProgressionSummary)}
	f.svc.Cache = cache

	quiz := buildQuiz(1, "array", 1)
	f.recordAttempt(t, 1, 100, daysAgo(0, 9), quiz)

	first, err := f.svc.GetSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// 绕过提交路径直接加数据，命中缓存时看不到新增
	f.recordAttempt(t, 1, 50, daysAgo(0, 11), quiz)
	second, err := f.svc.GetSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first.QuizzesCompleted, second.QuizzesCompleted)
	assert.Equal(t, 1, cache.sets)

	// 失效后重新计算
	cache.Invalidate(context.Background(), 1)
	third, err := f.svc.GetSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, third.QuizzesCompleted)
}
