package service

import (
	"algoquiz_backend/internal/model"
	"algoquiz_backend/internal/util"
	"context"
	"fmt"
	"sort"
	"time"
)

// 服务层测试用的内存存储假实现，合并语义与仓库层的 SQL upsert 一致

type fakeUserStore struct {
	users map[uint]*model.User
}

func newFakeUserStore(ids ...uint) *fakeUserStore {
	f := &fakeUserStore{users: make(map[uint]*model.User)}
	for _, id := range ids {
		u := &model.User{Name: fmt.Sprintf("user-%d", id), Role: model.Student}
		u.ID = id
		f.users[id] = u
	}
	return f
}

func (f *fakeUserStore) FindByID(id uint) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, util.ErrUserNotFound
	}
	return u, nil
}

type fakeQuizStore struct {
	quizzes map[uint]*model.Quiz
}

func newFakeQuizStore(quizzes ...*model.Quiz) *fakeQuizStore {
	f := &fakeQuizStore{quizzes: make(map[uint]*model.Quiz)}
	for _, q := range quizzes {
		f.quizzes[q.ID] = q
	}
	return f
}

func (f *fakeQuizStore) FindWithQuestions(id uint) (*model.Quiz, error) {
	q, ok := f.quizzes[id]
	if !ok {
		return nil, util.ErrQuizNotFound
	}
	return q, nil
}

func (f *fakeQuizStore) List(page, limit int) ([]model.Quiz, int64, error) {
	var out []model.Quiz
	for _, q := range f.quizzes {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

type fakeAttemptStore struct {
	attempts  []model.QuizAttempt
	createErr error
}

func (f *fakeAttemptStore) Create(a *model.QuizAttempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	if a.ID == "" {
		a.ID = model.GenerateUUID()
	}
	f.attempts = append(f.attempts, *a)
	return nil
}

func (f *fakeAttemptStore) ListByUser(userID uint) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	return out, nil
}

func (f *fakeAttemptStore) ListByUserBetween(userID uint, from, to time.Time) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, a := range f.attempts {
		if a.UserID == userID && !a.CompletedAt.Before(from) && a.CompletedAt.Before(to) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

type fakeProgressStore struct {
	rows        map[string]*model.DailyProgress
	upsertCalls int
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{rows: make(map[string]*model.DailyProgress)}
}

func progressKey(userID uint, day time.Time) string {
	return fmt.Sprintf("%d|%s", userID, day.Format("2006-01-02"))
}

// IncrementDaily 模拟单条原子 insert-or-increment
func (f *fakeProgressStore) IncrementDaily(userID uint, day time.Time, delta model.DailyProgress) error {
	f.upsertCalls++
	key := progressKey(userID, day)
	row, ok := f.rows[key]
	if !ok {
		row = &model.DailyProgress{UserID: userID, Day: day}
		f.rows[key] = row
	}
	row.QuizzesCompleted += delta.QuizzesCompleted
	row.CumulativeScore += delta.CumulativeScore
	row.StudyTimeMinutes += delta.StudyTimeMinutes
	row.XPEarned += delta.XPEarned
	return nil
}

func (f *fakeProgressStore) RangeByUser(userID uint, from, to time.Time) ([]model.DailyProgress, error) {
	var out []model.DailyProgress
	for _, row := range f.rows {
		if row.UserID == userID && !row.Day.Before(from) && row.Day.Before(to) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (f *fakeProgressStore) TotalsByUser(userID uint) (*model.ProgressTotals, error) {
	totals := &model.ProgressTotals{}
	for _, row := range f.rows {
		if row.UserID != userID {
			continue
		}
		totals.QuizzesCompleted += row.QuizzesCompleted
		totals.CumulativeScore += row.CumulativeScore
		totals.StudyTimeMinutes += row.StudyTimeMinutes
		totals.XPEarned += row.XPEarned
	}
	return totals, nil
}

type fakeAchievementStore struct {
	states      map[string]model.UserAchievement
	upsertCalls int
	failWith    []error // 依次弹出，模拟一次性冲突或持续故障
}

func newFakeAchievementStore() *fakeAchievementStore {
	return &fakeAchievementStore{states: make(map[string]model.UserAchievement)}
}

func achievementKey(userID uint, achievementID string) string {
	return fmt.Sprintf("%d|%s", userID, achievementID)
}

// Upsert 按仓库层的合并语义：progress 取最大、is_completed 只置位、
// completed_at 只保留首次写入
func (f *fakeAchievementStore) Upsert(states []model.UserAchievement) error {
	f.upsertCalls++
	if len(f.failWith) > 0 {
		err := f.failWith[0]
		f.failWith = f.failWith[1:]
		if err != nil {
			return err
		}
	}
	for _, st := range states {
		key := achievementKey(st.UserID, st.AchievementID)
		existing, ok := f.states[key]
		if !ok {
			f.states[key] = st
			continue
		}
		if st.Progress > existing.Progress {
			existing.Progress = st.Progress
		}
		existing.IsCompleted = existing.IsCompleted || st.IsCompleted
		if existing.CompletedAt == nil {
			existing.CompletedAt = st.CompletedAt
		}
		f.states[key] = existing
	}
	return nil
}

func (f *fakeAchievementStore) ListByUser(userID uint) ([]model.UserAchievement, error) {
	var out []model.UserAchievement
	for _, st := range f.states {
		if st.UserID == userID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AchievementID < out[j].AchievementID })
	return out, nil
}

func (f *fakeAchievementStore) CountCompleted(userID uint) (int64, error) {
	var count int64
	for _, st := range f.states {
		if st.UserID == userID && st.IsCompleted {
			count++
		}
	}
	return count, nil
}

type fakeSummaryCache struct {
	entries     map[uint][]byte
	invalidated int
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{entries: make(map[uint][]byte)}
}

func (f *fakeSummaryCache) Get(ctx context.Context, userID uint, dest interface{}) bool {
	return false
}

func (f *fakeSummaryCache) Set(ctx context.Context, userID uint, value interface{}) {}

func (f *fakeSummaryCache) Invalidate(ctx context.Context, userID uint) {
	f.invalidated++
	delete(f.entries, userID)
}

// 测试数据构造

func buildQuiz(id uint, topic string, questionCount int) *model.Quiz {
	quiz := &model.Quiz{Title: fmt.Sprintf("quiz-%d", id), Topic: topic}
	quiz.ID = id
	optionID := id * 1000
	for i := 0; i < questionCount; i++ {
		q := model.QuizQuestion{QuizID: id, Position: i + 1}
		q.ID = id*100 + uint(i) + 1
		correct := model.QuizOption{QuestionID: q.ID, IsCorrect: true, Position: 1}
		optionID++
		correct.ID = optionID
		wrong := model.QuizOption{QuestionID: q.ID, Position: 2}
		optionID++
		wrong.ID = optionID
		q.Options = []model.QuizOption{correct, wrong}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz
}

// correctAnswers 构造满分作答
func correctAnswers(quiz *model.Quiz) []AnswerSubmission {
	var answers []AnswerSubmission
	for _, q := range quiz.Questions {
		var selected []uint
		for _, opt := range q.Options {
			if opt.IsCorrect {
				selected = append(selected, opt.ID)
			}
		}
		answers = append(answers, AnswerSubmission{QuestionID: q.ID, SelectedOptionIDs: selected})
	}
	return answers
}

func attemptAt(userID, quizID uint, score int, at time.Time, quiz *model.Quiz) model.QuizAttempt {
	return model.QuizAttempt{
		UUIDBase:    model.UUIDBase{ID: model.GenerateUUID()},
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		CompletedAt: at,
		Quiz:        quiz,
	}
}
