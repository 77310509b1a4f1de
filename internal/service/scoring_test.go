package service

import (
	"algoquiz_backend/internal/model"
	"algoquiz_backend/internal/util"
	"testing"
)

// 两题测验，题 1 多选（两个正确项），题 2 单选
func scoringFixture() *model.Quiz {
	quiz := &model.Quiz{Title: "链表入门", Topic: "linked_list"}
	quiz.ID = 1

	q1 := model.QuizQuestion{QuizID: 1, Position: 1}
	q1.ID = 11
	q1.Options = []model.QuizOption{
		{BaseModel: model.BaseModel{ID: 111}, QuestionID: 11, IsCorrect: true, Position: 1},
		{BaseModel: model.BaseModel{ID: 112}, QuestionID: 11, Position: 2},
		{BaseModel: model.BaseModel{ID: 113}, QuestionID: 11, IsCorrect: true, Position: 3},
	}

	q2 := model.QuizQuestion{QuizID: 1, Position: 2}
	q2.ID = 12
	q2.Options = []model.QuizOption{
		{BaseModel: model.BaseModel{ID: 121}, QuestionID: 12, IsCorrect: true, Position: 1},
		{BaseModel: model.BaseModel{ID: 122}, QuestionID: 12, Position: 2},
	}

	quiz.Questions = []model.QuizQuestion{q1, q2}
	return quiz
}

func TestScoreQuizExactSetMatch(t *testing.T) {
	quiz := scoringFixture()

	tests := []struct {
		name    string
		answers []AnswerSubmission
		want    int
	}{
		{
			name: "全对",
			answers: []AnswerSubmission{
				{QuestionID: 11, SelectedOptionIDs: []uint{111, 113}},
				{QuestionID: 12, SelectedOptionIDs: []uint{121}},
			},
			want: 100,
		},
		{
			name: "多选题漏选一项不得分",
			answers: []AnswerSubmission{
				{QuestionID: 11, SelectedOptionIDs: []uint{111}},
				{QuestionID: 12, SelectedOptionIDs: []uint{121}},
			},
			want: 50,
		},
		{
			name: "多选了错误项不得分",
			answers: []AnswerSubmission{
				{QuestionID: 11, SelectedOptionIDs: []uint{111, 112, 113}},
				{QuestionID: 12, SelectedOptionIDs: []uint{121}},
			},
			want: 50,
		},
		{
			name: "未作答的题按零分",
			answers: []AnswerSubmission{
				{QuestionID: 12, SelectedOptionIDs: []uint{121}},
			},
			want: 50,
		},
		{
			name: "全错",
			answers: []AnswerSubmission{
				{QuestionID: 11, SelectedOptionIDs: []uint{112}},
				{QuestionID: 12, SelectedOptionIDs: []uint{122}},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScoreQuiz(quiz, tt.answers)
			if err != nil {
				t.Fatalf("ScoreQuiz() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ScoreQuiz() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreQuizMalformedInputIgnored(t *testing.T) {
	quiz := scoringFixture()

	tests := []struct {
		name    string
		answers []AnswerSubmission
		want    int
	}{
		{
			name: "引用不存在的题目被丢弃",
			answers: []AnswerSubmission{
				{QuestionID: 999, SelectedOptionIDs: []uint{111}},
				{QuestionID: 12, SelectedOptionIDs: []uint{121}},
			},
			want: 50,
		},
		{
			name: "选项不属于本题时整题作废",
			answers: []AnswerSubmission{
				{QuestionID: 11, SelectedOptionIDs: []uint{111, 113, 122}},
				{QuestionID: 12, SelectedOptionIDs: []uint{121}},
			},
			want: 50,
		},
		{
			name: "同一题重复作答以最后一份为准",
			answers: []AnswerSubmission{
				{QuestionID: 12, SelectedOptionIDs: []uint{121}},
				{QuestionID: 12, SelectedOptionIDs: []uint{122}},
			},
			want: 0,
		},
		{
			name: "重复选中同一选项按集合处理",
			answers: []AnswerSubmission{
				{QuestionID: 12, SelectedOptionIDs: []uint{121, 121}},
			},
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScoreQuiz(quiz, tt.answers)
			if err != nil {
				t.Fatalf("ScoreQuiz() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ScoreQuiz() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestScoreQuizRounding(t *testing.T) {
	quiz := buildQuiz(2, "array", 3)

	// 3 题答对 1 题：round(33.33) = 33
	answers := correctAnswers(quiz)[:1]
	got, err := ScoreQuiz(quiz, answers)
	if err != nil {
		t.Fatalf("ScoreQuiz() error = %v", err)
	}
	if got != 33 {
		t.Errorf("ScoreQuiz() = %d, want 33", got)
	}

	// 3 题答对 2 题：round(66.67) = 67
	answers = correctAnswers(quiz)[:2]
	got, err = ScoreQuiz(quiz, answers)
	if err != nil {
		t.Fatalf("ScoreQuiz() error = %v", err)
	}
	if got != 67 {
		t.Errorf("ScoreQuiz() = %d, want 67", got)
	}
}

func TestScoreQuizEmptyQuiz(t *testing.T) {
	quiz := &model.Quiz{Title: "empty"}
	quiz.ID = 3

	_, err := ScoreQuiz(quiz, []AnswerSubmission{{QuestionID: 1, SelectedOptionIDs: []uint{1}}})
	if !util.IsValidation(err) {
		t.Fatalf("ScoreQuiz() error = %v, want validation error", err)
	}
}
