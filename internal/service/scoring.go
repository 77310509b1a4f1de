package service

import (
	"algoquiz_backend/internal/model"
	"algoquiz_backend/internal/util"
	"math"
)

// AnswerSubmission 对一道题的作答：题目ID 加选中的选项ID集合
// swagger:model AnswerSubmission
type AnswerSubmission struct {
	QuestionID        uint   `json:"questionId" binding:"required"`
	SelectedOptionIDs []uint `json:"selectedOptionIds"`
}

// ScoreQuiz 对一次提交评分，纯函数，无副作用
//
// 每道题只有选中集合与正确集合完全相等才得分（同基数、无遗漏、无多选），
// 不给部分分。未作答按 0 分处理。引用了不存在题目或选项的作答视为未作答
// 丢弃，不报错——客户端的畸形输入不应让一次有效提交失败。
// 总分 = round(100 * 答对题数 / 总题数)。空测验属于配置错误，返回校验错误。
func ScoreQuiz(quiz *model.Quiz, answers []AnswerSubmission) (int, error) {
	total := len(quiz.Questions)
	if total == 0 {
		return 0, util.ErrQuizNoQuestions
	}

	// 每题一份作答；重复出现时以最后一份为准
	byQuestion := make(map[uint][]uint, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a.SelectedOptionIDs
	}

	correct := 0
	for _, q := range quiz.Questions {
		if answeredCorrectly(&q, byQuestion[q.ID]) {
			correct++
		}
	}

	return int(math.Round(100 * float64(correct) / float64(total))), nil
}

func answeredCorrectly(q *model.QuizQuestion, selected []uint) bool {
	if len(selected) == 0 {
		return false
	}

	valid := make(map[uint]bool, len(q.Options))
	correctSet := make(map[uint]bool)
	for _, opt := range q.Options {
		valid[opt.ID] = true
		if opt.IsCorrect {
			correctSet[opt.ID] = true
		}
	}

	chosen := make(map[uint]bool, len(selected))
	for _, id := range selected {
		if !valid[id] {
			// 选项不属于本题，整题按未作答处理
			return false
		}
		chosen[id] = true
	}

	if len(chosen) != len(correctSet) {
		return false
	}
	for id := range correctSet {
		if !chosen[id] {
			return false
		}
	}
	return true
}
