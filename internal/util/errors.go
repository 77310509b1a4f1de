package util

import (
	"errors"
	"fmt"
)

// 错误分类基础哨兵，具体错误通过 %w 包装其中一个，
// controller 层用 errors.Is 映射到 HTTP 状态码
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("conflict")
	ErrDependency = errors.New("dependency unavailable")
)

var (
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrQuizNotFound    = fmt.Errorf("%w: quiz not found", ErrNotFound)
	ErrNoAnswers       = fmt.Errorf("%w: no answers provided", ErrValidation)
	ErrQuizNoQuestions = fmt.Errorf("%w: quiz has no questions", ErrValidation)
)

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsDependency(err error) bool { return errors.Is(err, ErrDependency) }

// WrapDependency 将底层存储错误归类为可重试的依赖错误
func WrapDependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrDependency, op, err)
}
