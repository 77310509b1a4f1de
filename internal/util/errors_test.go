package util

import (
	"algoquiz_backend/pkg/logger"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func TestErrorKindPredicates(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", ErrNoAnswers)

	if !IsValidation(ErrNoAnswers) || !IsValidation(wrapped) {
		t.Error("wrapped validation error not recognized")
	}
	if !IsNotFound(ErrQuizNotFound) || !IsNotFound(ErrUserNotFound) {
		t.Error("not-found sentinels not recognized")
	}
	if IsNotFound(ErrNoAnswers) || IsValidation(ErrQuizNotFound) {
		t.Error("error kinds must not overlap")
	}
	if !IsDependency(WrapDependency("redis get", errors.New("timeout"))) {
		t.Error("wrapped dependency error not recognized")
	}
	if WrapDependency("noop", nil) != nil {
		t.Error("WrapDependency(nil) must be nil")
	}
}

func TestFromErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", ErrNoAnswers, http.StatusBadRequest},
		{"not found", ErrQuizNotFound, http.StatusNotFound},
		{"dependency", WrapDependency("mysql", errors.New("down")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err)
			if w.Code != tt.want {
				t.Errorf("FromError(%v) status = %d, want %d", tt.err, w.Code, tt.want)
			}
		})
	}
}
