package config

import (
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("QUIZ_NAME", "friday")
	t.Setenv("QUIZ_PORT", "9090")
	t.Setenv("QUIZ_BAD_PORT", "ninety")
	t.Setenv("QUIZ_MUTED", "true")
	t.Setenv("QUIZ_DELAY", "1500ms")
	t.Setenv("QUIZ_BAD_DELAY", "soon")

	if got := GetEnv("QUIZ_NAME", "x"); got != "friday" {
		t.Errorf("GetEnv = %q", got)
	}
	if got := GetEnv("QUIZ_MISSING", "x"); got != "x" {
		t.Errorf("GetEnv default = %q", got)
	}
	if got := GetEnvAsInt("QUIZ_PORT", 1); got != 9090 {
		t.Errorf("GetEnvAsInt = %d", got)
	}
	if got := GetEnvAsInt("QUIZ_BAD_PORT", 1); got != 1 {
		t.Errorf("GetEnvAsInt with garbage = %d, want default", got)
	}
	if !GetEnvAsBool("QUIZ_MUTED", false) {
		t.Error("GetEnvAsBool = false")
	}
	if got := GetEnvAsDuration("QUIZ_DELAY", time.Second); got != 1500*time.Millisecond {
		t.Errorf("GetEnvAsDuration = %v", got)
	}
	if got := GetEnvAsDuration("QUIZ_BAD_DELAY", time.Second); got != time.Second {
		t.Errorf("GetEnvAsDuration with garbage = %v, want default", got)
	}
}
