package utils

import (
	"os"
	"testing"
	"time"
)

func TestGetEnvAsInt(t *testing.T) {
	os.Setenv("TEST_INT_VAR", "42")
	defer os.Unsetenv("TEST_INT_VAR")

	if got := GetEnvAsInt("TEST_INT_VAR", 7); got != 42 {
		t.Errorf("GetEnvAsInt = %d, want 42", got)
	}
	if got := GetEnvAsInt("TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("GetEnvAsInt default = %d, want 7", got)
	}

	os.Setenv("TEST_INT_VAR", "not a number")
	if got := GetEnvAsInt("TEST_INT_VAR", 7); got != 7 {
		t.Errorf("GetEnvAsInt on garbage = %d, want default 7", got)
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DUR_VAR", "90m")
	defer os.Unsetenv("TEST_DUR_VAR")

	if got := GetEnvAsDuration("TEST_DUR_VAR", time.Hour); got != 90*time.Minute {
		t.Errorf("GetEnvAsDuration = %v, want 90m", got)
	}
	if got := GetEnvAsDuration("TEST_DUR_MISSING", time.Hour); got != time.Hour {
		t.Errorf("GetEnvAsDuration default = %v, want 1h", got)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	os.Setenv("TEST_BOOL_VAR", "true")
	defer os.Unsetenv("TEST_BOOL_VAR")

	if !GetEnvAsBool("TEST_BOOL_VAR", false) {
		t.Error("GetEnvAsBool did not read true")
	}
	if GetEnvAsBool("TEST_BOOL_MISSING", false) {
		t.Error("GetEnvAsBool ignored default")
	}
}

func TestGetEnvAsString(t *testing.T) {
	os.Setenv("TEST_STR_VAR", "value")
	defer os.Unsetenv("TEST_STR_VAR")

	if got := GetEnvAsString("TEST_STR_VAR", "fallback"); got != "value" {
		t.Errorf("GetEnvAsString = %q, want value", got)
	}
	if got := GetEnvAsString("TEST_STR_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnvAsString default = %q, want fallback", got)
	}
}
