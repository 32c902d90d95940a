package utils

import (
	"reflect"
	"testing"
	"time"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("HM_TEST_STR", "  value ")
	t.Setenv("HM_TEST_BOOL", "false")
	t.Setenv("HM_TEST_BAD_BOOL", "nope")
	t.Setenv("HM_TEST_DUR", "90m")

	if got := EnvOrDefault("HM_TEST_STR", "def"); got != "value" {
		t.Errorf("EnvOrDefault() = %q, want %q", got, "value")
	}
	if got := EnvOrDefault("HM_TEST_MISSING", "def"); got != "def" {
		t.Errorf("EnvOrDefault(missing) = %q, want %q", got, "def")
	}
	if got := EnvBool("HM_TEST_BOOL", true); got {
		t.Error("EnvBool() = true, want false")
	}
	if got := EnvBool("HM_TEST_BAD_BOOL", true); !got {
		t.Error("EnvBool(bad) = false, want default true")
	}
	if got := EnvDuration("HM_TEST_DUR", time.Hour); got != 90*time.Minute {
		t.Errorf("EnvDuration() = %v, want 90m", got)
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" http://a.test , ,http://b.test")
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitCSV() = %v, want %v", got, want)
	}
}
