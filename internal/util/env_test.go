package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("UMLREVIEW_TEST_MODEL", "llama")
	if got := GetEnvString("UMLREVIEW_TEST_MODEL", "fallback"); got != "llama" {
		t.Fatalf("expected llama, got %q", got)
	}
	t.Setenv("UMLREVIEW_TEST_MODEL", "")
	if got := GetEnvString("UMLREVIEW_TEST_MODEL", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback for empty value, got %q", got)
	}
	if got := GetEnvString("UMLREVIEW_TEST_UNSET", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestGetEnvNumeric(t *testing.T) {
	t.Setenv("UMLREVIEW_TEST_TOP_P", "0.98")
	if got := GetEnvNumeric("UMLREVIEW_TEST_TOP_P", 1); got != 0.98 {
		t.Fatalf("expected 0.98, got %v", got)
	}
	t.Setenv("UMLREVIEW_TEST_TOP_P", "high")
	if got := GetEnvNumeric("UMLREVIEW_TEST_TOP_P", 1); got != 1 {
		t.Fatalf("expected default for unparsable value, got %v", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("UMLREVIEW_TEST_K", " 5 ")
	if got := GetEnvInt("UMLREVIEW_TEST_K", 3); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	t.Setenv("UMLREVIEW_TEST_K", "2.5")
	if got := GetEnvInt("UMLREVIEW_TEST_K", 3); got != 3 {
		t.Fatalf("expected default for fractional value, got %d", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("UMLREVIEW_TEST_DEBUG", "true")
	if !GetEnvBool("UMLREVIEW_TEST_DEBUG", false) {
		t.Fatal("expected true")
	}
	t.Setenv("UMLREVIEW_TEST_DEBUG", "yes")
	if GetEnvBool("UMLREVIEW_TEST_DEBUG", false) {
		t.Fatal("expected default for unrecognised value")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("UMLREVIEW_TEST_FROM_FILE=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("UMLREVIEW_TEST_FROM_FILE", "")
	os.Unsetenv("UMLREVIEW_TEST_FROM_FILE")

	LoadEnv(path)
	if got := GetEnv("UMLREVIEW_TEST_FROM_FILE"); got != "loaded" {
		t.Fatalf("expected loaded, got %q", got)
	}
}
