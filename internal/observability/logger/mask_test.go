package logger

import (
	"net/http"
	"testing"
)

func TestMaskPhone(t *testing.T) {
	if got := MaskPhone("0912345678"); got != "****5678" {
		t.Fatalf("expected ****5678, got %q", got)
	}
	if got := MaskPhone("911"); got != "****911" {
		t.Fatalf("expected ****911, got %q", got)
	}
	if got := MaskPhone("  "); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestMaskEmail(t *testing.T) {
	if got := MaskEmail("volunteer@example.com"); got != "****@example.com" {
		t.Fatalf("expected ****@example.com, got %q", got)
	}
	if got := MaskEmail("not-an-email"); got != "****mail" {
		t.Fatalf("expected ****mail, got %q", got)
	}
}

func TestMaskAuthorization(t *testing.T) {
	if got := MaskAuthorization("Bearer abcdef123456"); got != "Bearer ****3456" {
		t.Fatalf("expected masked bearer, got %q", got)
	}
	if got := MaskAuthorization("raw-token-value"); got != "****alue" {
		t.Fatalf("expected masked token, got %q", got)
	}
}

func TestMaskHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret-token")
	headers.Set("Content-Type", "application/json")

	masked := MaskHeaders(headers)
	if masked["Authorization"] != "Bearer ****oken" {
		t.Fatalf("authorization not masked: %q", masked["Authorization"])
	}
	if masked["Content-Type"] != "application/json" {
		t.Fatalf("content type should pass through: %q", masked["Content-Type"])
	}
}
