package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionSigner_RoundTrip(t *testing.T) {
	signer := NewSessionSigner("secret", time.Hour)

	token, err := signer.Issue("sess-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := signer.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.SessionID != "sess-1" {
		t.Fatalf("expected sess-1, got %s", claims.SessionID)
	}
}

func TestSessionSigner_RejectsForeignSecret(t *testing.T) {
	token, err := NewSessionSigner("one", 0).Issue("sess-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewSessionSigner("two", 0).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionSigner_RejectsExpired(t *testing.T) {
	signer := NewSessionSigner("secret", time.Minute)
	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issuedAt }
	token, err := signer.Issue("sess-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	signer.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := signer.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to be rejected, got %v", err)
	}
}

func TestSessionSigner_MissingToken(t *testing.T) {
	if _, err := NewSessionSigner("secret", 0).Validate(" "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestExtractSessionToken_Precedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws?token=query", nil)
	req.Header.Set("Authorization", "Bearer header")
	req.AddCookie(&http.Cookie{Name: "askroom_session", Value: "cookie"})
	if got := ExtractSessionToken(req, "askroom_session"); got != "cookie" {
		t.Fatalf("expected cookie token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ws?token=query", nil)
	req.Header.Set("Authorization", "bearer header")
	if got := ExtractSessionToken(req, "askroom_session"); got != "header" {
		t.Fatalf("expected header token, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/ws?token=query", nil)
	if got := ExtractSessionToken(req, "askroom_session"); got != "query" {
		t.Fatalf("expected query token, got %q", got)
	}
}
