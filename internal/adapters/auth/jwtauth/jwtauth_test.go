package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-booking/internal/apperrors"
)

func newTestManager(t *testing.T, now time.Time) *Manager {
	t.Helper()
	m, err := New(Config{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	m.now = func() time.Time { return now }
	return m
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)

	token, exp, err := m.Issue(context.Background(), "admin-1", "recepcion")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", exp)
	}

	claims, err := m.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.AdminID != "admin-1" || claims.Username != "recepcion" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerify_Expired(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)

	token, _, _ := m.Issue(context.Background(), "admin-1", "recepcion")

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	if _, err := m.Verify(context.Background(), token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	now := time.Now()
	m := newTestManager(t, now)
	token, _, _ := m.Issue(context.Background(), "admin-1", "recepcion")

	other, _ := New(Config{Secret: "another-secret", TTL: time.Hour})
	if _, err := other.Verify(context.Background(), token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for foreign signature, got %v", err)
	}
	if _, err := m.Verify(context.Background(), "not-a-jwt"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage, got %v", err)
	}
}

func TestNew_RequiresSecret(t *testing.T) {
	if _, err := New(Config{TTL: time.Hour}); !errors.Is(err, apperrors.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
