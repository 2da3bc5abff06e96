package apperrors

import (
	"errors"
	"testing"
)

func TestClassify_WrapsUnknownAsDataAccess(t *testing.T) {
	err := Classify("list services", errors.New("connection refused"))
	if !errors.Is(err, ErrDataAccess) {
		t.Fatalf("expected ErrDataAccess, got %v", err)
	}
}

func TestClassify_KeepsKnownKinds(t *testing.T) {
	in := NotFound("service")
	out := Classify("get service", in)
	if out != in {
		t.Fatalf("expected classified error to pass through unchanged, got %v", out)
	}
	if Kind(out) != ErrNotFound {
		t.Fatalf("expected ErrNotFound kind, got %v", Kind(out))
	}
}

func TestDataAccess_KeepsCause(t *testing.T) {
	cause := errors.New("boom")
	err := DataAccess("insert", cause)
	if !errors.Is(err, cause) || !errors.Is(err, ErrDataAccess) {
		t.Fatalf("expected both cause and kind in chain, got %v", err)
	}
	if DataAccess("noop", nil) != nil {
		t.Fatalf("expected nil for nil cause")
	}
}
