package posts

import (
	"context"
	"errors"
	"testing"
	"time"

	"vet-booking/internal/apperrors"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Post
	err  error
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Post{}}
}

func (r *testRepo) Create(ctx context.Context, p Post) error {
	if r.err != nil {
		return r.err
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Post) error {
	if _, ok := r.byID[p.ID]; !ok {
		return apperrors.NotFound("post")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return apperrors.NotFound("post")
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return Post{}, apperrors.NotFound("post")
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context) ([]Post, error) {
	out := make([]Post, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

// -------------------------
// Tests
// -------------------------

func TestCreate_DefaultsPublishedAtToNow(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.Create(context.Background(), Input{Title: "  Vacunas  ", Content: "Calendario"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if p.Title != "Vacunas" || !p.PublishedAt.Equal(fixedNow) || p.ID == "" {
		t.Fatalf("unexpected post %+v", p)
	}
	if _, ok := repo.byID[p.ID]; !ok {
		t.Fatalf("post not stored")
	}
}

func TestCreate_RequiresTitleAndContent(t *testing.T) {
	svc, repo := newTestService()

	for _, in := range []Input{{Title: "x"}, {Content: "y"}, {Title: "  ", Content: "y"}} {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperrors.ErrValidation) {
			t.Fatalf("input %+v: expected ErrValidation, got %v", in, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Fatalf("invalid posts must not be stored")
	}
}

func TestCreate_StoreFailureIsDataAccess(t *testing.T) {
	svc, repo := newTestService()
	repo.err = errors.New("disk full")

	if _, err := svc.Create(context.Background(), Input{Title: "a", Content: "b"}); !errors.Is(err, apperrors.ErrDataAccess) {
		t.Fatalf("expected ErrDataAccess, got %v", err)
	}
}

func TestUpdate_KeepsPublishedAtWhenOmitted(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	p, _ := svc.Create(ctx, Input{Title: "a", Content: "b", PublishedAt: &published})

	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	got, err := svc.Update(ctx, p.ID, Input{Title: "a2", Content: "b2"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if !got.PublishedAt.Equal(published) || !got.UpdatedAt.Equal(fixedNow.Add(time.Hour)) || got.Title != "a2" {
		t.Fatalf("unexpected update %+v", got)
	}
}

func TestUpdateAndDelete_UnknownIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Update(ctx, "missing", Input{Title: "a", Content: "b"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := svc.Delete(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}
}
