package memory

import (
	"context"
	"sort"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/posts"
)

type postsRepo struct {
	s *Store
}

func NewPostsRepo(s *Store) posts.Repository {
	return &postsRepo{s: s}
}

func (r *postsRepo) Create(ctx context.Context, p posts.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.posts[p.ID]; exists {
		return apperrors.Conflict("post already exists")
	}
	r.s.posts[p.ID] = p
	return nil
}

func (r *postsRepo) Update(ctx context.Context, p posts.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.posts[p.ID]; !exists {
		return apperrors.NotFound("post")
	}
	r.s.posts[p.ID] = p
	return nil
}

func (r *postsRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.posts[id]; !exists {
		return apperrors.NotFound("post")
	}
	delete(r.s.posts, id)
	return nil
}

func (r *postsRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return posts.Post{}, apperrors.NotFound("post")
	}
	return p, nil
}

func (r *postsRepo) List(ctx context.Context) ([]posts.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]posts.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out, nil
}
