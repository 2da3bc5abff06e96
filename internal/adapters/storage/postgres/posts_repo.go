package postgres

import (
	"context"
	"database/sql"

	"vet-booking/internal/apperrors"
	"vet-booking/internal/domain/posts"
)

type PostsRepo struct {
	db *sql.DB
}

func NewPostsRepo(db *sql.DB) *PostsRepo {
	return &PostsRepo{db: db}
}

const postColumns = `id, title, content, image_url, published_at, created_at, updated_at`

func (r *PostsRepo) Create(ctx context.Context, p posts.Post) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, p.ID, p.Title, p.Content, p.ImageURL, p.PublishedAt, p.CreatedAt, p.UpdatedAt)
	return mapError("post", "create post", err)
}

func (r *PostsRepo) Update(ctx context.Context, p posts.Post) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE posts
		SET
			title = $2,
			content = $3,
			image_url = $4,
			published_at = $5,
			updated_at = $6
		WHERE id = $1
	`, p.ID, p.Title, p.Content, p.ImageURL, p.PublishedAt, p.UpdatedAt)
	if err != nil {
		return mapError("post", "update post", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("post")
	}
	return nil
}

func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return mapError("post", "delete post", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperrors.NotFound("post")
	}
	return nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE id = $1
	`, id)

	p, err := scanPost(row)
	if err != nil {
		return posts.Post{}, mapError("post", "get post", err)
	}
	return p, nil
}

func (r *PostsRepo) List(ctx context.Context) ([]posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		ORDER BY published_at DESC
	`)
	if err != nil {
		return nil, mapError("post", "list posts", err)
	}
	defer rows.Close()

	out := make([]posts.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, mapError("post", "scan post", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("post", "list posts", err)
	}
	return out, nil
}

func scanPost(row rowScanner) (posts.Post, error) {
	var p posts.Post
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.ImageURL, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
