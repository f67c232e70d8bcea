package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"newsboard/internal/domain/entity"
	"newsboard/internal/repository"
)

type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepo(db *sql.DB) repository.CommentRepository {
	return &CommentRepo{db: db}
}

func (repo *CommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	const query = `
INSERT INTO comments (text, author_id, article_id)
VALUES ($1, $2, $3)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		comment.Text, comment.AuthorID, comment.ArticleID,
	).Scan(&comment.ID, &comment.CreatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("Create: article %d: %w", comment.ArticleID, entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *CommentRepo) Get(ctx context.Context, id int64) (*entity.Comment, error) {
	const query = `
SELECT c.id, c.text, c.author_id, a.name, c.article_id, c.created_at
FROM comments c
INNER JOIN accounts a ON a.id = c.author_id
WHERE c.id = $1`
	var c entity.Comment
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.Text, &c.AuthorID, &c.AuthorName, &c.ArticleID, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &c, nil
}

func (repo *CommentRepo) ListByArticle(ctx context.Context, articleID int64) ([]*entity.Comment, error) {
	const query = `
SELECT c.id, c.text, c.author_id, a.name, c.article_id, c.created_at
FROM comments c
INNER JOIN accounts a ON a.id = c.author_id
WHERE c.article_id = $1
ORDER BY c.id ASC`
	rows, err := repo.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("ListByArticle: %w", err)
	}
	defer func() { _ = rows.Close() }()

	comments := make([]*entity.Comment, 0, 16)
	for rows.Next() {
		var c entity.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.AuthorID, &c.AuthorName, &c.ArticleID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListByArticle: Scan: %w", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByArticle: rows.Err: %w", err)
	}
	return comments, nil
}

func (repo *CommentRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM comments WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
