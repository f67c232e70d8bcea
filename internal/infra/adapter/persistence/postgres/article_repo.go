package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newsboard/internal/domain/entity"
	"newsboard/internal/repository"
)

type ArticleRepo struct {
	db *sql.DB
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

const articleColumns = `id, title, body, published_on, thumbnail_url, link, tag, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*entity.Article, error) {
	var (
		article   entity.Article
		body      sql.NullString
		thumbnail sql.NullString
		tag       string
	)
	if err := row.Scan(&article.ID, &article.Title, &body, &article.PublishedOn,
		&thumbnail, &article.Link, &tag, &article.CreatedAt); err != nil {
		return nil, err
	}
	article.Body = body.String
	article.ThumbnailURL = thumbnail.String
	article.Tag = entity.Tag(tag)
	return &article, nil
}

// Create relies on the UNIQUE constraints on title and link. Each call is a single
// statement, so a rejected insert never affects other rows of the batch.
func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles
       (title, body, published_on, thumbnail_url, link, tag)
VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5, $6)
RETURNING id, created_at`
	err := repo.db.QueryRowContext(ctx, query,
		article.Title, article.Body, entity.DateOf(article.PublishedOn),
		article.ThumbnailURL, article.Link, string(article.Tag),
	).Scan(&article.ID, &article.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("Create: %w", entity.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles
WHERE id = $1
LIMIT 1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) ListByTag(ctx context.Context, tag entity.Tag) ([]*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles
WHERE tag = $1
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query, string(tag))
	if err != nil {
		return nil, fmt.Errorf("ListByTag: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 32)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByTag: Scan: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByTag: rows.Err: %w", err)
	}
	return articles, nil
}

func (repo *ArticleRepo) UpdateBody(ctx context.Context, id int64, body string) error {
	const query = `UPDATE articles SET body = $1 WHERE id = $2`
	res, err := repo.db.ExecContext(ctx, query, body, id)
	if err != nil {
		return fmt.Errorf("UpdateBody: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("UpdateBody: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM articles WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM articles WHERE published_on < $1`
	res, err := repo.db.ExecContext(ctx, query, entity.DateOf(cutoff))
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: RowsAffected: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}
