package repository

import (
	"context"
	"time"

	"newsboard/internal/domain/entity"
)

// ArticleRepository is the deduplicating article store.
// Uniqueness of title and link is enforced by the store itself; callers never pre-check.
type ArticleRepository interface {
	// Create inserts the article and sets its ID and CreatedAt.
	// Returns entity.ErrDuplicate when the title or link already exists.
	Create(ctx context.Context, article *entity.Article) error
	// Get returns (nil, nil) when the article does not exist.
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// ListByTag returns the articles of a tag in insertion order.
	ListByTag(ctx context.Context, tag entity.Tag) ([]*entity.Article, error)
	// UpdateBody stores a resolved body.
	UpdateBody(ctx context.Context, id int64, body string) error
	Delete(ctx context.Context, id int64) error
	// DeleteOlderThan removes articles published strictly before cutoff and returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}
