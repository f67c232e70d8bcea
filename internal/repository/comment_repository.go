package repository

import (
	"context"

	"newsboard/internal/domain/entity"
)

type CommentRepository interface {
	// Create inserts the comment and sets its ID and CreatedAt.
	Create(ctx context.Context, comment *entity.Comment) error
	// Get returns (nil, nil) when the comment does not exist.
	Get(ctx context.Context, id int64) (*entity.Comment, error)
	// ListByArticle returns the comments of an article, oldest first, with author names.
	ListByArticle(ctx context.Context, articleID int64) ([]*entity.Comment, error)
	Delete(ctx context.Context, id int64) error
}
