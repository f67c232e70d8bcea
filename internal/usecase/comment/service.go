package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"newsboard/internal/domain/entity"
	"newsboard/internal/repository"
)

// Service is the comment subsystem.
type Service struct {
	Articles repository.ArticleRepository
	Comments repository.CommentRepository
}

// NewService creates a comment Service.
func NewService(articles repository.ArticleRepository, comments repository.CommentRepository) *Service {
	return &Service{Articles: articles, Comments: comments}
}

// AddComment stores text on an article. The author is always the caller,
// which must be an account.
func (s *Service) AddComment(ctx context.Context, id entity.Identity, articleID int64, text string) (*entity.Comment, error) {
	if !id.IsAccount() {
		return nil, ErrUnauthenticated
	}
	text, err := entity.ValidateCommentText(text)
	if err != nil {
		return nil, err
	}

	article, err := s.Articles.Get(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	c := &entity.Comment{
		Text:       text,
		AuthorID:   id.AccountID,
		AuthorName: id.Name,
		ArticleID:  article.ID,
	}
	if err := s.Comments.Create(ctx, c); err != nil {
		// A sweep may remove the article after the lookup above.
		if errors.Is(err, entity.ErrNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	slog.InfoContext(ctx, "comment added",
		slog.Int64("comment_id", c.ID),
		slog.Int64("article_id", c.ArticleID),
		slog.Int64("author_id", c.AuthorID))
	return c, nil
}

// DeleteComment removes a comment and returns its article id.
// Only the author or a privileged account may delete.
func (s *Service) DeleteComment(ctx context.Context, id entity.Identity, commentID int64) (int64, error) {
	if !id.IsAccount() {
		return 0, ErrUnauthenticated
	}

	c, err := s.Comments.Get(ctx, commentID)
	if err != nil {
		return 0, fmt.Errorf("get comment: %w", err)
	}
	if c == nil {
		return 0, ErrCommentNotFound
	}
	if c.AuthorID != id.AccountID && !id.IsPrivileged() {
		slog.WarnContext(ctx, "comment delete denied",
			slog.Int64("comment_id", commentID),
			slog.Int64("account_id", id.AccountID))
		return 0, ErrForbidden
	}

	if err := s.Comments.Delete(ctx, commentID); err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}
	return c.ArticleID, nil
}

// ListComments returns the comments of an article, oldest first.
func (s *Service) ListComments(ctx context.Context, articleID int64) ([]*entity.Comment, error) {
	comments, err := s.Comments.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
