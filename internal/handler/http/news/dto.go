// Package news serves the article feeds, the article page with its comments
// and the clear-database operation.
package news

import (
	"time"

	"newsboard/internal/domain/entity"
)

// ArticleDTO is the JSON form of a stored article.
type ArticleDTO struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Link         string    `json:"link"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Tag          string    `json:"tag"`
	PublishedOn  string    `json:"published_on"`
	CreatedAt    time.Time `json:"created_at"`
}

// StubDTO is a listing entry that was scraped but not stored.
type StubDTO struct {
	Title        string `json:"title"`
	Link         string `json:"link"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// CommentDTO is the JSON form of a comment. Deletable reflects the caller.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	Deletable  bool      `json:"deletable"`
}

type feedResponse struct {
	Articles []ArticleDTO `json:"articles"`
	Feed     []StubDTO    `json:"feed,omitempty"`
}

type showResponse struct {
	Article  ArticleDTO   `json:"article"`
	Body     string       `json:"body"`
	Resolved bool         `json:"resolved"`
	Comments []CommentDTO `json:"comments"`
}

type clearResponse struct {
	Deleted int64 `json:"deleted"`
}

func articleDTO(a *entity.Article) ArticleDTO {
	return ArticleDTO{
		ID:           a.ID,
		Title:        a.Title,
		Link:         a.Link,
		ThumbnailURL: a.ThumbnailURL,
		Tag:          string(a.Tag),
		PublishedOn:  a.PublishedOn.Format(time.DateOnly),
		CreatedAt:    a.CreatedAt,
	}
}

func articleDTOs(articles []*entity.Article) []ArticleDTO {
	out := make([]ArticleDTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleDTO(a))
	}
	return out
}

func stubDTOs(stubs []entity.Stub) []StubDTO {
	out := make([]StubDTO, 0, len(stubs))
	for _, s := range stubs {
		out = append(out, StubDTO{Title: s.Title, Link: s.Link, ThumbnailURL: s.ThumbnailURL})
	}
	return out
}

func commentDTOs(comments []*entity.Comment, viewer entity.Identity) []CommentDTO {
	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentDTO{
			ID:         c.ID,
			Text:       c.Text,
			AuthorID:   c.AuthorID,
			AuthorName: c.AuthorName,
			CreatedAt:  c.CreatedAt,
			Deletable:  viewer.IsAccount() && (viewer.AccountID == c.AuthorID || viewer.IsPrivileged()),
		})
	}
	return out
}
