package news

import (
	"log/slog"
	"net/http"

	"newsboard/internal/domain/entity"
)

// Services bundles the use cases behind the news routes.
type Services struct {
	Feeds    Feeds
	Resolver Resolver
	Comments Comments
	Sweeper  Sweeper
}

// Register mounts the news routes on mux. Identity must already be in the
// request context; see auth.Middleware.
func Register(mux *http.ServeMux, svc Services, logger *slog.Logger) {
	mux.Handle("GET /{$}", FeedHandler{Svc: svc.Feeds, Tag: entity.TagMainTrends, WithListing: true, Logger: logger})
	mux.Handle("GET /science-news", FeedHandler{Svc: svc.Feeds, Tag: entity.TagScience, Logger: logger})
	mux.Handle("GET /society-news", FeedHandler{Svc: svc.Feeds, Tag: entity.TagSociety, Logger: logger})

	mux.Handle("GET /show_news/{id}", ShowHandler{Resolver: svc.Resolver, Comments: svc.Comments})
	mux.Handle("POST /show_news/{id}", CommentHandler{Comments: svc.Comments})
	mux.Handle("GET /delete/{commentId}", DeleteCommentHandler{Comments: svc.Comments})

	mux.Handle("GET /clear-database", ClearHandler{Sweeper: svc.Sweeper})
}
