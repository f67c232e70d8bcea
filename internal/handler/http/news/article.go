package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"newsboard/internal/domain/entity"
	"newsboard/internal/handler/http/auth"
	"newsboard/internal/handler/http/pathutil"
	"newsboard/internal/handler/http/respond"
	"newsboard/internal/usecase/comment"
	"newsboard/internal/usecase/resolve"
)

const (
	loginPath = "/login"
	// maxCommentBytes bounds comment form bodies.
	maxCommentBytes = 32 << 10
)

// Resolver loads an article with its body. *resolve.Service satisfies it.
type Resolver interface {
	ResolveBody(ctx context.Context, articleID int64) (resolve.Resolution, error)
}

// Comments is the comment use case. *comment.Service satisfies it.
type Comments interface {
	AddComment(ctx context.Context, id entity.Identity, articleID int64, text string) (*entity.Comment, error)
	DeleteComment(ctx context.Context, id entity.Identity, commentID int64) (int64, error)
	ListComments(ctx context.Context, articleID int64) ([]*entity.Comment, error)
}

func articlePath(id int64) string {
	return fmt.Sprintf("/show_news/%d", id)
}

// ShowHandler serves GET /show_news/{id}.
type ShowHandler struct {
	Resolver Resolver
	Comments Comments
}

func (h ShowHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.Resolver.ResolveBody(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if res.Failure != nil {
		slog.InfoContext(r.Context(), "article body unavailable",
			slog.Int64("article_id", id),
			slog.Any("reason", res.Failure))
	}

	comments, err := h.Comments.ListComments(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, showResponse{
		Article:  articleDTO(res.Article),
		Body:     res.Body,
		Resolved: res.Resolved,
		Comments: commentDTOs(comments, auth.CurrentIdentity(r.Context())),
	})
}

// CommentHandler serves POST /show_news/{id}.
type CommentHandler struct {
	Comments Comments
}

func (h CommentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.PathID(r, "id")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	text, err := commentText(w, r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	_, err = h.Comments.AddComment(r.Context(), auth.CurrentIdentity(r.Context()), id, text)
	if errors.Is(err, comment.ErrUnauthenticated) {
		respond.SeeOther(w, r, loginPath)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	respond.SeeOther(w, r, articlePath(id))
}

// commentText reads the text field from a form or a JSON body.
func commentText(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCommentBytes)

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var in struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return "", errors.New("invalid request body")
		}
		return in.Text, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", errors.New("invalid form body")
	}
	return r.PostFormValue("text"), nil
}

// DeleteCommentHandler serves GET /delete/{commentId}.
type DeleteCommentHandler struct {
	Comments Comments
}

func (h DeleteCommentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	commentID, err := pathutil.PathID(r, "commentId")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	articleID, err := h.Comments.DeleteComment(r.Context(), auth.CurrentIdentity(r.Context()), commentID)
	if errors.Is(err, comment.ErrUnauthenticated) {
		respond.SeeOther(w, r, loginPath)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	respond.SeeOther(w, r, articlePath(articleID))
}
