package news

import (
	"errors"
	"net/http"

	"newsboard/internal/domain/entity"
	"newsboard/internal/handler/http/pathutil"
	"newsboard/internal/handler/http/respond"
	"newsboard/internal/infra/fetcher"
	"newsboard/internal/usecase/comment"
	"newsboard/internal/usecase/resolve"
	"newsboard/internal/usecase/retention"
)

// statusFor maps use case errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidInput), errors.Is(err, pathutil.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, resolve.ErrNotFound),
		errors.Is(err, comment.ErrArticleNotFound),
		errors.Is(err, comment.ErrCommentNotFound):
		return http.StatusNotFound
	case errors.Is(err, comment.ErrForbidden), errors.Is(err, retention.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, fetcher.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusBadGateway {
		err = respond.NewAppError(code, "upstream source unavailable", err)
	}
	respond.SafeError(w, code, err)
}
