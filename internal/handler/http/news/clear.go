package news

import (
	"context"
	"net/http"
	"time"

	"newsboard/internal/domain/entity"
	"newsboard/internal/handler/http/auth"
	"newsboard/internal/handler/http/respond"
)

// Sweeper purges stale articles. *retention.Sweeper satisfies it.
type Sweeper interface {
	Sweep(ctx context.Context, id entity.Identity, now time.Time) (int64, error)
}

// ClearHandler serves GET /clear-database.
type ClearHandler struct {
	Sweeper Sweeper
	Now     func() time.Time
}

func (h ClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := auth.CurrentIdentity(r.Context())
	if !id.IsAuthenticated() {
		respond.SeeOther(w, r, loginPath)
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	deleted, err := h.Sweeper.Sweep(r.Context(), id, now())
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, clearResponse{Deleted: deleted})
}

func respondJSON(w http.ResponseWriter, v any) {
	respond.JSON(w, http.StatusOK, v)
}
