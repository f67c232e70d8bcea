package pathutil

import (
	"errors"
	"net/http"
	"strconv"
)

// ErrInvalidID is returned when a path id is not a positive integer.
var ErrInvalidID = errors.New("invalid id")

// ParseID parses a positive int64 id.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

// PathID reads the named wildcard of a ServeMux pattern as an id.
//
//	mux.HandleFunc("GET /show_news/{id}", h)
//	id, err := pathutil.PathID(r, "id")
func PathID(r *http.Request, name string) (int64, error) {
	return ParseID(r.PathValue(name))
}
