package handler

import (
	"net/http"
	"strconv"

	"github.com/retailhub/backoffice/pkg/errors"
)

// queryInt64 parses an optional positive integer query parameter
func queryInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil, errors.BadRequest("invalid " + name)
	}
	return &v, nil
}
