package handler

import (
	"net/http"
	"net/url"

	"github.com/campusnet/campusnet/shared/api"
	"github.com/campusnet/campusnet/shared/errors"
	"github.com/campusnet/campusnet/shared/utils"
)

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query, err := pathParam(r, "query")
	if err != nil {
		fail(w, r, "Search", err)
		return
	}
	// chi matches on RawPath when the path carries escapes it cannot round trip
	if r.URL.RawPath != "" {
		if query, err = url.PathUnescape(query); err != nil {
			fail(w, r, "Search", errors.InvalidOperation("Search query is malformed"))
			return
		}
	}

	results, err := h.search.Search(r.Context(), query)
	if err != nil {
		fail(w, r, "Search", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.SearchResponse{Query: query, Results: results})
}
