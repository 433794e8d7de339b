package api

import "github.com/campusnet/campusnet/shared/domain"

type SearchResponse struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
}
