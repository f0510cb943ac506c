package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/ndthub/internal/search"
	"github.com/dgallion1/ndthub/internal/store"
)

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
}

func (s *Server) handleSearchTool(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return
	}

	results := s.searcher.Search(r.Context(), req.Query)

	user := currentUser(r)
	s.recordAudit(r, store.AuditLog{
		UserID:     user.ID,
		Role:       user.Role,
		ActionType: store.ActionSearchTool,
		MetadataJSON: metaJSON(map[string]any{
			"query": req.Query,
			"count": len(results),
		}),
	})

	respondJSON(w, http.StatusOK, searchResponse{Query: req.Query, Results: results})
}
