package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/itembank/pkg/itembank"
)

// SearchHandler serves flattened documents for external search indexing
type SearchHandler struct {
	service itembank.Service
}

func NewSearchHandler(service itembank.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/drafts", h.SearchDrafts)
	r.Get("/concepts", h.SearchConcepts)
	r.Get("/prod", h.SearchPublished)

	return r
}

func (h *SearchHandler) SearchDrafts(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.SearchDraftDocs(r.Context(), listQuery(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *SearchHandler) SearchConcepts(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.SearchConceptDocs(r.Context(), listQuery(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *SearchHandler) SearchPublished(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.SearchPublishedDocs(r.Context(), listQuery(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}
