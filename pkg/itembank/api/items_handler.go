package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/itembank/pkg/itembank"
)

// ItemHandler serves draft and published items
type ItemHandler struct {
	service itembank.Service
}

// NewItemHandler creates a new item handler
func NewItemHandler(service itembank.Service) *ItemHandler {
	return &ItemHandler{service: service}
}

// Routes returns the routes for items
func (h *ItemHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/draft", h.ListDrafts)
	r.Get("/draft/{id}", h.GetDraft)
	r.Get("/draft/{id}/versions", h.ListVersions)
	r.Get("/draft/{id}/reviews", h.ListReviews)

	r.Get("/prod", h.ListPublished)
	r.Get("/prod/{id}", h.GetPublished)

	return r
}

// ListDrafts lists draft items with optional expansion of child relations
func (h *ItemHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListDraftItems(r.Context(), listQuery(r, itembank.OwnerDraft))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// GetDraft returns one draft item
func (h *ItemHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	include := itembank.ParseInclude(r.URL.Query().Get(paramInclude), itembank.OwnerDraft)
	item, err := h.service.GetDraftItem(r.Context(), chi.URLParam(r, "id"), include)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, item)
}

// ListVersions lists the recorded versions of a draft item
func (h *ItemHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListItemVersions(r.Context(), chi.URLParam(r, "id"), listQuery(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// ListReviews lists the reviews of a draft item
func (h *ItemHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListItemReviews(r.Context(), chi.URLParam(r, "id"), listQuery(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *ItemHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListPublishedItems(r.Context(), listQuery(r, itembank.OwnerProd))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *ItemHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	include := itembank.ParseInclude(r.URL.Query().Get(paramInclude), itembank.OwnerProd)
	item, err := h.service.GetPublishedItem(r.Context(), chi.URLParam(r, "id"), include)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, item)
}
