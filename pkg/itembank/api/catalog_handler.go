package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/itembank/pkg/itembank"
)

// CatalogHandler serves concepts, tags, media assets and users
type CatalogHandler struct {
	service itembank.Service
}

func NewCatalogHandler(service itembank.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// Routes returns the catalog routes
func (h *CatalogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/concepts", h.ListConcepts)
	r.Get("/concepts/{id}", h.GetConcept)
	r.Get("/tags", h.ListTags)
	r.Get("/media-assets", h.ListMediaAssets)
	r.Get("/users", h.ListUsers)
	r.Get("/users/{id}", h.GetUser)

	return r
}

func (h *CatalogHandler) ListConcepts(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListConcepts(r.Context(), listQuery(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *CatalogHandler) GetConcept(w http.ResponseWriter, r *http.Request) {
	concept, err := h.service.GetConcept(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, concept)
}

func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListTags(r.Context(), listQuery(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *CatalogHandler) ListMediaAssets(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListMediaAssets(r.Context(), listQuery(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *CatalogHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListUsers(r.Context(), listQuery(r, ""))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (h *CatalogHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, user)
}
