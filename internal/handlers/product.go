package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tatangdev/Mern-Invoice-App/internal/auth"
	"github.com/tatangdev/Mern-Invoice-App/internal/httpx"
	"github.com/tatangdev/Mern-Invoice-App/internal/services"
)

type ProductHandler struct {
	catalog *services.CatalogService
}

func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

func (h *ProductHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	products, err := h.catalog.List(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, "list products", err)
		return
	}
	httpx.Data(w, http.StatusOK, products)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	product, err := h.catalog.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, "get product", err)
		return
	}
	httpx.Data(w, http.StatusOK, product)
}

type createProductRequest struct {
	Name  string  `json:"name"`
	Desc  string  `json:"desc"`
	Price float64 `json:"price"`
	Image *string `json:"image"`
}

func (h *ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	product, err := h.catalog.Create(r.Context(), ownerID, services.CreateProductParams{
		Name:  req.Name,
		Desc:  req.Desc,
		Price: req.Price,
		Image: req.Image,
	})
	if err != nil {
		respondServiceError(w, "create product", err)
		return
	}
	httpx.Data(w, http.StatusCreated, product)
}

type updateProductRequest struct {
	Name  *string  `json:"name"`
	Desc  *string  `json:"desc"`
	Price *float64 `json:"price"`
}

func (h *ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	product, err := h.catalog.Update(r.Context(), ownerID, chi.URLParam(r, "id"), services.UpdateProductParams{
		Name:  req.Name,
		Desc:  req.Desc,
		Price: req.Price,
	})
	if err != nil {
		respondServiceError(w, "update product", err)
		return
	}
	httpx.Data(w, http.StatusOK, product)
}

func (h *ProductHandler) delete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := auth.UserIDFromContext(r.Context())
	if err := h.catalog.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, "delete product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}
