package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"wyzar-be/internal/product"
	"wyzar-be/internal/utils"
)

type ProductHandler struct {
	Svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{Svc: svc}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := product.ListOptions{
		Category: r.URL.Query().Get("category"),
	}

	if seller, err := strconv.ParseUint(r.URL.Query().Get("seller"), 10, 64); err == nil {
		sellerID := uint(seller)
		opts.SellerID = &sellerID
	}

	if page, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 32); err == nil {
		opts.Page = int32(page)
	}
	if limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32); err == nil {
		opts.Limit = int32(limit)
	}

	products, err := h.Svc.List(r.Context(), opts)
	if err != nil {
		utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if products == nil {
		products = []product.Product{}
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			utils.WriteJSONError(w, "Product not found", http.StatusNotFound)
			return
		}
		utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !utils.IsSellerFromContext(r.Context()) {
		utils.WriteJSONError(w, "only sellers can list products", http.StatusForbidden)
		return
	}

	var input product.NewProduct
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sellerID, _ := utils.GetUserIDFromContext(r.Context())

	p, err := h.Svc.Create(r.Context(), sellerID, input)
	if err != nil {
		if errors.Is(err, product.ErrInvalidProduct) {
			utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		utils.WriteJSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, p)
}
