package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tdempsey/RainbowRead250813/storage"
)

type CategoryHandlers struct {
	store *storage.MemStorage
}

func NewCategoryHandlers(store *storage.MemStorage) *CategoryHandlers {
	return &CategoryHandlers{store: store}
}

type ReorderRequest struct {
	CategoryOrders []struct {
		ID        string `json:"id"`
		SortOrder int    `json:"sort_order"`
	} `json:"category_orders"`
}

func (ch *CategoryHandlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, ch.store.GetCategories())
}

func (ch *CategoryHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input storage.CategoryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Invalid JSON"})
		return
	}

	category, err := ch.store.CreateCategory(input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, category)
}

func (ch *CategoryHandlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var upd storage.CategoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Invalid JSON"})
		return
	}

	category, err := ch.store.UpdateCategory(mux.Vars(r)["id"], upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, category)
}

func (ch *CategoryHandlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := ch.store.DeleteCategory(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

// ReorderCategories applies a batch of sort-order updates from the admin
// dashboard.
func (ch *CategoryHandlers) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "Invalid JSON"})
		return
	}

	for _, order := range req.CategoryOrders {
		sortOrder := order.SortOrder
		if _, err := ch.store.UpdateCategory(order.ID, storage.CategoryUpdate{SortOrder: &sortOrder}); err != nil {
			writeError(w, err)
			return
		}
	}
	writeData(w, http.StatusOK, map[string]string{"message": "Categories reordered"})
}
