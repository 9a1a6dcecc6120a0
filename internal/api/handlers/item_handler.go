package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nameless-app/users-be/internal/models"
)

// ItemHandler handles the stateless items endpoints. Nothing here touches
// the store; requests are validated and echoed back.
type ItemHandler struct {
	validate *validator.Validate
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler() *ItemHandler {
	return &ItemHandler{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// GetType echoes a known item type back to the caller.
func (h *ItemHandler) GetType(w http.ResponseWriter, r *http.Request) {
	itemType := models.ItemType(chi.URLParam(r, "item_type"))
	if !itemType.Valid() {
		respondBadRequest(w, "unknown item type: "+string(itemType))
		return
	}

	respondJSON(w, http.StatusOK, map[string]models.ItemType{"item_type": itemType})
}

// Create echoes a valid item back to the caller.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	if err := h.validate.Struct(item); err != nil {
		respondBadRequest(w, "validation failed: "+err.Error())
		return
	}
	if !item.Type.Valid() {
		respondBadRequest(w, "unknown item type: "+string(item.Type))
		return
	}

	respondJSON(w, http.StatusOK, item)
}
