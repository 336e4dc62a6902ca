package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/madplan/kurv/internal/category"
	"github.com/madplan/kurv/internal/mealplan"
	"github.com/madplan/kurv/internal/model"
	"github.com/madplan/kurv/internal/store"
	ws "github.com/madplan/kurv/internal/websocket"
)

type ShoppingHandler struct {
	shoppingStore *store.ShoppingStore
	offerStore    *store.OfferStore
	hub           *ws.Hub
	logger        *slog.Logger
}

func NewShoppingHandler(ss *store.ShoppingStore, os *store.OfferStore, hub *ws.Hub, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{shoppingStore: ss, offerStore: os, hub: hub, logger: logger}
}

// activeList resolves (and if needed creates) the active list. Handlers run
// in the single-household deployment mode, so the owner scope is global.
func (h *ShoppingHandler) activeList(w http.ResponseWriter) (*model.ShoppingList, bool) {
	list, err := h.shoppingStore.GetOrCreateActive(nil)
	if err != nil {
		h.logger.Error("get or create active list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load shopping list")
		return nil, false
	}
	return list, true
}

func (h *ShoppingHandler) GetActiveList(w http.ResponseWriter, r *http.Request) {
	list, ok := h.activeList(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ShoppingHandler) NewList(w http.ResponseWriter, r *http.Request) {
	list, err := h.shoppingStore.StartFresh(nil)
	if err != nil {
		h.logger.Error("start fresh list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start new list")
		return
	}
	h.hub.Broadcast(ws.NewMessage(ws.EntityList, "created", list.ID, list.ID))
	writeJSON(w, http.StatusCreated, list)
}

type itemRequest struct {
	Name          string   `json:"name"`
	Quantity      string   `json:"quantity"`
	Category      string   `json:"category"`
	Source        string   `json:"source"`
	SourceID      *string  `json:"source_id"`
	PriceEstimate *float64 `json:"price_estimate"`
}

func (h *ShoppingHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	list, ok := h.activeList(w)
	if !ok {
		return
	}

	id, merged, err := h.shoppingStore.AddItem(list.ID, req.Name, req.Quantity, req.Category, req.Source, req.SourceID, req.PriceEstimate)
	if err != nil {
		h.logger.Error("add item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	item, err := h.shoppingStore.GetItemByID(id)
	if err != nil {
		h.logger.Error("get item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load item")
		return
	}

	action := "created"
	status := http.StatusCreated
	if merged {
		action = "merged"
		status = http.StatusOK
	}
	h.hub.Broadcast(ws.NewMessage(ws.EntityItem, action, id, list.ID))

	writeJSON(w, status, map[string]any{"item": item, "merged": merged})
}

func (h *ShoppingHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	list, ok := h.activeList(w)
	if !ok {
		return
	}

	includeChecked := r.URL.Query().Get("include_checked") != "false"
	items, err := h.shoppingStore.ListItems(list.ID, includeChecked)
	if err != nil {
		h.logger.Error("list items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.ShoppingListItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShoppingHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	list, ok := h.activeList(w)
	if !ok {
		return
	}

	includeChecked := r.URL.Query().Get("include_checked") != "false"
	groups, err := h.shoppingStore.GroupByCategory(list.ID, includeChecked)
	if err != nil {
		h.logger.Error("group by category", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to group items")
		return
	}
	if groups == nil {
		groups = []model.CategoryGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *ShoppingHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	checked, err := h.shoppingStore.ToggleChecked(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		h.logger.Error("toggle item", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityItem, "toggled", id, 0))
	writeJSON(w, http.StatusOK, map[string]bool{"checked": checked})
}

func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.shoppingStore.RemoveItem(id)
	if err != nil {
		h.logger.Error("remove item", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to remove item")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityItem, "deleted", id, 0))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	h.clear(w, true)
}

func (h *ShoppingHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	h.clear(w, false)
}

func (h *ShoppingHandler) clear(w http.ResponseWriter, checkedOnly bool) {
	list, ok := h.activeList(w)
	if !ok {
		return
	}

	removed, err := h.shoppingStore.Clear(list.ID, checkedOnly)
	if err != nil {
		h.logger.Error("clear list", "error", err, "checked_only", checkedOnly)
		writeError(w, http.StatusInternalServerError, "failed to clear list")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityList, "cleared", list.ID, list.ID))
	writeJSON(w, http.StatusOK, map[string]int64{"removed": removed})
}

func (h *ShoppingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	list, ok := h.activeList(w)
	if !ok {
		return
	}

	stats, err := h.shoppingStore.Stats(list.ID)
	if err != nil {
		h.logger.Error("list stats", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Badge returns the unchecked item count for the navigation badge.
func (h *ShoppingHandler) Badge(w http.ResponseWriter, r *http.Request) {
	list, ok := h.activeList(w)
	if !ok {
		return
	}

	count, err := h.shoppingStore.CountUnchecked(list.ID)
	if err != nil {
		h.logger.Error("count unchecked", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to count items")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unchecked": count})
}

type importMealPlanRequest struct {
	Document string `json:"document"`
}

// ImportMealPlan extracts shopping list candidates from a meal plan document
// and bulk-adds them to the active list. A document without a shopping list
// section is a normal outcome reported as found=false, so the caller can
// tell the user to add items manually.
func (h *ShoppingHandler) ImportMealPlan(w http.ResponseWriter, r *http.Request) {
	var req importMealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	candidates, found := mealplan.Extract(req.Document)
	if !found {
		writeJSON(w, http.StatusOK, map[string]any{
			"found":    false,
			"imported": 0,
			"message":  "no shopping list section found in meal plan",
		})
		return
	}

	list, ok := h.activeList(w)
	if !ok {
		return
	}

	imported, err := h.shoppingStore.AddItemsBulk(list.ID, candidates)
	if err != nil {
		h.logger.Error("bulk add meal plan items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to import items")
		return
	}

	h.hub.Broadcast(ws.NewMessage(ws.EntityList, "imported", list.ID, list.ID))
	writeJSON(w, http.StatusOK, map[string]any{"found": true, "imported": imported})
}

type offerSelection struct {
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
}

type importOffersRequest struct {
	Selections []offerSelection `json:"selections"`
}

// ImportOffers adds the selected store offers to the active list. Unknown
// product ids are reported back rather than failing the whole batch.
func (h *ShoppingHandler) ImportOffers(w http.ResponseWriter, r *http.Request) {
	var req importOffersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	list, ok := h.activeList(w)
	if !ok {
		return
	}

	added := 0
	var missing []string
	for _, sel := range req.Selections {
		offer, err := h.offerStore.GetByProductID(sel.ProductID)
		if err != nil {
			h.logger.Error("get offer", "error", err, "product_id", sel.ProductID)
			writeError(w, http.StatusInternalServerError, "failed to load offer")
			return
		}
		if offer == nil {
			missing = append(missing, sel.ProductID)
			continue
		}

		productID := offer.ProductID
		price := offer.PriceNumeric
		cat := category.Classify(offer.Name, offer.Department)
		_, _, err = h.shoppingStore.AddItem(list.ID, offer.Name, sel.Quantity, cat, model.SourceOffer, &productID, &price)
		if err != nil {
			h.logger.Error("add offer item", "error", err, "product_id", sel.ProductID)
			writeError(w, http.StatusInternalServerError, "failed to add offer item")
			return
		}
		added++
	}

	if missing == nil {
		missing = []string{}
	}
	h.hub.Broadcast(ws.NewMessage(ws.EntityList, "imported", list.ID, list.ID))
	writeJSON(w, http.StatusOK, map[string]any{"added": added, "missing": missing})
}
