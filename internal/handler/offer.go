package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/madplan/kurv/internal/model"
	"github.com/madplan/kurv/internal/store"
)

type OfferHandler struct {
	offerStore *store.OfferStore
	logger     *slog.Logger
}

func NewOfferHandler(os *store.OfferStore, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{offerStore: os, logger: logger}
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offerStore.List()
	if err != nil {
		h.logger.Error("list offers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list offers")
		return
	}
	if offers == nil {
		offers = []model.Offer{}
	}
	writeJSON(w, http.StatusOK, offers)
}

type upsertOffersRequest struct {
	Offers []model.Offer `json:"offers"`
}

// Upsert replaces or inserts a batch of offers, typically pushed by the
// weekly catalog scraper.
func (h *OfferHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertOffersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	for i := range req.Offers {
		req.Offers[i].ProductID = strings.TrimSpace(req.Offers[i].ProductID)
		if req.Offers[i].ProductID == "" {
			writeError(w, http.StatusBadRequest, "product_id is required")
			return
		}
	}

	stored, err := h.offerStore.UpsertBatch(req.Offers)
	if err != nil {
		h.logger.Error("upsert offers", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store offers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"stored": stored})
}
