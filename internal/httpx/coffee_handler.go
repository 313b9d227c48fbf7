package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-coffee-sync.git/internal/catalog"
	"github.com/ariefcatur/go-coffee-sync.git/internal/orders"
	"github.com/ariefcatur/go-coffee-sync.git/internal/readiness"
	"github.com/ariefcatur/go-coffee-sync.git/internal/terminal"
	"github.com/ariefcatur/go-coffee-sync.git/internal/tokens"
)

// CoffeeHandler is the API surface the game server calls when a player
// interacts with the coffee terminal in-world.
type CoffeeHandler struct {
	Queue        *orders.Queue
	Readiness    *readiness.Cache
	Registration *tokens.Registration
	Store        catalog.Store
	VendorID     uint32
}

type EnqueueOrderReq struct {
	PlayerID uint32         `json:"player_id"`
	Variants map[string]int `json:"variants"` // variant id -> qty
}

type EnqueueOrderResp struct {
	JobID string `json:"job_id"`
}

type VerifyTokenReq struct {
	Pages []string `json:"pages"`
}

func (h *CoffeeHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.enqueueOrder)
	r.Get("/players/{id}/readiness", h.playerReadiness)
	r.Post("/players/{id}/token", h.verifyToken)
	r.Get("/catalog/items", h.listItems)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *CoffeeHandler) enqueueOrder(w http.ResponseWriter, r *http.Request) {
	var req EnqueueOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.PlayerID == 0 || len(req.Variants) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	jobID, err := h.Queue.Enqueue(ctx, req.PlayerID, req.Variants)
	switch {
	case errors.Is(err, orders.ErrCustomerNotReady):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	case errors.Is(err, terminal.ErrRemoteUnavailable), errors.Is(err, terminal.ErrRemoteClient), errors.Is(err, terminal.ErrDecode):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, EnqueueOrderResp{JobID: jobID})
}

func (h *CoffeeHandler) playerReadiness(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ready, err := h.Readiness.CanPlayerPurchase(ctx, playerID)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ready": ready})
}

func (h *CoffeeHandler) verifyToken(w http.ResponseWriter, r *http.Request) {
	playerID, ok := parsePlayerID(w, r)
	if !ok {
		return
	}
	var req VerifyTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	_, err := h.Registration.VerifyParchment(ctx, playerID, req.Pages)
	if errors.Is(err, tokens.ErrValidation) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

func (h *CoffeeHandler) listItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Store.ListVendorItems(ctx, h.VendorID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func parsePlayerID(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid player id"})
		return 0, false
	}
	return uint32(id), true
}
