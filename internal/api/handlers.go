package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gunhaa/vercel-dodge-bullet/internal/game"
	"github.com/gunhaa/vercel-dodge-bullet/internal/scores"
)

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.engine.Snapshot())
}

// handleGetLeaderboard serves the top N scores, descending. A missing
// or failing store yields an empty list, never an error to the client:
// leaderboard availability must not look like a gameplay failure.
func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := h.leaderboardSize
	if q := r.URL.Query().Get("n"); q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 && v <= 100 {
			n = v
		}
	}

	entries := []scores.Entry{}
	if h.scores != nil {
		top, err := h.scores.Top(r.Context(), n)
		if err != nil {
			log.Printf("⚠️ Leaderboard fetch failed: %v", err)
		} else {
			entries = top
		}
	}

	writeJSON(w, entries)
}

func (h *routerHandlers) handleGetPreview(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		http.NotFound(w, r)
		return
	}

	png, err := h.renderer.RenderPNG(h.engine.Snapshot())
	if err != nil {
		writeError(w, "Render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

func (h *routerHandlers) handleSessionStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Player string `json:"player"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Player == "" {
		writeError(w, "Player name is required", http.StatusBadRequest)
		return
	}
	if len(req.Player) > 32 {
		req.Player = req.Player[:32]
	}

	if err := h.engine.StartSession(req.Player); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleSessionAdvance(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.AdvanceStage(); err != nil {
		status := http.StatusConflict
		if errors.Is(err, game.ErrNoSession) {
			status = http.StatusNotFound
		}
		writeError(w, err.Error(), status)
		return
	}

	writeJSON(w, h.engine.Snapshot())
}

func (h *routerHandlers) handleSessionLobby(w http.ResponseWriter, r *http.Request) {
	h.engine.ReturnToLobby()
	writeJSON(w, map[string]string{"status": "lobby"})
}

func (h *routerHandlers) handlePointer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	h.engine.SetPointerTarget(req.X, req.Y)
	w.WriteHeader(http.StatusNoContent)
}

func (h *routerHandlers) handleVisibility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hidden bool `json:"hidden"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	h.engine.SetVisibility(req.Hidden)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️ JSON encode failed: %v", err)
	}
}

func writeError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
