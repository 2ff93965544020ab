package handler

import (
	"net/http"

	"raglobal-chat/internal/repository"
	"raglobal-chat/internal/service"
	"raglobal-chat/internal/transport/ws"
)

// AdminHandler handles operator endpoints: retraining, knowledge reload and
// service stats.
type AdminHandler struct {
	trainer   *service.Trainer
	predictor *service.Predictor
	retriever *service.Retriever
	leads     repository.LeadRepository
	hub       *ws.Hub
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(trainer *service.Trainer, predictor *service.Predictor, retriever *service.Retriever, leads repository.LeadRepository, hub *ws.Hub) *AdminHandler {
	return &AdminHandler{
		trainer:   trainer,
		predictor: predictor,
		retriever: retriever,
		leads:     leads,
		hub:       hub,
	}
}

// Retrain handles POST /v1/admin/retrain: fits a fresh predictor artifact and
// swaps it in, then rebuilds the retriever snapshot against the new
// vectorizer.
func (h *AdminHandler) Retrain(w http.ResponseWriter, r *http.Request) {
	artifact, err := h.trainer.Train(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.predictor.Swap(artifact)
	if err := h.retriever.Rebuild(r.Context(), artifact.Vectorizer); err != nil {
		writeError(w, http.StatusInternalServerError, "trained but knowledge rebuild failed: "+err.Error())
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.MsgPredictorSwap, map[string]interface{}{
			"version": artifact.Version,
			"samples": artifact.Samples,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": artifact.Version,
		"samples": artifact.Samples,
		"classes": artifact.Model.Classes,
	})
}

// RebuildKnowledge handles POST /v1/admin/knowledge/rebuild: reloads the
// corpus snapshot from the store without retraining.
func (h *AdminHandler) RebuildKnowledge(w http.ResponseWriter, r *http.Request) {
	artifact := h.predictor.Artifact()
	if artifact == nil {
		writeError(w, http.StatusConflict, "no predictor artifact loaded; train first")
		return
	}

	if err := h.retriever.Rebuild(r.Context(), artifact.Vectorizer); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.MsgKnowledgeReload, map[string]int{"pairs": h.retriever.CorpusSize()})
	}

	writeJSON(w, http.StatusOK, map[string]int{"pairs": h.retriever.CorpusSize()})
}

// Stats handles GET /v1/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	leadCount, err := h.leads.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stats := map[string]interface{}{
		"leads":           leadCount,
		"knowledgePairs":  h.retriever.CorpusSize(),
		"predictorLoaded": h.predictor.IsLoaded(),
	}
	if artifact := h.predictor.Artifact(); artifact != nil {
		stats["predictorVersion"] = artifact.Version
		stats["predictorSamples"] = artifact.Samples
	}

	writeJSON(w, http.StatusOK, stats)
}
