package handlers

import (
	"net/http"

	"github.com/sebastiansucker/mAIrchen/pkg/api/types"
	"github.com/sebastiansucker/mAIrchen/pkg/story"
)

// ServiceMessage is the greeting returned by GET /.
const ServiceMessage = "mAIrchen API - Märchen für Kinder"

// Root returns the service name, provider tier and default model.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	types.WriteJSON(w, http.StatusOK, types.RootResponse{
		Message:    ServiceMessage,
		AIProvider: string(h.generator.Tier()),
		Model:      h.generator.DefaultModel(),
	})
}

// Health reports liveness. It does not contact the provider.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	types.WriteJSON(w, http.StatusOK, types.HealthResponse{Status: "healthy"})
}

// Random returns one random value per story parameter.
func (h *Handlers) Random(w http.ResponseWriter, r *http.Request) {
	types.WriteJSON(w, http.StatusOK, story.RandomSuggestion())
}

// Stats returns the admission ledger snapshot.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	types.WriteJSON(w, http.StatusOK, h.controller.Snapshot())
}
