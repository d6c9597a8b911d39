package handlers

import (
	"errors"
	"net/http"

	"github.com/MLGBenProple/Deckle/internal/api/response"
	"github.com/MLGBenProple/Deckle/internal/version"
)

// Pinger checks that a backing store is reachable.
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and version endpoints.
type SystemHandler struct {
	db Pinger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{db: db}
}

// Health reports server and database health.
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			response.ServiceUnavailable(w, errors.New("database unreachable"))
			return
		}
	}
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "deckle-api",
	})
}

// Version returns the running application version.
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"version": version.GetVersion()})
}
