package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/MLGBenProple/Deckle/internal/api/response"
	"github.com/MLGBenProple/Deckle/internal/puzzle"
	"github.com/MLGBenProple/Deckle/internal/storage"
)

const adminPasswordHeader = "X-Admin-Password"

// Generator triggers daily game generation.
type Generator interface {
	Generate(ctx context.Context, date time.Time) puzzle.GenerationReport
}

// AdminHandler handles admin-gated operational endpoints.
type AdminHandler struct {
	generator Generator

	// passwordHash is a bcrypt hash of the admin password. Empty
	// disables the endpoint entirely.
	passwordHash string
	now          func() time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(generator Generator, passwordHash string) *AdminHandler {
	return &AdminHandler{generator: generator, passwordHash: passwordHash, now: time.Now}
}

// Generate runs game generation for the date in the "date" query
// parameter, defaulting to today (UTC).
func (h *AdminHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h.passwordHash == "" {
		response.ServiceUnavailable(w, errors.New("admin endpoint not configured"))
		return
	}
	password := r.Header.Get(adminPasswordHeader)
	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(password)); err != nil {
		response.Unauthorized(w, errors.New("invalid credentials"))
		return
	}

	date := h.now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(storage.DateFormat, raw)
		if err != nil {
			response.BadRequest(w, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw))
			return
		}
		date = parsed
	}

	report := h.generator.Generate(r.Context(), date)
	if report.Failed() {
		response.JSON(w, http.StatusBadGateway, report)
		return
	}
	response.Success(w, report)
}
